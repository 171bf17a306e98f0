package domain

import "time"

// Review actions over a listing. Approve/reject/request_changes drive the
// status state machine; feature/unfeature toggle the flag only.
const (
	ReviewActionApprove        = "approve"
	ReviewActionReject         = "reject"
	ReviewActionRequestChanges = "request_changes"
	ReviewActionFeature        = "feature"
	ReviewActionUnfeature      = "unfeature"
)

func ValidReviewAction(a string) bool {
	switch a {
	case ReviewActionApprove, ReviewActionReject, ReviewActionRequestChanges,
		ReviewActionFeature, ReviewActionUnfeature:
		return true
	}
	return false
}

// CarReview records one admin decision on a listing.
type CarReview struct {
	ReviewID          string    `json:"id" dynamodbav:"review_id"`
	CarID             string    `json:"car_id" dynamodbav:"car_id"`
	AdminID           string    `json:"admin_id" dynamodbav:"admin_id"`
	Action            string    `json:"action" dynamodbav:"action"`
	Reason            string    `json:"reason,omitempty" dynamodbav:"reason"`
	Feedback          string    `json:"feedback,omitempty" dynamodbav:"feedback"`
	Priority          string    `json:"priority,omitempty" dynamodbav:"priority"`
	QualityScore      int       `json:"quality_score,omitempty" dynamodbav:"quality_score"`
	CompletenessScore int       `json:"completeness_score,omitempty" dynamodbav:"completeness_score"`
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at"`
}
