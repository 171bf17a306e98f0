package domain

import "time"

// ModerationItemKind is a closed enum over moderatable entities. Unknown
// kinds are rejected at the domain layer rather than stored as free text.
type ModerationItemKind string

const (
	ModerationItemListing ModerationItemKind = "listing"
	ModerationItemProfile ModerationItemKind = "profile"
	ModerationItemInquiry ModerationItemKind = "inquiry"
	ModerationItemReport  ModerationItemKind = "report"
)

func (k ModerationItemKind) Valid() bool {
	switch k {
	case ModerationItemListing, ModerationItemProfile, ModerationItemInquiry, ModerationItemReport:
		return true
	}
	return false
}

const (
	ModerationStatusPending   = "pending"
	ModerationStatusInReview  = "in_review"
	ModerationStatusCompleted = "completed"
)

// ModerationQueueItem is a unit of admin review work with a typed target.
type ModerationQueueItem struct {
	ItemID      string             `json:"id" dynamodbav:"item_id"`
	Kind        ModerationItemKind `json:"kind" dynamodbav:"kind"`
	TargetID    string             `json:"target_id" dynamodbav:"target_id"`
	Status      string             `json:"status" dynamodbav:"status"`
	Priority    string             `json:"priority" dynamodbav:"priority"`
	AssignedTo  string             `json:"assigned_to,omitempty" dynamodbav:"assigned_to"`
	CreatedAt   time.Time          `json:"created" dynamodbav:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty" dynamodbav:"completed_at"`
}
