package domain

import "time"

// Notification types used by the marketplace.
const (
	NotificationTypeInquiry        = "inquiry_received"
	NotificationTypeListingStatus  = "listing_status"
	NotificationTypeListingChanges = "listing_changes_requested"
)

type Notification struct {
	NotificationID string     `json:"id" dynamodbav:"notification_id"`
	UserID         string     `json:"user_id" dynamodbav:"user_id"`
	Type           string     `json:"type" dynamodbav:"type"`
	Title          string     `json:"title" dynamodbav:"title"`
	Message        string     `json:"message" dynamodbav:"message"`
	Read           bool       `json:"read" dynamodbav:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty" dynamodbav:"read_at"`
	ViaEmail       bool       `json:"via_email" dynamodbav:"via_email"`
	ViaSMS         bool       `json:"via_sms" dynamodbav:"via_sms"`
	ViaPush        bool       `json:"via_push" dynamodbav:"via_push"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
}
