package domain

import (
	"strings"
	"time"
)

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"

	// Uploads land under the temp prefix until bound to a car.
	// Invariant: once associated, no media key remains under this prefix.
	MediaTempPrefix = "cars/temp/"
)

// CarMedia is an uploaded image or video. CarID is empty until the media is
// associated with a listing at submission time.
type CarMedia struct {
	MediaID     string    `json:"id" dynamodbav:"media_id"`
	CarID       string    `json:"car_id,omitempty" dynamodbav:"car_id"`
	Kind        string    `json:"kind" dynamodbav:"kind"`
	ObjectKey   string    `json:"-" dynamodbav:"object_key"`
	URL         string    `json:"url" dynamodbav:"url"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	Size        int64     `json:"size" dynamodbav:"size"`
	Order       int       `json:"order" dynamodbav:"display_order"`
	IsPrimary   bool      `json:"is_primary" dynamodbav:"is_primary"`
	UploadedBy  string    `json:"-" dynamodbav:"uploaded_by"`
	Enable      bool      `json:"-" dynamodbav:"enable"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// InTempArea reports whether the media still lives under the temp prefix.
func (m *CarMedia) InTempArea() bool {
	return strings.HasPrefix(m.ObjectKey, MediaTempPrefix)
}
