package domain

import "time"

// Session tracks an authenticated login and owns the rotating refresh token.
type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id"`
	UserID           string    `json:"user_id" dynamodbav:"user_id"`
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token"`
	RefreshExpiresAt int64     `json:"refresh_expires_at" dynamodbav:"refresh_expires_at"`
	IPAddress        string    `json:"-" dynamodbav:"ip_address"`
	UserAgent        string    `json:"-" dynamodbav:"user_agent"`
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`

	User *User `json:"user,omitempty" dynamodbav:"-"`
}
