package domain

import "time"

// OTP delivery channels. Exactly one identity (phone or email) is set per token.
const (
	OTPChannelSMS   = "sms"
	OTPChannelEmail = "email"
)

// OTP purposes, carried for auditing; all purposes share the same verify flow.
const (
	OTPPurposeLogin        = "login"
	OTPPurposeRegistration = "registration"
)

const (
	OTPMaxAttempts = 3
	OTPLength      = 6
)

// OTPToken is a short-lived one-time code. Terminal once used or expired;
// attempts are counted across all verification tries.
type OTPToken struct {
	TokenID   string     `json:"id" dynamodbav:"token_id"`
	Identity  string     `json:"identity" dynamodbav:"identity"` // phone number or email address
	Channel   string     `json:"channel" dynamodbav:"channel"`
	Code      string     `json:"-" dynamodbav:"code"`
	Purpose   string     `json:"purpose" dynamodbav:"purpose"`
	Attempts  int        `json:"attempts" dynamodbav:"attempts"`
	Used      bool       `json:"used" dynamodbav:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty" dynamodbav:"used_at"`
	ExpiresAt int64      `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, doubles as DynamoDB TTL
	IPAddress string     `json:"-" dynamodbav:"ip_address"`
	UserAgent string     `json:"-" dynamodbav:"user_agent"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
}
