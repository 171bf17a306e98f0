package domain

import "time"

type User struct {
	UserID      string     `json:"id" dynamodbav:"user_id"`
	Phone       string     `json:"phone_number,omitempty" dynamodbav:"phone"`
	Email       string     `json:"email,omitempty" dynamodbav:"email"`
	Name        string     `json:"name" dynamodbav:"name"`
	AvatarKey   string     `json:"avatar,omitempty" dynamodbav:"avatar_key"`
	City        string     `json:"city,omitempty" dynamodbav:"city"`
	State       string     `json:"state,omitempty" dynamodbav:"state"`
	IsVerified  bool       `json:"is_verified" dynamodbav:"is_verified"`
	IsSeller    bool       `json:"is_seller" dynamodbav:"is_seller"`
	EmailAlerts bool       `json:"email_notifications" dynamodbav:"email_notifications"`
	SMSAlerts   bool       `json:"sms_notifications" dynamodbav:"sms_notifications"`
	PushAlerts  bool       `json:"push_notifications" dynamodbav:"push_notifications"`
	Enable      int        `json:"enable" dynamodbav:"enable"`
	LastLoginIP string     `json:"-" dynamodbav:"last_login_ip"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// DisplayName prefers the profile name, falling back to the login identity.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Phone != "" {
		return u.Phone
	}
	return u.Email
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	IsSeller    *bool   `json:"is_seller"`
	EmailAlerts *bool   `json:"email_notifications"`
	SMSAlerts   *bool   `json:"sms_notifications"`
	PushAlerts  *bool   `json:"push_notifications"`
}
