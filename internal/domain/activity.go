package domain

import "time"

// AdminActivity is an append-only audit entry for admin actions.
type AdminActivity struct {
	ActivityID   string            `json:"id" dynamodbav:"activity_id"`
	AdminID      string            `json:"admin_id" dynamodbav:"admin_id"`
	ActivityType string            `json:"activity_type" dynamodbav:"activity_type"`
	Description  string            `json:"description" dynamodbav:"description"`
	AffectedCar  string            `json:"affected_car,omitempty" dynamodbav:"affected_car"`
	Metadata     map[string]string `json:"metadata,omitempty" dynamodbav:"metadata"`
	IPAddress    string            `json:"ip_address,omitempty" dynamodbav:"ip_address"`
	UserAgent    string            `json:"user_agent,omitempty" dynamodbav:"user_agent"`
	CreatedAt    time.Time         `json:"created" dynamodbav:"created_at"`
}
