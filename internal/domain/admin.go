package domain

import "time"

// Admin roles. SuperAdmin implicitly holds every permission.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
)

// AdminUser lives in a separate identity space from marketplace users.
type AdminUser struct {
	AdminID      string     `json:"id" dynamodbav:"admin_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	Permissions  []string   `json:"permissions" dynamodbav:"permissions"`
	IsActive     bool       `json:"is_active" dynamodbav:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" dynamodbav:"last_login"`
	CreatedBy    string     `json:"created_by,omitempty" dynamodbav:"created_by"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

func (a *AdminUser) HasPermission(permission string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func ValidAdminRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleModerator:
		return true
	}
	return false
}
