package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleDriver Role = "driver"
	RoleCenter Role = "center"
)

type AccountStatus string

const (
	StatusPendingOnboarding AccountStatus = "pending_onboarding"
	StatusPendingApproval   AccountStatus = "pending_approval"
	StatusActive            AccountStatus = "active"
	StatusRejected          AccountStatus = "rejected"
	StatusSuspended         AccountStatus = "suspended"
)

type Account struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	FullName     string        `json:"full_name"`
	Phone        *string       `json:"phone"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleDriver, RoleCenter:
		return true
	}
	// admins are seeded, never registered
	return false
}
