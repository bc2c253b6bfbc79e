package domain

import "time"

// MemberRole defines what a user may do inside their organization.
type MemberRole string

const (
	RoleOwner MemberRole = "owner"
	RoleAdmin MemberRole = "admin"
	RoleAgent MemberRole = "agent"
)

// Organization is the tenant boundary. Every ticket, comment, attachment
// and SLA record is partitioned by organization id.
type Organization struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is a member of an organization.
type User struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	PasswordHash   string
	Role           MemberRole
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
