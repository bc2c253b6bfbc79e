package dto

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/service"
)

// RegisterRequest creates an organization and its owner account.
type RegisterRequest struct {
	OrganizationName string `json:"organization_name"`
	OrganizationSlug string `json:"organization_slug"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Password         string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AuthResponse carries a signed token and its subject.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of a member.
type UserResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Role           domain.MemberRole `json:"role"`
}

func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
	}
}

func FromAuthResult(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      FromUser(res.User),
	}
}
