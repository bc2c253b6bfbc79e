package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aryaminakshi71/helpdesk/internal/auth"
	"github.com/aryaminakshi71/helpdesk/internal/config"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

// AuthService handles organization registration and member login.
type AuthService struct {
	cfg    config.Config
	users  repository.UserRepository
	orgs   repository.OrganizationRepository
	tokens *auth.TokenManager
}

// AuthDependencies bundles repositories for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	OrgRepo  repository.OrganizationRepository
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		cfg:    cfg,
		users:  deps.UserRepo,
		orgs:   deps.OrgRepo,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes organization sign-up.
type RegisterInput struct {
	OrganizationName string
	OrganizationSlug string
	Email            string
	Name             string
	Password         string
}

// AuthResult carries a signed token and its subject.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterOrganization creates a tenant with its owner account.
func (s *AuthService) RegisterOrganization(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.OrganizationName)
	slug := strings.ToLower(strings.TrimSpace(input.OrganizationSlug))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || slug == "" {
		return nil, apperrors.NewValidationError("organization name and slug required", nil)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}

	if _, err := s.orgs.GetBySlug(ctx, slug); err == nil {
		return nil, apperrors.NewConflict("organization slug already taken", map[string]any{"slug": slug})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	org := &domain.Organization{Name: name, Slug: slug}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		OrganizationID: org.ID,
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		PasswordHash:   hash,
		Role:           domain.RoleOwner,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login authenticates a member by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issueToken(user)
}

// ChangePassword rotates the caller's password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return asNotFound(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}
	hash, err := auth.HashPassword(newPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.OrganizationID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
