// Package auth proxies sign-up and sign-in to the external identity
// provider and keeps the user-profile store in step on sign-up.
package auth

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
)

const (
	SignUpMessage = "Sign up successful, please verify your email"
	SignInMessage = "Sign in successful"
)

type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error)
}

type ProfileStore interface {
	InsertProfile(ctx context.Context, p domain.Profile) error
}

type Auditor interface {
	LogAuth(ctx context.Context, action, userID, email string) error
}

type Service struct {
	provider IdentityProvider
	profiles ProfileStore
	audit    Auditor
	logger   observability.Logger
}

func NewService(provider IdentityProvider, profiles ProfileStore, audit Auditor, logger observability.Logger) *Service {
	return &Service{provider: provider, profiles: profiles, audit: audit, logger: logger}
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignUpResult struct {
	Message string           `json:"message"`
	User    *domain.Identity `json:"user"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResult struct {
	Message string              `json:"message"`
	User    domain.User         `json:"user"`
	Session *domain.AuthSession `json:"session"`
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		s.attempt("sign_up", "missing_fields")
		return nil, ErrMissingFields
	}

	identity, err := s.provider.SignUp(ctx, in.Email, in.Password, map[string]any{
		"name": in.Name,
		"role": domain.RoleCustomer,
	})
	if err != nil {
		s.attempt("sign_up", "provider_error")
		return nil, errors.Mark(err, ErrProvider)
	}

	profile := domain.Profile{ID: identity.ID, Email: in.Email, Name: in.Name, Role: domain.RoleCustomer}
	if err := s.profiles.InsertProfile(ctx, profile); err != nil {
		// The provider account already exists and is left in place.
		s.logger.WithError(err).WithField("user_id", identity.ID).Error("profile insert failed after provider sign-up")
		s.record(ctx, "auth.sign_up.profile_failed", identity.ID, in.Email)
		s.attempt("sign_up", "profile_error")
		return nil, errors.Mark(err, ErrProfileWrite)
	}

	s.record(ctx, "auth.sign_up", identity.ID, in.Email)
	s.attempt("sign_up", "ok")
	return &SignUpResult{Message: SignUpMessage, User: identity}, nil
}

func (s *Service) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	if in.Email == "" || in.Password == "" {
		s.attempt("sign_in", "missing_fields")
		return nil, ErrMissingFields
	}

	session, err := s.provider.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil || session == nil || session.User == nil {
		if err != nil {
			s.logger.WithError(err).Debug("provider rejected sign-in")
		}
		s.attempt("sign_in", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	s.record(ctx, "auth.sign_in", session.User.ID, in.Email)
	s.attempt("sign_in", "ok")
	return &SignInResult{
		Message: SignInMessage,
		User:    ReduceUser(*session.User),
		Session: session,
	}, nil
}

// ReduceUser maps a provider identity to the public user shape. Name comes
// from user_metadata.name when it is a string; role from
// user_metadata.role when it is a non-empty string, else "customer".
func ReduceUser(id domain.Identity) domain.User {
	u := domain.User{ID: id.ID, Email: id.Email, Role: domain.RoleCustomer}
	if name, ok := id.UserMetadata["name"].(string); ok {
		u.Name = name
	}
	if role, ok := id.UserMetadata["role"].(string); ok && role != "" {
		u.Role = role
	}
	return u
}

func (s *Service) attempt(op, outcome string) {
	observability.AuthAttempts.WithLabelValues(op, outcome).Inc()
}

func (s *Service) record(ctx context.Context, action, userID, email string) {
	if err := s.audit.LogAuth(ctx, action, userID, email); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("audit auth event")
	}
}
