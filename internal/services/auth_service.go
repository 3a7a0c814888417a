// Package services – AuthService
//
// This file implements account registration and login. Passwords are
// stored as bcrypt hashes; sessions are stateless signed tokens whose
// subject is the user ID. Unknown emails and wrong passwords produce the
// same error so account existence cannot be probed through login.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/beyondchart/go-study-backend/internal/auth"
	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/repo"
)

// AuthService provides registration and login on top of the user
// repository and the token issuer.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Tokens signs session tokens for authenticated users.
	Tokens *auth.TokenIssuer
}

// Register creates an account and returns the user with a signed session
// token. All three fields are required; the email must be unused.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	n, err := repo.CountUsersByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, "", err
	}
	if n > 0 {
		return nil, "", ErrEmailExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u, err := repo.CreateUser(ctx, s.DB, name, email, hash)
	if err != nil {
		return nil, "", err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the user with a signed
// session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("user.email_domain", emailDomain(email))),
	)
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailDomain returns only the domain part for span attributes; the local
// part never reaches the trace backend.
func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}
