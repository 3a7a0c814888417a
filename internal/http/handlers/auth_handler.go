// Auth HTTP handlers.
//
// This file exposes the public account endpoints:
//   - POST /auth/register (create account, returns token)
//   - POST /auth/login    (verify credentials, returns token)
//
// Both endpoints are unauthenticated and return the same response shape so
// clients can treat registration as an implicit login.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/services"
)

// AuthService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates an account and returns the user plus a signed token.
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	// Login verifies credentials and returns the user plus a signed token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Maria Student"`
	Email    string `json:"email" binding:"required" example:"maria@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// LoginRequest is the JSON payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"maria@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// UserPayload is the public projection of an account, stripped of
// credential material.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	User  UserPayload `json:"user"`
	Token string      `json:"token"`
}

func authPayload(u *domain.User, token string) AuthResponse {
	return AuthResponse{
		User:  UserPayload{ID: u.ID, Name: u.Name, Email: u.Email},
		Token: token,
	}
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user and returns a signed bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Account details"
//
// @Success     200  {object}  handlers.AuthResponse   "Account created"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields or email exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing fields")
		return
	}

	u, token, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing fields")
		case errors.Is(err, services.ErrEmailExists):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email exists")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		}
		return
	}

	ok(c, http.StatusOK, authPayload(u, token))
}

// Login godoc
// @ID          login
// @Summary     Sign in
// @Description Verifies credentials and returns a signed bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.AuthResponse   "Signed in"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid credentials")
		return
	}

	u, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid credentials")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		}
		return
	}

	ok(c, http.StatusOK, authPayload(u, token))
}
