// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the shared response helpers. Every endpoint fails through
// fail(), which emits the error envelope below, and succeeds through ok().
// Keeping both in one place guarantees that clients always see the same
// shapes regardless of which handler produced the response.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "Chat not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by every endpoint. Code is a
// stable machine-readable string (constants in errors.go); Message is safe
// to show to users; RequestID echoes X-Request-ID for log correlation.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"Chat not found"`
}

// fail aborts the request with the JSON error envelope. Server-side errors
// (>=500) are additionally logged through the request-scoped logger so the
// envelope's request_id links the client report to the log line.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail exposes fail() to the router for NoRoute/NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
