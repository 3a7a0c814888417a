// Handler wiring.
//
// This file declares the Handlers aggregate that groups every HTTP endpoint
// behind one constructor, plus small helpers shared across handler files.
// Handlers depend on abstract service interfaces (declared next to the
// endpoints that consume them) so transport concerns stay separate from
// business logic.
package handlers

import (
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP endpoints for auth, documents, chats, quizzes, the
// dashboard, and video recommendations.
//
// The DB handle is used only for idempotency bookkeeping on the message
// endpoint; when nil, idempotent replay is disabled and every request is
// processed normally. idemTTL bounds how long a recorded response can be
// replayed.
type Handlers struct {
	authSvc  AuthService
	pdfSvc   PdfService
	chatSvc  ChatService
	quizSvc  QuizService
	dashSvc  DashboardService
	videoSvc VideoService
	db       *gorm.DB
	idemTTL  time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// A non-positive idemTTL falls back to the 24h default.
func New(authSvc AuthService, pdfSvc PdfService, chatSvc ChatService, quizSvc QuizService, dashSvc DashboardService, videoSvc VideoService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = defaultIdempotencyTTL
	}
	return &Handlers{
		authSvc:  authSvc,
		pdfSvc:   pdfSvc,
		chatSvc:  chatSvc,
		quizSvc:  quizSvc,
		dashSvc:  dashSvc,
		videoSvc: videoSvc,
		db:       db,
		idemTTL:  idemTTL,
	}
}

// userID extracts the authenticated user id from Gin context (set by the
// upstream auth middleware). It returns "" when no user is attached, which
// only happens on routes registered outside the authenticated group.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
