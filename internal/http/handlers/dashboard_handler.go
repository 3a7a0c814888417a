// Dashboard HTTP handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/services"
)

// DashboardService computes learner statistics consumed by HTTP handlers.
type DashboardService interface {
	// Summarize aggregates quiz and chat activity into a dashboard payload.
	Summarize(ctx context.Context, userID string) (*services.Summary, error)
}

// Dashboard godoc
// @ID          dashboard
// @Summary     Learner dashboard
// @Description Aggregates quiz scores and chat activity into overall score,
// @Description recent scores, grade, strengths, and weaknesses.
// @Tags        Dashboard
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.Summary
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	summary, err := h.dashSvc.Summarize(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		return
	}
	ok(c, http.StatusOK, summary)
}
