// Video recommendation HTTP handler.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/services"
)

// VideoService suggests study videos for a document.
type VideoService interface {
	// Recommend returns videos for an accessible document plus its display name.
	Recommend(ctx context.Context, userID, pdfID string) ([]ai.Video, string, error)
}

// RecommendVideosRequest is the JSON payload for video recommendations.
type RecommendVideosRequest struct {
	PdfID string `json:"pdfId" binding:"required" format:"uuid"`
}

// RecommendVideosResponse lists suggested study videos and the document
// they were derived from.
type RecommendVideosResponse struct {
	Videos  []ai.Video `json:"videos"`
	BasedOn string     `json:"basedOn"`
}

// RecommendVideos godoc
// @ID          recommendVideos
// @Summary     Recommend study videos
// @Description Suggests video searches tailored to the document's topic. Falls
// @Description back to a generic study list when generation is unavailable.
// @Tags        Videos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.RecommendVideosRequest  true  "Document reference"
//
// @Success     200  {object}  handlers.RecommendVideosResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing pdfId"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Access denied"
// @Failure     404  {object}  handlers.ErrorResponse  "PDF not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /videos/recommend-videos [post]
func (h *Handlers) RecommendVideos(c *gin.Context) {
	var req RecommendVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pdfId is required")
		return
	}

	videos, basedOn, err := h.videoSvc.Recommend(c.Request.Context(), userID(c), req.PdfID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPdfNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "PDF not found")
		case errors.Is(err, services.ErrPdfForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Access denied")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		}
		return
	}

	ok(c, http.StatusOK, RecommendVideosResponse{Videos: videos, BasedOn: basedOn})
}
