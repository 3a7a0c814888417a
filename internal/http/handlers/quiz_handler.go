// Quiz HTTP handlers.
//
// This file exposes REST endpoints for quiz generation and grading:
//   - POST /quiz/generate (per-page quizzes from an accessible PDF)
//   - POST /quiz/submit   (grade answers, persist the attempt)
//   - GET  /quiz/history  (recent attempts with document names)
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/services"
	"github.com/beyondchart/go-study-backend/internal/utils"
)

// QuizService defines quiz operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type QuizService interface {
	// Generate builds per-page quizzes for an accessible document.
	Generate(ctx context.Context, userID, pdfID string, count int) ([]services.PageQuiz, error)
	// Submit grades answers against the echoed questions and records the attempt.
	Submit(ctx context.Context, userID string, pdfID *string, questions []services.SubmittedQuestion, answers map[string]any) (*services.SubmitResult, error)
	// History returns up to limit of the caller's most recent attempts.
	History(ctx context.Context, userID string, limit int) ([]services.Attempt, error)
}

//
// DTOs
//

// GenerateQuizRequest is the JSON payload for quiz generation.
type GenerateQuizRequest struct {
	PdfID string `json:"pdfId" binding:"required" format:"uuid"`
	// Count is the desired number of questions per page group; clamped server-side.
	Count int `json:"count" example:"10"`
}

// GenerateQuizResponse groups generated quizzes by source page.
type GenerateQuizResponse struct {
	PdfID string              `json:"pdfId"`
	Pages []services.PageQuiz `json:"pages"`
}

// SubmitQuizRequest is the JSON payload for grading a quiz.
//
// Questions echoes the generated questions (id, type, correct answer index);
// Answers maps question id to the learner's chosen option.
type SubmitQuizRequest struct {
	PdfID     *string                      `json:"pdfId,omitempty" format:"uuid"`
	Questions []services.SubmittedQuestion `json:"questions" binding:"required"`
	Answers   map[string]any               `json:"answers"`
}

// QuizHistoryResponse lists recent graded attempts.
type QuizHistoryResponse struct {
	Attempts []services.Attempt `json:"attempts"`
}

//
// Handlers
//

// GenerateQuiz godoc
// @ID          generateQuiz
// @Summary     Generate a quiz
// @Description Samples indexed chunks from the PDF and generates one quiz per
// @Description source page (up to three pages, richest text first).
// @Tags        Quizzes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.GenerateQuizRequest  true  "Generation options"
//
// @Success     200  {object}  handlers.GenerateQuizResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing pdfId"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Access denied"
// @Failure     404  {object}  handlers.ErrorResponse  "PDF not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /quiz/generate [post]
func (h *Handlers) GenerateQuiz(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pdfId is required")
		return
	}

	pages, err := h.quizSvc.Generate(c.Request.Context(), userID(c), req.PdfID, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPdfNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "PDF not found")
		case errors.Is(err, services.ErrPdfForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Access denied")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, "server error")
		}
		return
	}

	ok(c, http.StatusOK, GenerateQuizResponse{PdfID: req.PdfID, Pages: pages})
}

// SubmitQuiz godoc
// @ID          submitQuiz
// @Summary     Submit quiz answers
// @Description Grades multiple-choice answers, persists the attempt, and
// @Description returns the score with an encouragement message.
// @Tags        Quizzes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.SubmitQuizRequest  true  "Questions and answers"
//
// @Success     200  {object}  services.SubmitResult
// @Failure     400  {object}  handlers.ErrorResponse  "No questions submitted"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /quiz/submit [post]
func (h *Handlers) SubmitQuiz(c *gin.Context) {
	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "questions are required")
		return
	}

	res, err := h.quizSvc.Submit(c.Request.Context(), userID(c), req.PdfID, req.Questions, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoQuestions):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "questions are required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		}
		return
	}

	ok(c, http.StatusOK, res)
}

// QuizHistory godoc
// @ID          quizHistory
// @Summary     List recent attempts
// @Description Returns the caller's most recent graded attempts, newest first.
// @Tags        Quizzes
// @Produce     json
// @Security    BearerAuth
//
// @Param       limit  query  int  false  "Attempts to return"  minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  handlers.QuizHistoryResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /quiz/history [get]
func (h *Handlers) QuizHistory(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	attempts, err := h.quizSvc.History(c.Request.Context(), userID(c), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "server error")
		return
	}
	ok(c, http.StatusOK, QuizHistoryResponse{Attempts: attempts})
}
