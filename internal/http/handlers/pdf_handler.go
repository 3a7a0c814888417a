// Document HTTP handlers.
//
// This file exposes REST endpoints for PDF resources:
//   - POST /upload     (multipart upload, triggers background indexing)
//   - GET  /pdfs       (list default and own documents)
//   - GET  /pdfs/{id}  (fetch one accessible document)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/services"
)

// PdfService defines document operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PdfService interface {
	// Upload stores a PDF for userID and schedules background indexing.
	Upload(ctx context.Context, userID, originalName, contentType string, r io.Reader) (*domain.Pdf, error)
	// List returns the default catalog and the user's own uploads.
	List(ctx context.Context, userID string) (defaults, own []domain.Pdf, err error)
	// Get returns one document if it is a default or owned by userID.
	Get(ctx context.Context, userID, pdfID string) (*domain.Pdf, error)
}

//
// DTOs
//

// PdfResponse wraps a single document.
type PdfResponse struct {
	Pdf *domain.Pdf `json:"pdf"`
}

// ListPdfsResponse splits the catalog into default and user-owned parts.
// Pdfs carries the combined set for clients that do not distinguish.
type ListPdfsResponse struct {
	Pdfs        []domain.Pdf `json:"pdfs"`
	DefaultPdfs []domain.Pdf `json:"defaultPdfs"`
	UserPdfs    []domain.Pdf `json:"userPdfs"`
}

//
// Handlers
//

// Upload godoc
// @ID          uploadPdf
// @Summary     Upload a PDF
// @Description Stores the uploaded file and schedules it for background
// @Description indexing by the embedding service. Only PDF files are accepted.
// @Tags        Documents
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
//
// @Param       file  formData  file  true  "PDF file"
//
// @Success     200  {object}  handlers.PdfResponse    "Stored document"
// @Failure     400  {object}  handlers.ErrorResponse  "No file or not a PDF"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Upload failed"
// @Router      /upload [post]
func (h *Handlers) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "upload failed")
		return
	}
	defer f.Close()

	pdf, err := h.pdfSvc.Upload(c.Request.Context(), userID(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFile), errors.Is(err, services.ErrNotPDF):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "upload failed")
		}
		return
	}

	ok(c, http.StatusOK, PdfResponse{Pdf: pdf})
}

// ListPdfs godoc
// @ID          listPdfs
// @Summary     List accessible PDFs
// @Description Returns the default study catalog plus the caller's uploads.
// @Tags        Documents
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.ListPdfsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pdfs [get]
func (h *Handlers) ListPdfs(c *gin.Context) {
	defaults, own, err := h.pdfSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "server error")
		return
	}

	combined := make([]domain.Pdf, 0, len(defaults)+len(own))
	combined = append(combined, defaults...)
	combined = append(combined, own...)

	ok(c, http.StatusOK, ListPdfsResponse{
		Pdfs:        combined,
		DefaultPdfs: defaults,
		UserPdfs:    own,
	})
}

// GetPdf godoc
// @ID          getPdf
// @Summary     Fetch one PDF
// @Description Returns a document the caller may access (default or own upload).
// @Tags        Documents
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "PDF ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.PdfResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Access denied"
// @Failure     404  {object}  handlers.ErrorResponse  "PDF not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pdfs/{id} [get]
func (h *Handlers) GetPdf(c *gin.Context) {
	pdf, err := h.pdfSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
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

	ok(c, http.StatusOK, PdfResponse{Pdf: pdf})
}
