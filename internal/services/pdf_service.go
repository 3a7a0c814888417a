// Package services – PdfService
//
// This file implements the document lifecycle: multipart upload to local
// storage, best-effort page counting, persistence, and the asynchronous
// embedder notification that triggers chunking and vector indexing. Reads
// enforce the access rule that a document is visible when it is a default
// document or owned by the requester.
package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/storage"
)

// EmbedNotifier triggers chunking and embedding of a stored document. It
// is satisfied by the embedder client.
type EmbedNotifier interface {
	ChunkAndEmbed(ctx context.Context, filePath, docID string, isDefault bool) error
}

// PdfService owns document upload and retrieval.
type PdfService struct {
	DB       *gorm.DB
	Store    *storage.FileStore
	Embedder EmbedNotifier

	// IngestTimeout bounds the background chunk_and_embed notification.
	IngestTimeout time.Duration
}

// Upload stores the file, counts its pages, persists the document record,
// and notifies the embedder in the background. A failed notification is
// logged and never fails the upload.
func (s *PdfService) Upload(ctx context.Context, userID, originalName, contentType string, r io.Reader) (*domain.Pdf, error) {
	tr := otel.Tracer("services/PdfService")
	ctx, span := tr.Start(ctx, "Upload",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if !isPDFUpload(originalName, contentType) {
		return nil, ErrNotPDF
	}

	filename, path, err := s.Store.Save(originalName, r)
	if err != nil {
		return nil, err
	}

	// Best effort: an unparseable PDF still uploads with zero pages.
	pages, err := storage.CountPDFPages(path)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("pdf page count failed")
		pages = 0
	}

	pdf, err := repo.CreatePdf(ctx, s.DB, filename, originalName, path, &userID, pages, false)
	if err != nil {
		s.Store.Remove(filename)
		return nil, err
	}
	span.SetAttributes(attribute.String("pdf.id", pdf.ID))

	s.notifyEmbedder(pdf.Path, pdf.ID, false)
	return pdf, nil
}

// notifyEmbedder posts chunk_and_embed in the background with its own
// timeout, detached from the request context.
func (s *PdfService) notifyEmbedder(path, docID string, isDefault bool) {
	timeout := s.IngestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Embedder.ChunkAndEmbed(ctx, path, docID, isDefault); err != nil {
			log.Warn().Err(err).Str("pdf.id", docID).Msg("embed trigger failed")
		}
	}()
}

// List returns the caller's accessible documents: defaults and their own
// uploads, newest first within each group.
func (s *PdfService) List(ctx context.Context, userID string) (defaults, own []domain.Pdf, err error) {
	tr := otel.Tracer("services/PdfService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	defaults, err = repo.ListDefaultPdfs(ctx, s.DB)
	if err != nil {
		return nil, nil, err
	}
	own, err = repo.ListUserPdfs(ctx, s.DB, userID)
	if err != nil {
		return nil, nil, err
	}
	return defaults, own, nil
}

// Get fetches one document, enforcing the default-or-owner access rule.
func (s *PdfService) Get(ctx context.Context, userID, pdfID string) (*domain.Pdf, error) {
	tr := otel.Tracer("services/PdfService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("pdf.id", pdfID)),
	)
	defer span.End()

	pdf, err := repo.GetPdf(ctx, s.DB, pdfID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPdfNotFound
		}
		return nil, err
	}
	if !canAccessPdf(pdf, userID) {
		return nil, ErrPdfForbidden
	}
	return pdf, nil
}

// canAccessPdf implements the visibility rule. A non-default document
// without an uploader is treated as inaccessible.
func canAccessPdf(pdf *domain.Pdf, userID string) bool {
	if pdf.IsDefault {
		return true
	}
	return pdf.UploaderID != nil && *pdf.UploaderID == userID
}

// isPDFUpload accepts only declared PDF parts. An octet-stream part still
// passes when the filename carries a .pdf extension, since some clients
// never set per-part content types.
func isPDFUpload(originalName, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "application/pdf") {
		return true
	}
	if ct == "" || ct == "application/octet-stream" {
		return strings.HasSuffix(strings.ToLower(originalName), ".pdf")
	}
	return false
}
