// Package services – VideoService
//
// Recommends study videos for an accessible document. The model proposes
// search queries from the document's title and page count; failures
// degrade to a canned query list, so this endpoint never surfaces a
// generation error.
package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/beyondchart/go-study-backend/internal/ai"
)

// VideoService owns video recommendations.
type VideoService struct {
	Generator ai.Generator
	Pdfs      *PdfService
}

// Recommend returns suggested videos for the document plus the document
// name they were based on. Access rules match document fetch.
func (s *VideoService) Recommend(ctx context.Context, userID, pdfID string) ([]ai.Video, string, error) {
	tr := otel.Tracer("services/VideoService")
	ctx, span := tr.Start(ctx, "Recommend",
		trace.WithAttributes(attribute.String("pdf.id", pdfID)),
	)
	defer span.End()

	pdf, err := s.Pdfs.Get(ctx, userID, pdfID)
	if err != nil {
		return nil, "", err
	}

	docContext := fmt.Sprintf("PDF Title: %s\nPages: %d", pdf.OriginalName, pdf.Pages)
	videos := ai.RecommendVideos(ctx, s.Generator, docContext)
	return videos, pdf.OriginalName, nil
}
