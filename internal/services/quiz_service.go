// Package services – QuizService
//
// This file implements quiz generation, submission scoring, and attempt
// history. Generation samples random chunks from the embedder, groups them
// by source page, and produces one quiz per page for the text-richest
// pages. Scoring is deterministic over multiple-choice answers only;
// written answers are stored but not graded.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/embedder"
	"github.com/beyondchart/go-study-backend/internal/repo"
)

const (
	// quizDefaultCount is the question count when the caller omits one.
	quizDefaultCount = 10
	// quizMaxCount caps the per-request question count.
	quizMaxCount = 20
	// quizSampleChunks is how many random chunks are drawn for grouping.
	quizSampleChunks = 10
	// quizHistoryDefault and quizHistoryMax bound the history page size.
	quizHistoryDefault = 10
	quizHistoryMax     = 50
	// quizMaxPages bounds the number of per-page quizzes generated.
	quizMaxPages = 3
)

// ChunkSampler is the random-chunk contract required for quiz generation.
// It is satisfied by the embedder client.
type ChunkSampler interface {
	RandomChunks(ctx context.Context, pdfID string, count int) ([]embedder.Chunk, error)
}

// QuizService owns quiz generation, scoring, and history.
type QuizService struct {
	DB        *gorm.DB
	Sampler   ChunkSampler
	Generator ai.Generator
	Pdfs      *PdfService
}

// PageQuiz is one generated quiz tied to a source page. Page zero means
// the source chunks carried no page metadata.
type PageQuiz struct {
	Page int           `json:"page"`
	Quiz []ai.Question `json:"quiz"`
}

// SubmitResult is the outcome of grading one submission.
type SubmitResult struct {
	Score   int    `json:"score"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Attempt is a history entry with the linked document's display name.
type Attempt struct {
	ID        string    `json:"id"`
	PdfName   string    `json:"pdfName,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmittedQuestion is the caller's echo of a generated question, graded
// against their answers on submission.
type SubmittedQuestion struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Answer int    `json:"answer"`
}

// Generate builds per-page quizzes for an accessible document. The count
// is clamped to [1, 20] and defaults to 10. When chunk sampling fails or
// the document has no indexed text, the demo question set is returned
// instead of an error; only access violations surface to the caller.
func (s *QuizService) Generate(ctx context.Context, userID, pdfID string, count int) ([]PageQuiz, error) {
	tr := otel.Tracer("services/QuizService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("pdf.id", pdfID),
			attribute.Int("quiz.count", count),
		),
	)
	defer span.End()

	if _, err := s.Pdfs.Get(ctx, userID, pdfID); err != nil {
		return nil, err
	}

	if count <= 0 {
		count = quizDefaultCount
	}
	if count > quizMaxCount {
		count = quizMaxCount
	}

	chunks, err := s.Sampler.RandomChunks(ctx, pdfID, quizSampleChunks)
	if err != nil {
		log.Warn().Err(err).Str("pdf_id", pdfID).
			Msg("chunk sampling failed, serving demo quiz")
		chunks = nil
	}

	pages := groupByPage(chunks)
	if len(pages) == 0 {
		// Sampling failed or the document has no indexed text. Serve the
		// demo set as a single page so the endpoint degrades instead of
		// erroring.
		span.SetAttributes(attribute.Bool("quiz.demo_fallback", true))
		return []PageQuiz{{Page: 1, Quiz: ai.DemoQuiz(count)}}, nil
	}

	quizzes := make([]PageQuiz, 0, len(pages))
	for _, p := range pages {
		questions, err := ai.GenerateQuiz(ctx, s.Generator, p.text, count)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, PageQuiz{Page: p.page, Quiz: questions})
	}
	span.SetAttributes(attribute.Int("quiz.pages", len(quizzes)))
	return quizzes, nil
}

// pageText is a page's concatenated chunk text while grouping.
type pageText struct {
	page int
	text string
}

// groupByPage concatenates chunk text per source page and returns the
// text-richest pages, at most quizMaxPages of them.
func groupByPage(chunks []embedder.Chunk) []pageText {
	byPage := map[int][]string{}
	for _, c := range chunks {
		page := 0
		if c.Metadata.Page != nil {
			page = *c.Metadata.Page
		}
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		byPage[page] = append(byPage[page], c.Text)
	}

	pages := make([]pageText, 0, len(byPage))
	for page, texts := range byPage {
		pages = append(pages, pageText{page: page, text: strings.Join(texts, "\n\n")})
	}
	sort.Slice(pages, func(i, j int) bool {
		if len(pages[i].text) != len(pages[j].text) {
			return len(pages[i].text) > len(pages[j].text)
		}
		return pages[i].page < pages[j].page
	})
	if len(pages) > quizMaxPages {
		pages = pages[:quizMaxPages]
	}
	return pages
}

// Submit grades a submission and records the attempt. Only MCQ items are
// graded: total is the MCQ count, correct counts exact index matches, and
// the score is the rounded percentage (zero when no MCQs were submitted).
func (s *QuizService) Submit(ctx context.Context, userID string, pdfID *string, questions []SubmittedQuestion, answers map[string]any) (*SubmitResult, error) {
	tr := otel.Tracer("services/QuizService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	total, correct := 0, 0
	for _, q := range questions {
		if q.Type != ai.TypeMCQ {
			continue
		}
		total++
		given, ok := answerIndex(answers[q.ID])
		if ok && given == q.Answer {
			correct++
		}
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}
	span.SetAttributes(attribute.Int("quiz.score", score))

	stored := datatypes.JSONMap{}
	for k, v := range answers {
		stored[k] = v
	}
	if _, err := repo.CreateQuizAttempt(ctx, s.DB, userID, pdfID, stored, score); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Score:   score,
		Correct: correct,
		Total:   total,
		Message: scoreMessage(score),
	}, nil
}

// answerIndex coerces a submitted answer to an option index. JSON numbers
// decode as float64; string digits are accepted for lenient clients.
func answerIndex(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var i int
		if _, err := fmt.Sscanf(n, "%d", &i); err == nil {
			return i, true
		}
	}
	return 0, false
}

func scoreMessage(score int) string {
	switch {
	case score >= 90:
		return "Excellent work!"
	case score >= 70:
		return "Good job, keep practicing!"
	case score >= 50:
		return "Not bad, review the weak spots."
	default:
		return "Keep studying, you'll get there!"
	}
}

// History returns the caller's most recent attempts, newest first, each
// resolved to its document's display name when still present. A non-positive
// limit falls back to ten; the cap is fifty.
func (s *QuizService) History(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	tr := otel.Tracer("services/QuizService")
	ctx, span := tr.Start(ctx, "History")
	defer span.End()

	if limit <= 0 {
		limit = quizHistoryDefault
	}
	if limit > quizHistoryMax {
		limit = quizHistoryMax
	}

	rows, err := repo.ListQuizAttempts(ctx, s.DB, userID, limit)
	if err != nil {
		return nil, err
	}

	attempts := make([]Attempt, 0, len(rows))
	for _, r := range rows {
		a := Attempt{ID: r.ID, Score: r.Score, CreatedAt: r.CreatedAt}
		if r.PdfID != nil {
			if pdf, err := repo.GetPdf(ctx, s.DB, *r.PdfID); err == nil {
				a.PdfName = pdf.OriginalName
			} else if !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
