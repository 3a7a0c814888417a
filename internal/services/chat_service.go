// Package services – ChatService
//
// This file implements the chat lifecycle and the retrieval-augmented
// answer pipeline: load the owned chat, retrieve relevant chunks from the
// embedder, generate an answer from the model, and persist the
// user/assistant message pair with citations atomically. The chat title is
// derived from the first question when that pair is the first exchange.
//
// Observability: public methods are OpenTelemetry-instrumented; spans
// carry chat and user identifiers.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/embedder"
	"github.com/beyondchart/go-study-backend/internal/repo"
)

const (
	defaultChatTitle = "New Chat"

	// titleMaxRunes caps the derived chat title before the ellipsis.
	titleMaxRunes = 50

	// citationSnippetLen caps stored citation snippets.
	citationSnippetLen = 200
)

// Retriever is the chunk retrieval contract required by ChatService. It is
// satisfied by the embedder client.
type Retriever interface {
	Query(ctx context.Context, question string, pdfIDs []string, topK int) ([]embedder.Chunk, error)
}

// ChatService owns chats and the answer pipeline.
type ChatService struct {
	DB        *gorm.DB
	Retriever Retriever
	Generator ai.Generator

	// TopK is the number of chunks requested per question.
	TopK int
}

// AnswerResult is the outcome of one question/answer exchange.
type AnswerResult struct {
	Answer    string
	Citations []domain.Citation
	Chat      *domain.Chat
	// AssistantMessageID identifies the persisted assistant message, used
	// for idempotency records.
	AssistantMessageID string
}

// Create inserts a new empty chat. A blank title falls back to the
// default placeholder.
func (s *ChatService) Create(ctx context.Context, userID, title string, pdfID *string) (*domain.Chat, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}
	return repo.CreateChat(ctx, s.DB, userID, title, pdfID)
}

// List returns the caller's chats newest-activity first, without messages.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return repo.ListChats(ctx, s.DB, userID)
}

// Get returns one owned chat with its messages and citations.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("chat.id", chatID)),
	)
	defer span.End()

	chat, err := repo.GetChatWithMessages(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

// Delete removes an owned chat and its messages. Deleting a chat that does
// not exist is not an error.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("chat.id", chatID)),
	)
	defer span.End()

	return repo.DeleteChat(ctx, s.DB, chatID, userID)
}

// Answer runs the full exchange: retrieval, generation, and atomic
// persistence of the user and assistant messages. On generation failure
// nothing is persisted, so a retry re-runs the whole exchange.
func (s *ChatService) Answer(ctx context.Context, userID, chatID, question string) (*AnswerResult, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	chunks := s.retrieve(ctx, chat, userID, question)
	span.SetAttributes(attribute.Int("retrieval.chunks", len(chunks)))

	answer, err := ai.GenerateAnswer(ctx, s.Generator, question, buildPromptContext(chunks))
	if err != nil {
		return nil, err
	}

	citations := buildCitations(chunks)

	var assistantMsg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateMessage(tx, chatID, domain.RoleUser, question, nil); err != nil {
			return err
		}
		m, err := repo.CreateMessage(tx, chatID, domain.RoleAssistant, answer, citations)
		if err != nil {
			return err
		}
		assistantMsg = m

		n, err := repo.CountMessages(tx, chatID)
		if err != nil {
			return err
		}
		if n == 2 {
			title := deriveTitle(question)
			if err := tx.Model(&domain.Chat{}).Where("id = ?", chatID).
				Update("title", title).Error; err != nil {
				return err
			}
			chat.Title = title
		}
		return repo.TouchChat(tx, chatID)
	})
	if err != nil {
		return nil, err
	}

	// Reload with the full message history for the response payload.
	full, err := repo.GetChatWithMessages(ctx, s.DB, chatID, userID)
	if err != nil {
		full = chat
	}

	return &AnswerResult{
		Answer:             answer,
		Citations:          assistantMsg.Citations,
		Chat:               full,
		AssistantMessageID: assistantMsg.ID,
	}, nil
}

// retrieve queries the embedder over the chat's candidate document set. A
// retrieval failure degrades to an empty context rather than failing the
// exchange.
func (s *ChatService) retrieve(ctx context.Context, chat *domain.Chat, userID, question string) []embedder.Chunk {
	var pdfIDs []string
	if chat.PdfID != nil && *chat.PdfID != "" {
		pdfIDs = []string{*chat.PdfID}
	} else {
		ids, err := repo.ListAccessiblePdfIDs(ctx, s.DB, userID)
		if err != nil {
			log.Warn().Err(err).Str("chat.id", chat.ID).Msg("candidate pdf lookup failed")
			return nil
		}
		pdfIDs = ids
	}

	topK := s.TopK
	if topK <= 0 {
		topK = 4
	}
	chunks, err := s.Retriever.Query(ctx, question, pdfIDs, topK)
	if err != nil {
		log.Warn().Err(err).Str("chat.id", chat.ID).Msg("retrieval failed, answering without context")
		return nil
	}
	return chunks
}

func buildPromptContext(chunks []embedder.Chunk) string {
	rc := make([]ai.RetrievedChunk, 0, len(chunks))
	for _, c := range chunks {
		rc = append(rc, ai.RetrievedChunk{Page: c.Metadata.Page, Text: c.Text})
	}
	return ai.BuildContext(rc)
}

func buildCitations(chunks []embedder.Chunk) []domain.Citation {
	citations := make([]domain.Citation, 0, len(chunks))
	for _, c := range chunks {
		citations = append(citations, domain.Citation{
			Page:    c.Metadata.Page,
			Snippet: clipRunes(c.Text, citationSnippetLen),
		})
	}
	return citations
}

// deriveTitle derives a chat title from the first question: the first 50
// runes, with an ellipsis only when something was cut.
func deriveTitle(question string) string {
	if utf8.RuneCountInString(question) <= titleMaxRunes {
		return question
	}
	return string([]rune(question)[:titleMaxRunes]) + "..."
}

func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
