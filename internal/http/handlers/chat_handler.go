// Chat HTTP handlers.
//
// This file exposes REST endpoints for chat resources:
//   - GET    /chat/history            (list the caller's chats)
//   - POST   /chat/new                (create, optionally pinned to a PDF)
//   - GET    /chat/{chatId}           (fetch with messages)
//   - POST   /chat/{chatId}/message   (ask a question, idempotency support)
//   - DELETE /chat/{chatId}           (delete with messages)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/http/middleware"
	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/services"
)

// ChatService defines chat lifecycle and question answering operations
// consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Create starts a new chat with an optional title and pinned document.
	Create(ctx context.Context, userID, title string, pdfID *string) (*domain.Chat, error)
	// List returns all chats for a user, most recently updated first.
	List(ctx context.Context, userID string) ([]domain.Chat, error)
	// Get returns a chat with its messages if it belongs to userID.
	Get(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	// Delete removes a chat and its messages.
	Delete(ctx context.Context, userID, chatID string) error
	// Answer appends a user question and an assistant reply atomically.
	Answer(ctx context.Context, userID, chatID, question string) (*services.AnswerResult, error)
}

// defaultIdempotencyTTL is the replay window used when no TTL is configured.
const defaultIdempotencyTTL = 24 * time.Hour

//
// DTOs
//

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// Title optionally sets the chat title; a default is used when empty.
	Title string `json:"title" example:"Laws of Motion revision"`
	// PdfID optionally pins the chat to one document for retrieval.
	PdfID *string `json:"pdfId,omitempty" format:"uuid"`
}

// PostMessageRequest is the JSON payload for asking a question.
type PostMessageRequest struct {
	Question string `json:"question" binding:"required" example:"What is Newton's first law?"`
}

// ChatResponse wraps a single chat.
type ChatResponse struct {
	Chat *domain.Chat `json:"chat"`
}

// ChatHistoryResponse lists the caller's chats.
type ChatHistoryResponse struct {
	Chats []domain.Chat `json:"chats"`
}

// MessageResponse is the answer payload, including the updated chat so
// clients can refresh their transcript in one round trip.
type MessageResponse struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
	Chat      *domain.Chat      `json:"chat"`
}

// DeleteChatResponse confirms a deletion.
type DeleteChatResponse struct {
	Message string `json:"message" example:"Chat deleted"`
}

//
// Handlers
//

// ChatHistory godoc
// @ID          chatHistory
// @Summary     List chats
// @Description Returns the caller's chats ordered by most recent activity.
// @Description Supports conditional requests via a weak ETag.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.ChatHistoryResponse
// @Success     304  "Not modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		if count, maxTS, err := repo.ChatsStats(ctx, h.db, uid); err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	chats, err := h.chatSvc.List(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "server error")
		return
	}
	ok(c, http.StatusOK, ChatHistoryResponse{Chats: chats})
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create a chat
// @Description Starts a new chat, optionally pinned to one PDF for retrieval.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateChatRequest  false  "Chat options"
//
// @Success     200  {object}  handlers.ChatResponse   "Created chat"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/new [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	// Body is optional; ignore bind errors from an empty body.
	_ = c.ShouldBindJSON(&req)

	chat, err := h.chatSvc.Create(c.Request.Context(), userID(c), req.Title, req.PdfID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "server error")
		return
	}
	ok(c, http.StatusOK, ChatResponse{Chat: chat})
}

// GetChat godoc
// @ID          getChat
// @Summary     Fetch a chat
// @Description Returns one chat with its full message transcript.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
//
// @Param       chatId  path  string  true  "Chat ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{chatId} [get]
func (h *Handlers) GetChat(c *gin.Context) {
	chat, err := h.chatSvc.Get(c.Request.Context(), userID(c), c.Param("chatId"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		}
		return
	}
	ok(c, http.StatusOK, ChatResponse{Chat: chat})
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Ask a question
// @Description Appends the question and a grounded assistant answer to the chat.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       chatId           path    string  true   "Chat ID (UUID)"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "Question payload"
//
// @Success     200  {object}  handlers.MessageResponse  "Grounded answer"
// @Failure     400  {object}  handlers.ErrorResponse    "Missing question"
// @Failure     401  {object}  handlers.ErrorResponse    "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse    "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse    "Answer generation failed"
// @Router      /chat/{chatId}/message [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("chatId")
	uid := userID(c)

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no question")
		return
	}

	// Idempotency (replay path): a previously recorded answer is returned
	// verbatim without invoking generation again.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if resp, okReplay := h.replayMessage(ctx, uid, chatID, idemKey); okReplay {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, resp)
			return
		}
	}

	res, err := h.chatSvc.Answer(ctx, uid, chatID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyQuestion):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no question")
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, "server error")
		}
		return
	}

	// Idempotency (store path): best effort, failures do not affect the reply.
	if idemKey != "" && h.db != nil {
		_, _ = repo.CreateIdempotency(ctx, h.db, uid, chatID, idemKey, res.AssistantMessageID, http.StatusOK, h.idemTTL)
	}

	ok(c, http.StatusOK, MessageResponse{
		Answer:    res.Answer,
		Citations: res.Citations,
		Chat:      res.Chat,
	})
}

// replayMessage resolves a stored idempotency record back into the original
// answer payload. It returns false when no live record exists, so the caller
// falls through to normal processing.
func (h *Handlers) replayMessage(ctx context.Context, uid, chatID, key string) (*MessageResponse, bool) {
	rec, err := repo.GetIdempotency(ctx, h.db, uid, chatID, key, time.Now().UTC())
	if err != nil || rec == nil {
		return nil, false
	}
	prev, err := repo.GetMessage(h.db, rec.MessageID)
	if err != nil {
		return nil, false
	}
	chat, err := h.chatSvc.Get(ctx, uid, chatID)
	if err != nil {
		return nil, false
	}
	return &MessageResponse{
		Answer:    prev.Content,
		Citations: prev.Citations,
		Chat:      chat,
	}, true
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete a chat
// @Description Removes a chat with its full transcript. Deleting an already
// @Description removed chat succeeds.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
//
// @Param       chatId  path  string  true  "Chat ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.DeleteChatResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{chatId} [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	if err := h.chatSvc.Delete(c.Request.Context(), userID(c), c.Param("chatId")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error")
		return
	}
	ok(c, http.StatusOK, DeleteChatResponse{Message: "Chat deleted"})
}
