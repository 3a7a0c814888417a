package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beyondchart/go-study-backend/internal/domain"
)

func TestChatLifecycle(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	pdfID := "p1"
	c1, err := CreateChat(ctx, db, "u1", "First", nil)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	c2, err := CreateChat(ctx, db, "u1", "Second", &pdfID)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := CreateChat(ctx, db, "u2", "Other", nil); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	// Touch the first chat so it sorts ahead of the second.
	time.Sleep(5 * time.Millisecond)
	if err := TouchChat(db, c1.ID); err != nil {
		t.Fatalf("TouchChat: %v", err)
	}

	chats, err := ListChats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 2 || chats[0].ID != c1.ID {
		t.Fatalf("listing order: %+v", chats)
	}

	total, err := CountChats(ctx, db, "u1")
	if err != nil || total != 2 {
		t.Fatalf("CountChats = %d, %v", total, err)
	}

	// Ownership scoping.
	if _, err := GetChat(ctx, db, c2.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign GetChat = %v, want ErrNotFound", err)
	}
	got, err := GetChat(ctx, db, c2.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if got.PdfID == nil || *got.PdfID != pdfID {
		t.Fatalf("pinned pdf = %v", got.PdfID)
	}

	if err := UpdateChatTitle(ctx, db, c2.ID, "u2", "hijack"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign UpdateChatTitle = %v, want ErrNotFound", err)
	}
	if err := UpdateChatTitle(ctx, db, c2.ID, "u1", "Renamed"); err != nil {
		t.Fatalf("UpdateChatTitle: %v", err)
	}

	// Delete is idempotent and ownership-scoped.
	if err := DeleteChat(ctx, db, c1.ID, "u2"); err != nil {
		t.Fatalf("foreign DeleteChat: %v", err)
	}
	if n, _ := CountChats(ctx, db, "u1"); n != 2 {
		t.Fatalf("foreign delete removed a chat")
	}
	if err := DeleteChat(ctx, db, c1.ID, "u1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if err := DeleteChat(ctx, db, c1.ID, "u1"); err != nil {
		t.Fatalf("repeat DeleteChat: %v", err)
	}
	if n, _ := CountChats(ctx, db, "u1"); n != 1 {
		t.Fatalf("chats after delete = %d", n)
	}
}

func TestGetChatWithMessagesOrdersTranscript(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	c, err := CreateChat(ctx, db, "u1", "T", nil)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if _, err := CreateMessage(db, c.ID, "user", "first", nil); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	page := 4
	if _, err := CreateMessage(db, c.ID, "assistant", "second", []domain.Citation{{Page: &page, Snippet: "s"}}); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	got, err := GetChatWithMessages(ctx, db, c.ID, "u1")
	if err != nil {
		t.Fatalf("GetChatWithMessages: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[0].Content != "first" || got.Messages[1].Content != "second" {
		t.Fatalf("transcript: %+v", got.Messages)
	}
	if len(got.Messages[1].Citations) != 1 || *got.Messages[1].Citations[0].Page != 4 {
		t.Fatalf("citations: %+v", got.Messages[1].Citations)
	}

	// Chat deletion removes the transcript.
	if err := DeleteChat(ctx, db, c.ID, "u1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if n, _ := CountMessages(db, c.ID); n != 0 {
		t.Fatalf("messages after delete = %d", n)
	}
}
