// Package domain defines the persistence models for users, PDFs, chats,
// messages, citations, and quiz attempts. These types are mapped with GORM
// and form the core data layer of the study-assistant application.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents a registered account. Passwords are stored as bcrypt
// hashes; the raw value never leaves the auth service.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name.
//   - Email: login identifier; uniqueness enforced by DB index.
//   - PasswordHash: bcrypt hash, excluded from JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"  gorm:"type:varchar(128);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Pdf represents an uploaded or seeded study document. Default PDFs are
// deployment-seeded and readable by every user; uploaded PDFs belong to
// their uploader.
//
// Invariant: when IsDefault is false, UploaderID must be set. Access control
// requires IsDefault OR UploaderID == requester.
type Pdf struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Filename     string    `json:"filename"     gorm:"type:varchar(255);not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	Path         string    `json:"path"         gorm:"type:varchar(512);not null"`
	UploaderID   *string   `json:"uploaderId,omitempty" gorm:"type:char(36);index:idx_pdf_uploader"`
	Pages        int       `json:"pages"`
	IsDefault    bool      `json:"isDefault"    gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the database table name for Pdf.
func (Pdf) TableName() string { return "pdfs" }

// Chat represents a conversation owned by a user, optionally bound to a
// single PDF. Its title is auto-derived from the first question when the
// conversation gets its first exchange.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the chat owner; indexed for efficient retrieval.
//   - Title: human-readable chat title, defaults to "New Chat".
//   - PdfID: optional bound document; when nil, retrieval spans the owner's
//     PDFs plus all defaults.
//   - Messages: ordered transcript, loaded on demand.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Chat struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index:idx_user_chats"`
	Title     string    `json:"title"     gorm:"type:varchar(255);not null;default:'New Chat'"`
	PdfID     *string   `json:"pdfId,omitempty" gorm:"type:char(36);index"`
	Messages  []Message `json:"messages"  gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Message represents a single utterance within a chat, authored either by
// the "user" or the "assistant". Assistant messages may carry citations
// pointing at the retrieved source chunks; user messages never do.
// Messages are append-only and never individually mutated or deleted.
type Message struct {
	ID        string     `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string     `json:"chat_id"   gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string     `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string     `json:"content"   gorm:"type:text;not null"`
	Citations []Citation `json:"citations,omitempty" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"timestamp" gorm:"index:idx_chat_msgs,priority:2"`

	// Chat is the parent conversation. Messages are cascade-deleted
	// if their chat is removed.
	Chat *Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Citation links an assistant message to the retrieved chunk it was answered
// from: a page number (nil when the embedder reported none) and a snippet
// that is a prefix truncation (<= 200 chars) of the chunk text.
type Citation struct {
	ID        string  `json:"-"       gorm:"type:char(36);primaryKey"`
	MessageID string  `json:"-"       gorm:"type:char(36);not null;index"`
	Page      *int    `json:"page"`
	Snippet   string  `json:"snippet" gorm:"type:varchar(255);not null"`
}

// TableName returns the database table name for Citation.
func (Citation) TableName() string { return "citations" }

// QuizAttempt records one quiz submission. The score is derived server-side
// from the submitted answers and never accepted from the client. Attempts
// are immutable once created.
//
// Fields:
//   - Answers: raw map of question-id -> submitted value, stored as JSON.
//   - Score: integer percentage in [0,100].
//   - PdfID: optional source document.
type QuizAttempt struct {
	ID        string            `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string            `json:"user_id" gorm:"type:char(36);not null;index:idx_user_attempts"`
	PdfID     *string           `json:"pdfId,omitempty" gorm:"type:char(36);index"`
	Answers   datatypes.JSONMap `json:"answers" gorm:"type:json"`
	Score     int               `json:"score"   gorm:"not null;check:score BETWEEN 0 AND 100"`
	CreatedAt time.Time         `json:"createdAt" gorm:"index:idx_user_attempts,priority:2"`
}

// TableName returns the database table name for QuizAttempt.
func (QuizAttempt) TableName() string { return "quiz_attempts" }
