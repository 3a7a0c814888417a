// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model and its embedded citations.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/domain"
)

// CreateMessage inserts a new message row together with its citations (if
// any). Citations are only meaningful on assistant messages; callers pass
// nil for user messages.
func CreateMessage(db *gorm.DB, chatID, role, content string, citations []domain.Citation) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	for i := range citations {
		citations[i].ID = uuid.NewString()
		citations[i].MessageID = m.ID
	}
	if len(citations) > 0 {
		if err := db.Create(&citations).Error; err != nil {
			return nil, err
		}
		m.Citations = citations
	}
	return m, nil
}

// ListMessages returns messages ordered deterministically (CreatedAt ASC,
// ID ASC) with citations preloaded.
func ListMessages(db *gorm.DB, chatID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Preload("Citations")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error (as tests expect).
func CountMessages(db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&total).Error
	return total, err
}

// GetMessage fetches a message by ID with its citations.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Preload("Citations").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
