// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a chat is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.ChatService) which enforces business rules and orchestrates
// the retrieval-augmented answer flow.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/domain"
)

// CreateChat inserts a new Chat row owned by userID with the given title and
// optional PDF binding. The chat ID is a randomly generated UUID (string),
// and CreatedAt/UpdatedAt are set to UTC.
func CreateChat(ctx context.Context, db *gorm.DB, userID, title string, pdfID *string) (*domain.Chat, error) {
	now := time.Now().UTC()
	c := &domain.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		PdfID:     pdfID,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChats returns all chats belonging to userID ordered by most recently
// updated first, without loading message bodies. It returns an empty slice
// if the user has no chats.
func ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// CountChats returns the total number of chats owned by userID.
func CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// GetChat fetches a single chat by its ID and owner (userID), without its
// transcript. If the record does not exist, it returns ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChatWithMessages fetches a chat with its full ordered transcript,
// including citations on assistant messages. Returns ErrNotFound when the
// chat does not exist or belongs to another user.
func GetChatWithMessages(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC").Preload("Citations")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateChatTitle updates the title of a chat identified by id and owned by
// userID. If no rows are affected (chat missing or not owned by userID),
// it returns ErrNotFound.
func UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchChat refreshes a chat's UpdatedAt so the history listing sorts
// recently active conversations first.
func TouchChat(db *gorm.DB, id string) error {
	return db.Model(&domain.Chat{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

// DeleteChat removes a chat owned by userID along with its messages.
// Deleting a chat that does not exist is not an error; the operation is
// ownership-scoped either way.
func DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Chat
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		// Citations cascade from messages; sqlite needs the explicit sweep
		// when foreign_keys pragma is off in tests.
		if err := tx.Where("message_id IN (?)",
			tx.Model(&domain.Message{}).Select("id").Where("chat_id = ?", id),
		).Delete(&domain.Citation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}
