// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for QuizAttempt.
// Attempts are write-once: there is deliberately no update or delete here.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/domain"
)

// CreateQuizAttempt inserts an immutable attempt row. The score must already
// be derived by the service layer; it is never taken from the client.
func CreateQuizAttempt(ctx context.Context, db *gorm.DB, userID string, pdfID *string, answers datatypes.JSONMap, score int) (*domain.QuizAttempt, error) {
	a := &domain.QuizAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		PdfID:     pdfID,
		Answers:   answers,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// ListQuizAttempts returns the most recent attempts for userID, newest
// first, capped at limit (<=0 means no cap).
func ListQuizAttempts(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.QuizAttempt, error) {
	var out []domain.QuizAttempt
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListQuizScores returns every score for userID in chronological order
// (oldest first). The dashboard derives averages and the recent-score strip
// from this slice.
func ListQuizScores(ctx context.Context, db *gorm.DB, userID string) ([]int, error) {
	var scores []int
	err := db.WithContext(ctx).
		Model(&domain.QuizAttempt{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("score", &scores).Error
	return scores, err
}
