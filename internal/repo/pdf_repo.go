// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Pdf model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/domain"
)

// CreatePdf inserts a new Pdf row. uploaderID may be nil for seeded defaults;
// isDefault and pages are recorded as given.
func CreatePdf(ctx context.Context, db *gorm.DB, filename, originalName, path string, uploaderID *string, pages int, isDefault bool) (*domain.Pdf, error) {
	p := &domain.Pdf{
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: originalName,
		Path:         path,
		UploaderID:   uploaderID,
		Pages:        pages,
		IsDefault:    isDefault,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPdf fetches a single PDF by ID, or ErrNotFound if missing. Access
// control (default-or-owner) is enforced by the service layer, not here.
func GetPdf(ctx context.Context, db *gorm.DB, id string) (*domain.Pdf, error) {
	var p domain.Pdf
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPdfByFilename fetches a PDF by stored filename, or ErrNotFound. Used by
// the seeder to skip documents that are already present.
func GetPdfByFilename(ctx context.Context, db *gorm.DB, filename string) (*domain.Pdf, error) {
	var p domain.Pdf
	if err := db.WithContext(ctx).Where("filename = ?", filename).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListDefaultPdfs returns all seeded default PDFs, newest first.
func ListDefaultPdfs(ctx context.Context, db *gorm.DB) ([]domain.Pdf, error) {
	var out []domain.Pdf
	err := db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListUserPdfs returns the PDFs uploaded by userID, newest first.
func ListUserPdfs(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pdf, error) {
	var out []domain.Pdf
	err := db.WithContext(ctx).
		Where("uploader_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListAccessiblePdfIDs returns the IDs of every PDF userID may query:
// the user's own uploads plus all defaults. Used to build the candidate
// document set for unbound chats.
func ListAccessiblePdfIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Pdf{}).
		Where("is_default = ? OR uploader_id = ?", true, userID).
		Pluck("id", &ids).Error
	return ids, err
}
