// File: internal/repository/document/document_repository.go
package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

func (r *gormDocumentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := r.validateDocumentInput(doc); err != nil {
		log.Printf("[DocumentRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if doc.ProcessingStatus == "" {
		doc.ProcessingStatus = domain.StatusPending
	}

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[DocumentRepository] Database error creating document for user %d: %v", doc.UserID, err)
		return nil, errors.New("database error creating document")
	}

	log.Printf("[DocumentRepository] Document created with ID: %d for user: %d", doc.ID, doc.UserID)
	return doc, nil
}

func (r *gormDocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == 0 {
		return errors.New("invalid document ID")
	}
	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		log.Printf("[DocumentRepository] Database error updating document %d: %v", doc.ID, err)
		return errors.New("database error updating document")
	}
	return nil
}

// FindByIDAndUser hides documents owned by someone else behind ErrDocumentNotFound.
func (r *gormDocumentRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*domain.Document, error) {
	if id == 0 || userID == 0 {
		return nil, ErrDocumentNotFound
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	log.Printf("[DocumentRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}

func (r *gormDocumentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&docs).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error listing documents for user %d: %v", userID, err)
		return nil, errors.New("database query failed")
	}
	return docs, nil
}

func (r *gormDocumentRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Document{})
	if res.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting document %d: %v", id, res.Error)
		return errors.New("database error deleting document")
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// MarkStaleProcessingFailed fails documents that have been processing since before olderThan.
func (r *gormDocumentRepository) MarkStaleProcessingFailed(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("processing_status = ? AND updated_at < ?", domain.StatusProcessing, olderThan).
		Updates(map[string]interface{}{
			"processing_status": domain.StatusFailed,
			"processing_error":  "processing timed out",
		})
	if res.Error != nil {
		log.Printf("[DocumentRepository] Database error failing stale documents: %v", res.Error)
		return 0, errors.New("database error updating documents")
	}
	return res.RowsAffected, nil
}

func (r *gormDocumentRepository) validateDocumentInput(doc *domain.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if doc.UserID == 0 {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(doc.Filename) == "" || strings.TrimSpace(doc.OriginalFilename) == "" {
		return errors.New("filename is required")
	}
	if doc.FileSize < 0 {
		return errors.New("file size cannot be negative")
	}
	return nil
}
