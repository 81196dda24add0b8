package document

import (
	"context"
	"time"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// DocumentRepository handles uploaded document records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Document, error)
	Delete(ctx context.Context, id, userID uint) error
	MarkStaleProcessingFailed(ctx context.Context, olderThan time.Time) (int64, error)
}
