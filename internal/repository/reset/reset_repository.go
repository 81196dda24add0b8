// File: internal/repository/reset/reset_repository.go
package reset

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// ResetRepository stores password reset codes.
type ResetRepository interface {
	Create(ctx context.Context, code *domain.PasswordResetCode) error
	FindActiveByEmail(ctx context.Context, email string) (*domain.PasswordResetCode, error)
	Update(ctx context.Context, code *domain.PasswordResetCode) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// GormResetRepository implements ResetRepository using GORM
type GormResetRepository struct {
	db *gorm.DB
}

func NewGormResetRepository(db *gorm.DB) ResetRepository {
	return &GormResetRepository{db: db}
}

func (r *GormResetRepository) Create(ctx context.Context, code *domain.PasswordResetCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// FindActiveByEmail returns the newest unused code for email, or nil when none exists.
func (r *GormResetRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.PasswordResetCode, error) {
	var code domain.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_used = ?", email, false).
		Order("created_at DESC").
		Order("id DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *GormResetRepository) Update(ctx context.Context, code *domain.PasswordResetCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *GormResetRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&domain.PasswordResetCode{}).Error
}

// DeleteExpired removes codes past their expiry or already used.
func (r *GormResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR is_used = ?", time.Now(), true).
		Delete(&domain.PasswordResetCode{})
	return res.RowsAffected, res.Error
}
