package user

import (
	"context"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// LawyerFilter narrows a lawyer directory search.
type LawyerFilter struct {
	Specialization string
	Location       string
	Page           int
	PerPage        int
}

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SearchLawyers(ctx context.Context, filter LawyerFilter) ([]domain.User, int64, error)
	ListLawyers(ctx context.Context, page, perPage int) ([]domain.User, int64, error)
}
