package connection

import (
	"context"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// ConnectionRepository handles lawyer–client connection records.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.LawyerConnection) (*domain.LawyerConnection, error)
	FindByID(ctx context.Context, id uint) (*domain.LawyerConnection, error)
	FindBetween(ctx context.Context, clientID, lawyerID uint) (*domain.LawyerConnection, error)
	ListForLawyer(ctx context.Context, lawyerID uint) ([]domain.LawyerConnection, error)
	ListForClient(ctx context.Context, clientID uint) ([]domain.LawyerConnection, error)
	Answer(ctx context.Context, id, lawyerID uint, status domain.ConnectionStatus) error
	CountForLawyer(ctx context.Context, lawyerID uint, status domain.ConnectionStatus) (int64, error)
	RecentForLawyer(ctx context.Context, lawyerID uint, limit int) ([]domain.LawyerConnection, error)
	AcceptedCounts(ctx context.Context, lawyerIDs []uint) (map[uint]int64, error)
}
