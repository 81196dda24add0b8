// File: internal/repository/connection/connection_repository.go
package connection

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists")
	ErrConnectionAnswered = errors.New("connection request already answered")
)

type gormConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &gormConnectionRepository{db: db}
}

// Create stores a new pending request. A second request for the same pair fails with ErrConnectionExists.
func (r *gormConnectionRepository) Create(ctx context.Context, conn *domain.LawyerConnection) (*domain.LawyerConnection, error) {
	if conn == nil || conn.ClientID == 0 || conn.LawyerID == 0 {
		return nil, errors.New("validation failed: client and lawyer are required")
	}
	if conn.ClientID == conn.LawyerID {
		return nil, errors.New("validation failed: cannot connect to yourself")
	}

	existing, err := r.FindBetween(ctx, conn.ClientID, conn.LawyerID)
	if err != nil && !errors.Is(err, ErrConnectionNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConnectionExists
	}

	if conn.ConnectionStatus == "" {
		conn.ConnectionStatus = domain.ConnectionPending
	}
	if err := r.db.WithContext(ctx).Omit("Client", "Lawyer").Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConnectionExists
		}
		log.Printf("[ConnectionRepository] Database error creating connection %d->%d: %v", conn.ClientID, conn.LawyerID, err)
		return nil, errors.New("database error creating connection")
	}

	log.Printf("[ConnectionRepository] Connection %d created: client %d -> lawyer %d", conn.ID, conn.ClientID, conn.LawyerID)
	return conn, nil
}

func (r *gormConnectionRepository) FindByID(ctx context.Context, id uint) (*domain.LawyerConnection, error) {
	if id == 0 {
		return nil, ErrConnectionNotFound
	}
	var conn domain.LawyerConnection
	err := r.db.WithContext(ctx).First(&conn, id).Error
	return r.handleFindError(err, &conn)
}

func (r *gormConnectionRepository) FindBetween(ctx context.Context, clientID, lawyerID uint) (*domain.LawyerConnection, error) {
	var conn domain.LawyerConnection
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND lawyer_id = ?", clientID, lawyerID).
		First(&conn).Error
	return r.handleFindError(err, &conn)
}

func (r *gormConnectionRepository) ListForLawyer(ctx context.Context, lawyerID uint) ([]domain.LawyerConnection, error) {
	return r.list(ctx, "lawyer_id = ?", lawyerID, 0)
}

func (r *gormConnectionRepository) ListForClient(ctx context.Context, clientID uint) ([]domain.LawyerConnection, error) {
	return r.list(ctx, "client_id = ?", clientID, 0)
}

func (r *gormConnectionRepository) RecentForLawyer(ctx context.Context, lawyerID uint, limit int) ([]domain.LawyerConnection, error) {
	return r.list(ctx, "lawyer_id = ?", lawyerID, limit)
}

func (r *gormConnectionRepository) list(ctx context.Context, where string, id uint, limit int) ([]domain.LawyerConnection, error) {
	query := r.db.WithContext(ctx).Where(where, id).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var conns []domain.LawyerConnection
	if err := query.Find(&conns).Error; err != nil {
		log.Printf("[ConnectionRepository] Database error listing connections: %v", err)
		return nil, errors.New("database query failed")
	}
	return conns, nil
}

// Answer moves a pending request owned by lawyerID to status. Only one answer wins;
// later ones get ErrConnectionAnswered.
func (r *gormConnectionRepository) Answer(ctx context.Context, id, lawyerID uint, status domain.ConnectionStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.LawyerConnection{}).
		Where("id = ? AND lawyer_id = ? AND connection_status = ?", id, lawyerID, domain.ConnectionPending).
		Update("connection_status", status)
	if res.Error != nil {
		log.Printf("[ConnectionRepository] Database error updating connection %d: %v", id, res.Error)
		return errors.New("database error updating connection")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	conn, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if conn.LawyerID != lawyerID {
		return ErrConnectionNotFound
	}
	return ErrConnectionAnswered
}

// CountForLawyer counts connections for a lawyer; an empty status counts all of them.
func (r *gormConnectionRepository) CountForLawyer(ctx context.Context, lawyerID uint, status domain.ConnectionStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.LawyerConnection{}).Where("lawyer_id = ?", lawyerID)
	if status != "" {
		query = query.Where("connection_status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		log.Printf("[ConnectionRepository] Database error counting connections for lawyer %d: %v", lawyerID, err)
		return 0, errors.New("database query failed")
	}
	return count, nil
}

// AcceptedCounts returns accepted-connection totals keyed by lawyer ID.
func (r *gormConnectionRepository) AcceptedCounts(ctx context.Context, lawyerIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(lawyerIDs))
	if len(lawyerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		LawyerID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.LawyerConnection{}).
		Select("lawyer_id, COUNT(*) AS total").
		Where("lawyer_id IN ? AND connection_status = ?", lawyerIDs, domain.ConnectionAccepted).
		Group("lawyer_id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ConnectionRepository] Database error aggregating connections: %v", err)
		return nil, errors.New("database query failed")
	}
	for _, row := range rows {
		counts[row.LawyerID] = row.Total
	}
	return counts, nil
}

func (r *gormConnectionRepository) handleFindError(err error, conn *domain.LawyerConnection) (*domain.LawyerConnection, error) {
	if err == nil {
		return conn, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConnectionNotFound
	}
	log.Printf("[ConnectionRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}
