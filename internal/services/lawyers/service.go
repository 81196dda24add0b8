// File: internal/services/lawyers/service.go
package lawyers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iyunix/go-kanoon/internal/catalog"
	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/dtos"
	connrepo "github.com/iyunix/go-kanoon/internal/repository/connection"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
)

const (
	DefaultPerPage   = 10
	MaxPerPage       = 50
	DirectoryPerPage = 12
	FeaturedCount    = 6
	RecentCount      = 5
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// SearchFilter is the directory query. Zero Page and PerPage take defaults.
type SearchFilter struct {
	Specialization string
	Location       string
	Page           int
	PerPage        int
}

type SearchResult struct {
	Lawyers    []dtos.LawyerDTO `json:"lawyers"`
	Pagination dtos.Pagination  `json:"pagination"`
}

type Profile struct {
	Lawyer           dtos.LawyerDTO `json:"lawyer"`
	ConnectionStatus string         `json:"connection_status"`
}

type Stats struct {
	TotalConnections    int64                `json:"total_connections"`
	PendingRequests     int64                `json:"pending_requests"`
	AcceptedConnections int64                `json:"accepted_connections"`
	RecentConnections   []dtos.ConnectionDTO `json:"recent_connections"`
}

// Service runs the lawyer directory and client connection requests.
type Service struct {
	users   userrepo.UserRepository
	conns   connrepo.ConnectionRepository
	catalog *catalog.Catalog
	logger  Logger
}

func NewService(users userrepo.UserRepository, conns connrepo.ConnectionRepository, cat *catalog.Catalog, logger Logger) *Service {
	return &Service{users: users, conns: conns, catalog: cat, logger: logger}
}

func (s *Service) Search(ctx context.Context, filter SearchFilter) (*SearchResult, error) {
	page, perPage := clampPage(filter.Page, filter.PerPage, DefaultPerPage)
	lawyers, total, err := s.users.SearchLawyers(ctx, userrepo.LawyerFilter{
		Specialization: filter.Specialization,
		Location:       filter.Location,
		Page:           page,
		PerPage:        perPage,
	})
	if err != nil {
		s.logger.Error("lawyer search failed", "error", err)
		return nil, err
	}
	return &SearchResult{
		Lawyers:    dtos.ToLawyerSlice(lawyers),
		Pagination: dtos.NewPagination(page, perPage, total),
	}, nil
}

// Profile returns a lawyer's public profile and the viewer's request status,
// empty when the viewer has not asked to connect.
func (s *Service) Profile(ctx context.Context, viewerID, lawyerID uint) (*Profile, error) {
	lawyer, err := s.findLawyer(ctx, lawyerID)
	if err != nil {
		return nil, err
	}

	out := &Profile{Lawyer: dtos.ToLawyer(*lawyer)}
	if viewerID != lawyerID {
		conn, err := s.conns.FindBetween(ctx, viewerID, lawyerID)
		switch {
		case err == nil:
			out.ConnectionStatus = string(conn.ConnectionStatus)
		case !errors.Is(err, connrepo.ErrConnectionNotFound):
			return nil, err
		}
	}
	return out, nil
}

// Connect files a pending request from client to lawyer.
func (s *Service) Connect(ctx context.Context, clientID, lawyerID uint, caseDescription string) (*domain.LawyerConnection, error) {
	if clientID == lawyerID {
		return nil, ErrSelfConnection
	}
	lawyer, err := s.findLawyer(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	client, err := s.users.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	conn, err := s.conns.Create(ctx, &domain.LawyerConnection{
		ClientID:         clientID,
		LawyerID:         lawyerID,
		ConnectionStatus: domain.ConnectionPending,
		CaseDescription:  strings.TrimSpace(caseDescription),
		ClientName:       client.Name,
		LawyerName:       lawyer.Name,
	})
	if err != nil {
		if !errors.Is(err, ErrConnectionExists) {
			s.logger.Error("connection request failed", "client_id", clientID, "lawyer_id", lawyerID, "error", err)
		}
		return nil, err
	}
	s.logger.Info("connection request sent", "client_id", clientID, "lawyer_id", lawyerID)
	return conn, nil
}

// Connections lists requests the user received as a lawyer or sent as a client.
func (s *Service) Connections(ctx context.Context, userID uint) ([]domain.LawyerConnection, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsLawyer() {
		return s.conns.ListForLawyer(ctx, userID)
	}
	return s.conns.ListForClient(ctx, userID)
}

func (s *Service) Respond(ctx context.Context, lawyerID, connectionID uint, status string) (*domain.LawyerConnection, error) {
	next := domain.ConnectionStatus(strings.ToLower(strings.TrimSpace(status)))
	if !domain.IsResponseStatus(next) {
		return nil, ErrInvalidResponse
	}

	conn, err := s.conns.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.LawyerID != lawyerID {
		return nil, ErrConnectionNotFound
	}
	if conn.ConnectionStatus != domain.ConnectionPending {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyResponded, conn.ConnectionStatus)
	}

	if err := s.conns.Answer(ctx, connectionID, lawyerID, next); err != nil {
		return nil, err
	}
	conn.ConnectionStatus = next
	conn.UpdatedAt = time.Now()
	s.logger.Info("connection request answered", "connection_id", connectionID, "lawyer_id", lawyerID, "status", next)
	return conn, nil
}

func (s *Service) Stats(ctx context.Context, userID uint) (*Stats, error) {
	if err := s.requireLawyer(ctx, userID); err != nil {
		return nil, err
	}

	var stats Stats
	var err error
	if stats.TotalConnections, err = s.conns.CountForLawyer(ctx, userID, ""); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.conns.CountForLawyer(ctx, userID, domain.ConnectionPending); err != nil {
		return nil, err
	}
	if stats.AcceptedConnections, err = s.conns.CountForLawyer(ctx, userID, domain.ConnectionAccepted); err != nil {
		return nil, err
	}
	recent, err := s.conns.RecentForLawyer(ctx, userID, RecentCount)
	if err != nil {
		return nil, err
	}
	stats.RecentConnections = dtos.ToConnectionSlice(recent)
	return &stats, nil
}

// Featured returns a handful of active lawyers for the home page.
func (s *Service) Featured(ctx context.Context) ([]dtos.LawyerDTO, error) {
	lawyers, _, err := s.users.ListLawyers(ctx, 1, FeaturedCount)
	if err != nil {
		return nil, err
	}
	out, counts, err := s.withCounts(ctx, lawyers)
	if err != nil {
		return nil, err
	}
	for i := range out {
		n := counts[out[i].ID]
		out[i].ConnectionCount = &n
	}
	return out, nil
}

func (s *Service) Directory(ctx context.Context, page int) (*SearchResult, error) {
	page, perPage := clampPage(page, DirectoryPerPage, DirectoryPerPage)
	lawyers, total, err := s.users.ListLawyers(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	out, counts, err := s.withCounts(ctx, lawyers)
	if err != nil {
		return nil, err
	}
	for i := range out {
		n := counts[out[i].ID]
		out[i].TotalConnections = &n
	}
	return &SearchResult{Lawyers: out, Pagination: dtos.NewPagination(page, perPage, total)}, nil
}

// ExportConnectionsCSV writes the lawyer's connection requests to w.
func (s *Service) ExportConnectionsCSV(ctx context.Context, lawyerID uint, w io.Writer) error {
	if err := s.requireLawyer(ctx, lawyerID); err != nil {
		return err
	}
	conns, err := s.conns.ListForLawyer(ctx, lawyerID)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write([]string{"ID", "Client Name", "Status", "Case Description", "Requested At"}); err != nil {
		return err
	}
	for _, c := range conns {
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.ClientName,
			string(c.ConnectionStatus),
			c.CaseDescription,
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	s.logger.Info("connections exported", "lawyer_id", lawyerID, "count", len(conns))
	return nil
}

func (s *Service) Specializations() []catalog.Specialization {
	return s.catalog.Specializations
}

func (s *Service) findLawyer(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, ErrLawyerNotFound
		}
		return nil, err
	}
	if !u.IsLawyer() || !u.IsActive {
		return nil, ErrLawyerNotFound
	}
	return u, nil
}

func (s *Service) requireLawyer(ctx context.Context, userID uint) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsLawyer() {
		return ErrNotLawyer
	}
	return nil
}

func (s *Service) withCounts(ctx context.Context, lawyers []domain.User) ([]dtos.LawyerDTO, map[uint]int64, error) {
	ids := make([]uint, len(lawyers))
	for i, l := range lawyers {
		ids[i] = l.ID
	}
	counts, err := s.conns.AcceptedCounts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return dtos.ToLawyerSlice(lawyers), counts, nil
}

func clampPage(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
