package lawyers

import (
	"errors"

	connrepo "github.com/iyunix/go-kanoon/internal/repository/connection"
)

var (
	ErrLawyerNotFound     = errors.New("lawyer not found")
	ErrSelfConnection     = errors.New("cannot connect with yourself")
	ErrNotLawyer          = errors.New("access denied, lawyers only")
	ErrInvalidResponse    = errors.New(`response must be either "accepted" or "declined"`)
	ErrAlreadyResponded   = connrepo.ErrConnectionAnswered
	ErrConnectionExists   = connrepo.ErrConnectionExists
	ErrConnectionNotFound = connrepo.ErrConnectionNotFound
)
