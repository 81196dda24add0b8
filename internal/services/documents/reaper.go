// File: internal/services/documents/reaper.go
package documents

import (
	"context"
	"time"

	docrepo "github.com/iyunix/go-kanoon/internal/repository/document"
)

// Reaper fails documents left in processing, e.g. after a crash mid-upload.
type Reaper struct {
	repo   docrepo.DocumentRepository
	logger Logger
}

func NewReaper(repo docrepo.DocumentRepository, logger Logger) *Reaper {
	return &Reaper{repo: repo, logger: logger}
}

// MarkStale fails documents that have been processing for longer than olderThan.
func (r *Reaper) MarkStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := r.repo.MarkStaleProcessingFailed(ctx, time.Now().Add(-olderThan))
	if err != nil {
		r.logger.Error("failed to reap stale documents", "error", err)
		return 0, err
	}
	if n > 0 {
		r.logger.Warn("stale documents marked failed", "count", n)
	}
	return n, nil
}
