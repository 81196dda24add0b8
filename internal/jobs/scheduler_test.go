package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/services"
)

type fakeReaper struct {
	olderThan time.Duration
	calls     int
	err       error
}

func (f *fakeReaper) MarkStale(_ context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	return 1, f.err
}

type fakePurger struct{ calls int }

func (f *fakePurger) PurgeExpired(context.Context) (int64, error) {
	f.calls++
	return 0, nil
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s, err := NewScheduler(&fakeReaper{}, &fakePurger{}, services.NoOpLogger{})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	s.Stop()
}

func TestJobsCallThrough(t *testing.T) {
	reaper := &fakeReaper{err: errors.New("db down")}
	purger := &fakePurger{}
	s, err := NewScheduler(reaper, purger, services.NoOpLogger{})
	require.NoError(t, err)

	s.reapDocuments()
	s.purgeResetCodes()

	assert.Equal(t, 1, reaper.calls)
	assert.Equal(t, StaleAfter, reaper.olderThan)
	assert.Equal(t, 1, purger.calls)
}
