package user_services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iyunix/go-kanoon/internal/services"
)

func TestLockoutLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewLockoutService(services.NoOpLogger{})
	svc.now = func() time.Time { return now }

	for i := 1; i < MaxFailedAttempts; i++ {
		assert.False(t, svc.RecordFailedAttempt("Asha@example.in", "1.2.3.4"))
	}
	assert.True(t, svc.RecordFailedAttempt("asha@example.in", "1.2.3.4"))

	locked, remaining := svc.IsAccountLocked("asha@example.in")
	assert.True(t, locked)
	assert.Equal(t, LockoutDuration, remaining)

	now = now.Add(LockoutDuration)
	locked, _ = svc.IsAccountLocked("asha@example.in")
	assert.False(t, locked)
}

func TestLockoutClearedOnSuccess(t *testing.T) {
	svc := NewLockoutService(services.NoOpLogger{})
	svc.RecordFailedAttempt("asha@example.in", "")
	svc.RecordFailedAttempt("asha@example.in", "")
	svc.ClearFailedAttempts("asha@example.in")

	for i := 1; i < MaxFailedAttempts; i++ {
		assert.False(t, svc.RecordFailedAttempt("asha@example.in", ""))
	}
}

func TestLockoutOldFailuresExpire(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewLockoutService(services.NoOpLogger{})
	svc.now = func() time.Time { return now }

	for i := 1; i < MaxFailedAttempts; i++ {
		svc.RecordFailedAttempt("asha@example.in", "")
	}
	now = now.Add(LockoutDuration + time.Minute)
	assert.False(t, svc.RecordFailedAttempt("asha@example.in", ""))
}
