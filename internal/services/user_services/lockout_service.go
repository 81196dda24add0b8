package user_services

import (
	"strings"
	"sync"
	"time"
)

const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

type lockoutEntry struct {
	failedAttempts int
	lastFailedAt   time.Time
	lockedUntil    time.Time
}

// LockoutService counts failed logins per email and locks the address out
// after MaxFailedAttempts. State is in memory.
type LockoutService struct {
	mu          sync.Mutex
	entries     map[string]*lockoutEntry
	maxAttempts int
	duration    time.Duration
	now         func() time.Time
	logger      Logger
}

func NewLockoutService(logger Logger) *LockoutService {
	return &LockoutService{
		entries:     make(map[string]*lockoutEntry),
		maxAttempts: MaxFailedAttempts,
		duration:    LockoutDuration,
		now:         time.Now,
		logger:      logger,
	}
}

// RecordFailedAttempt records a failed login and reports whether the address
// is now locked.
func (s *LockoutService) RecordFailedAttempt(email, sourceIP string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || s.expired(entry, now) {
		entry = &lockoutEntry{}
		s.entries[key] = entry
	}
	entry.failedAttempts++
	entry.lastFailedAt = now

	s.logger.Warn("failed login attempt recorded",
		"email", maskEmail(key),
		"attempts", entry.failedAttempts,
		"max_attempts", s.maxAttempts,
		"source_ip", sourceIP)

	if entry.failedAttempts >= s.maxAttempts {
		entry.lockedUntil = now.Add(s.duration)
		s.logger.Error("account locked due to excessive failed attempts",
			"email", maskEmail(key),
			"locked_until", entry.lockedUntil.Format(time.RFC3339),
			"source_ip", sourceIP)
		return true
	}
	return false
}

// ClearFailedAttempts forgets failures after a successful login.
func (s *LockoutService) ClearFailedAttempts(email string) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		s.logger.Info("failed login attempts cleared", "email", maskEmail(key), "previous_attempts", entry.failedAttempts)
		delete(s.entries, key)
	}
}

// IsAccountLocked reports whether email is locked and for how much longer.
func (s *LockoutService) IsAccountLocked(email string) (bool, time.Duration) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false, 0
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.entries, key)
		return false, 0
	}
	if now.Before(entry.lockedUntil) {
		return true, entry.lockedUntil.Sub(now)
	}
	return false, 0
}

// expired: a lock has run out, or failures are older than one lockout window.
func (s *LockoutService) expired(e *lockoutEntry, now time.Time) bool {
	if !e.lockedUntil.IsZero() {
		return !now.Before(e.lockedUntil)
	}
	return now.Sub(e.lastFailedAt) > s.duration
}
