// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Config sets a fixed window per identifier plus a ban once it is exceeded.
type Config struct {
	WindowSize    time.Duration
	MaxAttempts   int
	CleanupPeriod time.Duration
	BanDuration   time.Duration
}

// DefaultAuthConfig is used for login and registration.
func DefaultAuthConfig() Config {
	return Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// StrictAuthConfig is used for password reset.
func StrictAuthConfig() Config {
	return Config{
		WindowSize:    10 * time.Minute,
		MaxAttempts:   5,
		CleanupPeriod: 20 * time.Minute,
		BanDuration:   60 * time.Minute,
	}
}

// Info describes the state of an identifier after a call to Allow.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

type record struct {
	count     int
	firstSeen time.Time
	bannedAt  time.Time
}

func (r *record) banned(now time.Time, ban time.Duration) bool {
	return !r.bannedAt.IsZero() && now.Sub(r.bannedAt) < ban
}

// MemoryRateLimiter keeps counters in process memory.
type MemoryRateLimiter struct {
	cfg     Config
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

func NewMemoryRateLimiter(cfg Config) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		cfg:     cfg,
		records: make(map[string]*record),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Allow counts one attempt for id and reports whether it may proceed.
func (rl *MemoryRateLimiter) Allow(id string) (bool, Info) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rec, ok := rl.records[id]
	if ok && rec.banned(now, rl.cfg.BanDuration) {
		until := rec.bannedAt.Add(rl.cfg.BanDuration)
		return false, Info{Limit: rl.cfg.MaxAttempts, ResetTime: until, RetryAfter: until.Sub(now), Banned: true}
	}
	if !ok || now.Sub(rec.firstSeen) > rl.cfg.WindowSize || !rec.bannedAt.IsZero() {
		rec = &record{firstSeen: now}
		rl.records[id] = rec
	}

	rec.count++
	if rec.count > rl.cfg.MaxAttempts {
		rec.bannedAt = now
		return false, Info{
			Limit:      rl.cfg.MaxAttempts,
			ResetTime:  now.Add(rl.cfg.BanDuration),
			RetryAfter: rl.cfg.BanDuration,
			Banned:     true,
		}
	}
	return true, Info{
		Allowed:   true,
		Limit:     rl.cfg.MaxAttempts,
		Remaining: rl.cfg.MaxAttempts - rec.count,
		ResetTime: rec.firstSeen.Add(rl.cfg.WindowSize),
	}
}

// RecordSuccess forgets id's attempts.
func (rl *MemoryRateLimiter) RecordSuccess(id string) {
	rl.mu.Lock()
	delete(rl.records, id)
	rl.mu.Unlock()
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, rec := range rl.records {
		if rec.banned(now, rl.cfg.BanDuration) {
			continue
		}
		if !rec.bannedAt.IsZero() || now.Sub(rec.firstSeen) > rl.cfg.WindowSize {
			delete(rl.records, id)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (rl *MemoryRateLimiter) Close() {
	rl.once.Do(func() { close(rl.stopCh) })
}
