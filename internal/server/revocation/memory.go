package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/weekend/internal/logging"
)

// DefaultSweepInterval is used by Run when given a non-positive interval.
const DefaultSweepInterval = 5 * time.Minute

// Memory is an in-process Registry. Its contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	logger  logging.Logger
	now     func() time.Time
}

func NewMemory(logger logging.Logger) *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		logger:  logger.With("module", "revocation"),
		now:     time.Now,
	}
}

func (m *Memory) Revoke(_ context.Context, key string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.entries[key]; !ok || expiresAt.After(prev) {
		m.entries[key] = expiresAt
	}
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[key]
	return ok, nil
}

// Len is the number of keys currently held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep drops the keys whose tokens expired before now and returns how many went.
// Such tokens are already refused by the expiry check.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, exp := range m.entries {
		if now.After(exp) {
			delete(m.entries, key)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		m.logger.Warn(ctx, "non-positive sweep interval, using default", "interval", interval.String(), "default", DefaultSweepInterval.String())
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Debug(ctx, "swept revoked keys", "count", n)
			}
		}
	}
}
