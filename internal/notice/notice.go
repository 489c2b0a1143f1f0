package notice

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Board holds the single transient status message the UI surfaces after
// actions ("video added", import results). Messages expire after a TTL and
// are cleared by a background sweep.
type Board struct {
	mu        sync.Mutex
	message   string
	expiresAt time.Time
	ttl       time.Duration
}

// NewBoard creates a board whose messages live for ttl
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Board{ttl: ttl}
}

// Set replaces the current message and restarts its expiry
func (b *Board) Set(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = message
	b.expiresAt = time.Now().Add(b.ttl)
}

// Get returns the current message, or empty once it has expired
func (b *Board) Get() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.message != "" && time.Now().After(b.expiresAt) {
		b.message = ""
	}
	return b.message
}

// Start begins the expiry sweep in a goroutine
func (b *Board) Start(ctx context.Context) {
	go b.run(ctx)
}

func (b *Board) run(ctx context.Context) {
	slog.Debug("notice sweep started", "ttl", b.ttl)

	ticker := time.NewTicker(b.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("notice sweep stopped")
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *Board) sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.message != "" && time.Now().After(b.expiresAt) {
		b.message = ""
	}
}
