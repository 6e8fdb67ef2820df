// Package cooldown tracks per-command, per-user invocation cooldowns. State
// is in-memory only and resets on restart; that is accepted behavior, not a
// bug. Each Tracker instance owns its own maps so tests can construct
// isolated trackers.
package cooldown

import (
	"context"
	"log"
	"sync"
	"time"
)

// Default is applied when a command does not declare its own cooldown.
const Default = 3 * time.Second

type Tracker struct {
	mu      sync.Mutex
	entries map[string]map[string]time.Time // command -> userID -> expiry
	now     func() time.Time
}

func New() *Tracker {
	return &Tracker{
		entries: make(map[string]map[string]time.Time),
		now:     time.Now,
	}
}

// CheckAndStart reports whether the user may run the command now. When
// allowed, the cooldown window is started immediately; when denied, retryAt
// is the stored expiry. Entries found expired are removed on lookup.
func (t *Tracker) CheckAndStart(command, userID string, d time.Duration) (bool, time.Time) {
	if d <= 0 {
		d = Default
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	users := t.entries[command]
	if users == nil {
		users = make(map[string]time.Time)
		t.entries[command] = users
	}

	if expiry, ok := users[userID]; ok {
		if now.Before(expiry) {
			return false, expiry
		}
		delete(users, userID)
	}

	users[userID] = now.Add(d)
	return true, time.Time{}
}

// Sweep removes every expired entry. Lazy removal in CheckAndStart keeps the
// tracker correct on its own; the sweeper only bounds memory for users who
// never return.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for command, users := range t.entries {
		for userID, expiry := range users {
			if !now.Before(expiry) {
				delete(users, userID)
				removed++
			}
		}
		if len(users) == 0 {
			delete(t.entries, command)
		}
	}
	return removed
}

// RunSweeper clears expired entries every minute until ctx is done. Call
// from main in a goroutine.
func RunSweeper(ctx context.Context, t *Tracker) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Sweep(); n > 0 {
				log.Printf("[INFO] Cooldown sweeper removed %d expired entries", n)
			}
		}
	}
}
