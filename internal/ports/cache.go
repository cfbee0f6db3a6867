package ports

import (
	"context"
	"time"
)

// ClickDedupStore remembers which visitor fingerprints recently clicked a
// link so reload spam does not inflate unique-visitor counts. Entries expire
// after the suppression window; the click repository remains the fallback
// when the store has no answer (cold cache, eviction).
type ClickDedupStore interface {
	// Recall returns the session ID recorded for the fingerprint, if any.
	Recall(ctx context.Context, linkID, fingerprint string) (string, bool, error)
	Remember(ctx context.Context, linkID, fingerprint, sessionID string, ttl time.Duration) error
}
