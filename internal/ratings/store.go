package ratings

import (
	"time"

	"github.com/maypok86/otter/v2"
)

// SessionStore keeps validated uploads in memory between the preview and
// apply steps. Sessions expire after a TTL so abandoned uploads do not
// accumulate.
type SessionStore struct {
	cache *otter.Cache[string, *Upload]
}

// NewSessionStore creates a store holding at most maxSessions uploads, each
// expiring ttl after it was stored.
func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = 100
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	cache := otter.Must(&otter.Options[string, *Upload]{
		MaximumSize:      maxSessions,
		ExpiryCalculator: otter.ExpiryWriting[string, *Upload](ttl),
	})
	return &SessionStore{cache: cache}
}

// Put stores a validated upload under its ID.
func (s *SessionStore) Put(upload *Upload) {
	s.cache.Set(upload.ID, upload)
}

// Get returns the upload for id, or ok=false when it is unknown or expired.
func (s *SessionStore) Get(id string) (*Upload, bool) {
	return s.cache.GetIfPresent(id)
}

// Delete removes the upload for id, if present.
func (s *SessionStore) Delete(id string) {
	s.cache.Invalidate(id)
}
