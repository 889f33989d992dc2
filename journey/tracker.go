// api/journey/tracker.go
package journey

import "sync"

// Tracker hands out monotonically increasing generation numbers per scope
// key so that a newer query supersedes an older in-flight one. A slow
// response whose generation is no longer current must be discarded, never
// merged. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewTracker() *Tracker {
	return &Tracker{latest: make(map[string]uint64)}
}

// Begin registers a new query for the scope key and returns its generation.
// Any previously issued generation for the key becomes stale.
func (t *Tracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[key]++
	return t.latest[key]
}

// Current reports whether gen is still the latest generation for the key.
func (t *Tracker) Current(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[key] == gen
}
