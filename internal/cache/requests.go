package cache

import "sync"

// RequestTracker assigns each computation for a key a monotonically
// increasing id. A result is applied only while its id is still the latest
// issued for that key, so a slow early response can never overwrite a faster
// later one.
type RequestTracker struct {
	mu      sync.Mutex
	counter uint64
	latest  map[string]uint64
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{latest: make(map[string]uint64)}
}

// Begin registers a new in-flight computation for key and returns its id.
func (t *RequestTracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter++
	t.latest[key] = t.counter
	return t.counter
}

// IsLatest reports whether id is still the newest computation for key.
func (t *RequestTracker) IsLatest(key string, id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[key] == id
}
