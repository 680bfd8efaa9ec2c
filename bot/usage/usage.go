// Package usage counts distinct users seen since process start.
package usage

import "sync"

// Counter tracks unique user IDs. It never forgets a user and resets only
// when the process restarts.
type Counter struct {
	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewCounter() *Counter {
	return &Counter{seen: make(map[int64]struct{})}
}

// Touch records a user interaction. Repeated calls for the same ID are no-ops.
func (c *Counter) Touch(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[userID] = struct{}{}
}

// Count returns the number of distinct users recorded so far.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
