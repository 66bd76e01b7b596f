package kernel

import (
	"sync"
	"time"
)

// OrderClock hands out order creation times at the millisecond precision of
// OrderID. Every stamp is strictly later than the previous one, so two carts
// submitted in the same millisecond by one process get distinct IDs.
type OrderClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewOrderClock() *OrderClock {
	return &OrderClock{now: time.Now}
}

// Now returns the current time truncated to milliseconds, moved one
// millisecond past the previous stamp when the wall clock has not advanced.
func (c *OrderClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := c.now().UTC().Truncate(time.Millisecond)
	if !stamp.After(c.last) {
		stamp = c.last.Add(time.Millisecond)
	}
	c.last = stamp
	return stamp
}
