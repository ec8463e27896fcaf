package executor

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDGenerator issues "ORD-<digits>" identifiers. The suffix is the last
// six digits of the millisecond clock, bumped past the previous value so two
// orders in the same millisecond (or after the six digits wrap) never share
// an id within one process. Ids are not unique across restarts.
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDGenerator(now func() time.Time) *OrderIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderIDGenerator{now: now}
}

func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli() % 1_000_000
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return fmt.Sprintf("ORD-%06d", n)
}
