package appointment

import (
	"strconv"
	"sync"
	"time"
)

// Clock supplies the current time. Tests pin it.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var SystemClock Clock = ClockFunc(time.Now)

// IDSource hands out record identifiers.
type IDSource interface {
	NextID() string
}

// MillisIDs issues decimal Unix-millisecond ids. Two calls in the same
// millisecond, or a clock that steps backwards, still get strictly
// increasing values.
type MillisIDs struct {
	clock Clock
	mu    sync.Mutex
	last  int64
}

func NewMillisIDs(clock Clock) *MillisIDs {
	if clock == nil {
		clock = SystemClock
	}
	return &MillisIDs{clock: clock}
}

func (m *MillisIDs) NextID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.clock.Now().UnixMilli()
	if n <= m.last {
		n = m.last + 1
	}
	m.last = n
	return strconv.FormatInt(n, 10)
}
