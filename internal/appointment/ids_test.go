package appointment

import (
	"strconv"
	"testing"
	"time"
)

func TestMillisIDsStrictlyIncrease(t *testing.T) {
	now := t0
	clock := ClockFunc(func() time.Time { return now })
	ids := NewMillisIDs(clock)

	first := ids.NextID()
	if first != strconv.FormatInt(t0.UnixMilli(), 10) {
		t.Fatalf("first id = %s", first)
	}

	prev, _ := strconv.ParseInt(first, 10, 64)
	// same millisecond, then a clock that steps backwards
	for i, step := range []time.Duration{0, 0, -time.Hour, 5 * time.Millisecond} {
		now = now.Add(step)
		n, err := strconv.ParseInt(ids.NextID(), 10, 64)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if n <= prev {
			t.Fatalf("step %d: id %d not above %d", i, n, prev)
		}
		prev = n
	}
}

func TestMillisIDsDefaultClock(t *testing.T) {
	ids := NewMillisIDs(nil)
	if _, err := strconv.ParseInt(ids.NextID(), 10, 64); err != nil {
		t.Fatalf("id not numeric: %v", err)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(t0); got != "Monday, 4 March 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
}
