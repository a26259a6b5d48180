package timex

import (
	"sync"
	"time"
)

// Clock is the time source used by bounded busy-waits.
type Clock interface {
	Now() time.Time
}

// System is the wall/monotonic clock of the running program.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fake is a deterministic clock. Every Now call advances it by Step, so a
// busy-wait against it terminates after timeout/Step polls.
type Fake struct {
	mu   sync.Mutex
	t    time.Time
	Step time.Duration
}

// NewFake returns a fake clock starting at the Unix epoch.
func NewFake(step time.Duration) *Fake {
	return &Fake{t: time.Unix(0, 0), Step: step}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.t
	f.t = f.t.Add(f.Step)
	return now
}

// Advance moves the clock forward without a poll.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// WaitFor busy-polls ready until it returns true or timeout elapses on clk.
// It reports whether ready was observed. ready is always polled at least once
// and once more after the deadline passes.
func WaitFor(clk Clock, timeout time.Duration, ready func() bool) bool {
	deadline := clk.Now().Add(timeout)
	for {
		if ready() {
			return true
		}
		if clk.Now().After(deadline) {
			return ready()
		}
	}
}
