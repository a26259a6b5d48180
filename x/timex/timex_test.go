package timex

import (
	"testing"
	"time"
)

func TestWaitForTimesOutOnFakeClock(t *testing.T) {
	clk := NewFake(time.Millisecond)
	polls := 0
	ok := WaitFor(clk, 10*time.Millisecond, func() bool { polls++; return false })
	if ok {
		t.Fatal("expected timeout")
	}
	if polls < 10 || polls > 13 {
		t.Fatalf("unexpected poll count %d", polls)
	}
}

func TestWaitForSeesReady(t *testing.T) {
	clk := NewFake(time.Millisecond)
	n := 0
	if !WaitFor(clk, time.Second, func() bool { n++; return n == 3 }) {
		t.Fatal("expected ready")
	}
	if n != 3 {
		t.Fatalf("polled %d times, want 3", n)
	}
}

func TestAdvanceDoesNotPoll(t *testing.T) {
	clk := NewFake(time.Millisecond)
	clk.Advance(5 * time.Millisecond)
	if got := clk.Now(); !got.Equal(time.Unix(0, 0).Add(5 * time.Millisecond)) {
		t.Fatalf("Now after Advance = %v", got)
	}
}

func TestTimerDividers(t *testing.T) {
	// 200 MHz timer clock, 100 ms period.
	psc, arr, err := TimerDividers(200_000_000, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("TimerDividers: %v", err)
	}
	got := uint64(psc+1) * uint64(arr+1)
	if got != 20_000_000 {
		t.Fatalf("ticks = %d, want 20000000 (psc=%d arr=%d)", got, psc, arr)
	}
	if _, _, err := TimerDividers(0, time.Second); err != ErrPeriodRange {
		t.Fatalf("want ErrPeriodRange, got %v", err)
	}
	if _, _, err := TimerDividers(1000, time.Microsecond); err != ErrPeriodRange {
		t.Fatalf("want ErrPeriodRange for sub-tick period, got %v", err)
	}
}
