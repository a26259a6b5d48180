package timex

import (
	"errors"
	"time"
)

// ErrPeriodRange reports a timer period that cannot be produced by a
// 16-bit prescaler and 32-bit auto-reload pair.
var ErrPeriodRange = errors.New("timer period out of range")

// TimerDividers computes prescaler and auto-reload values for a general
// purpose timer clocked at clkHz so that it overflows every period.
// The returned values are register values (already minus one).
func TimerDividers(clkHz uint32, period time.Duration) (psc, arr uint32, err error) {
	if clkHz == 0 || period <= 0 {
		return 0, 0, ErrPeriodRange
	}
	ticks := uint64(clkHz) * uint64(period) / uint64(time.Second)
	if ticks == 0 {
		return 0, 0, ErrPeriodRange
	}
	div := ticks/(1<<32) + 1
	if div > 1<<16 {
		return 0, 0, ErrPeriodRange
	}
	reload := ticks / div
	if reload == 0 {
		return 0, 0, ErrPeriodRange
	}
	return uint32(div - 1), uint32(reload - 1), nil
}
