// Package sim models the board's peripherals on the host. Every model
// appends to a shared Trace so tests can check ordering across blocks.
package sim

import (
	"strings"
	"sync"

	"seed-go/x/conv"
)

type Trace struct {
	mu  sync.Mutex
	ops []string
}

func (t *Trace) add(op string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.ops = append(t.ops, op)
	t.mu.Unlock()
}

// Ops returns a copy of the recorded operations.
func (t *Trace) Ops() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.ops...)
}

// Index returns the position of the first op with the given prefix, or -1.
func (t *Trace) Index(prefix string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, op := range t.ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}

func (t *Trace) Reset() {
	t.mu.Lock()
	t.ops = nil
	t.mu.Unlock()
}

func hex(v uint32) string {
	var b [10]byte
	return string(conv.AppendHex32(append(b[:0], "0x"...), v))
}

func dec(v uint32) string {
	var b [10]byte
	return string(conv.AppendUint(b[:0], uint64(v)))
}
