package logx

import (
	"io"

	"seed-go/x/shmring"
)

// RingSink is an io.Writer that never blocks. Each Write is one line and
// goes into the ring whole; Drain copies lines out from the main loop.
// Lines that do not fit are dropped and counted.
type RingSink struct {
	r *shmring.Ring
}

// NewRingSink allocates a ring of size bytes (power of two).
func NewRingSink(size int) *RingSink {
	return &RingSink{r: shmring.New(size)}
}

func (s *RingSink) Write(p []byte) (int, error) {
	s.r.Put(p)
	return len(p), nil
}

// Drain copies everything buffered so far into w and returns the byte count.
func (s *RingSink) Drain(w io.Writer) int {
	var tmp [64]byte
	total := 0
	for {
		n := s.r.Read(tmp[:])
		if n == 0 {
			return total
		}
		_, _ = w.Write(tmp[:n])
		total += n
	}
}

// Dropped returns the number of lines lost to a full ring.
func (s *RingSink) Dropped() uint32 { return s.r.Dropped() }

// Readable fires when the ring goes from empty to non-empty.
func (s *RingSink) Readable() <-chan struct{} { return s.r.Readable() }
