// Package shmring is a single-producer, single-consumer byte ring for
// records such as log lines. A record is stored whole or not at all, so
// the reader never sees a torn line. Put never blocks or allocates and
// may run in interrupt context.
package shmring

import "sync/atomic"

type Ring struct {
	buf  []byte
	mask uint32
	head atomic.Uint32 // next byte to read, free-running
	tail atomic.Uint32 // next byte to write, free-running

	dropped  atomic.Uint32 // records refused whole
	readable chan struct{}
}

// New allocates a ring of size bytes. size must be a power of two.
func New(size int) *Ring {
	if size < 2 || size&(size-1) != 0 {
		panic("shmring: size must be a power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

// Cap is the ring size in bytes.
func (r *Ring) Cap() int { return len(r.buf) }

// Len is the number of buffered bytes.
func (r *Ring) Len() int { return int(r.tail.Load() - r.head.Load()) }

// Put stores rec if it fits entirely and reports whether it did. A record
// that does not fit is counted in Dropped.
func (r *Ring) Put(rec []byte) bool {
	if len(rec) == 0 {
		return true
	}
	head, tail := r.head.Load(), r.tail.Load()
	used := tail - head
	if uint32(len(rec)) > uint32(len(r.buf))-used {
		r.dropped.Add(1)
		return false
	}
	at := tail & r.mask
	n := copy(r.buf[at:], rec)
	copy(r.buf, rec[n:])
	r.tail.Store(tail + uint32(len(rec)))

	// The reader may have caught up since head was loaded; decide on the
	// head it has published now, after the new tail is visible.
	if r.head.Load() == tail {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return true
}

// Read moves up to len(dst) buffered bytes into dst.
func (r *Ring) Read(dst []byte) int {
	head, tail := r.head.Load(), r.tail.Load()
	n := min(int(tail-head), len(dst))
	if n == 0 {
		return 0
	}
	at := head & r.mask
	m := copy(dst[:n], r.buf[at:])
	copy(dst[m:n], r.buf)
	r.head.Store(head + uint32(n))
	return n
}

// Dropped is the number of records refused since New.
func (r *Ring) Dropped() uint32 { return r.dropped.Load() }

// Readable receives a value when the ring goes from empty to non-empty.
func (r *Ring) Readable() <-chan struct{} { return r.readable }
