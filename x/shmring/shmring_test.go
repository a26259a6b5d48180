package shmring

import (
	"bytes"
	"runtime"
	"testing"
	"time"
)

func TestRecordsSurviveWrap(t *testing.T) {
	r := New(64)
	var got []byte
	var want []byte
	buf := make([]byte, 13)
	for i := 0; i < 300; i++ {
		rec := bytes.Repeat([]byte{byte(i)}, 1+i%9)
		if !r.Put(rec) {
			t.Fatalf("record %d refused with %d buffered", i, r.Len())
		}
		want = append(want, rec...)
		n := r.Read(buf)
		got = append(got, buf[:n]...)
	}
	for r.Len() > 0 {
		n := r.Read(buf)
		got = append(got, buf[:n]...)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("stream mismatch: %d bytes read, %d written", len(got), len(want))
	}
	if r.Dropped() != 0 {
		t.Fatalf("dropped %d", r.Dropped())
	}
}

func TestPutIsAllOrNothing(t *testing.T) {
	r := New(8)
	if !r.Put([]byte("abcde")) {
		t.Fatal("first record refused")
	}
	if r.Put([]byte("fghi")) {
		t.Fatal("record larger than free space accepted")
	}
	if r.Len() != 5 || r.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", r.Len(), r.Dropped())
	}
	if !r.Put([]byte("xyz")) {
		t.Fatal("exact fit refused")
	}
	out := make([]byte, 8)
	if n := r.Read(out); string(out[:n]) != "abcdexyz" {
		t.Fatalf("read %q", out[:n])
	}
}

func TestReadableEdge(t *testing.T) {
	r := New(8)
	select {
	case <-r.Readable():
		t.Fatal("readable on empty ring")
	default:
	}
	r.Put([]byte{1})
	r.Put([]byte{2})
	select {
	case <-r.Readable():
	default:
		t.Fatal("no readable after first put")
	}
	select {
	case <-r.Readable():
		t.Fatal("second put signalled again")
	default:
	}
}

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(48)
}

func TestConcurrentDrainerNeverStalls(t *testing.T) {
	const (
		trials  = 500
		records = 50
		recLen  = 16
	)
	rec := bytes.Repeat([]byte{0xA5}, recLen)
	for trial := 0; trial < trials; trial++ {
		r := New(1024)
		done := make(chan int)
		go func() {
			buf := make([]byte, 64)
			got := 0
			for got < records*recLen {
				select {
				case <-r.Readable():
				case <-time.After(2 * time.Second):
					done <- got
					return
				}
				for n := r.Read(buf); n > 0; n = r.Read(buf) {
					got += n
				}
			}
			done <- got
		}()
		for i := 0; i < records; i++ {
			if !r.Put(rec) {
				t.Fatalf("trial %d: record %d refused", trial, i)
			}
			if i%7 == 0 {
				runtime.Gosched()
			}
		}
		if got := <-done; got != records*recLen {
			t.Fatalf("trial %d: drained %d of %d bytes, %d left in ring", trial, got, records*recLen, r.Len())
		}
	}
}
