package wm8731

import (
	"errors"
	"testing"
)

type fakeI2C struct {
	addr   uint16
	writes [][]byte
	err    error
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.addr = addr
	f.writes = append(f.writes, append([]byte(nil), w...))
	return nil
}

func TestInitSequence(t *testing.T) {
	bus := &fakeI2C{}
	if err := New(bus).Init(48_000, 24); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if bus.addr != Address {
		t.Fatalf("addr %#x", bus.addr)
	}
	if len(bus.writes) != 11 {
		t.Fatalf("writes %d", len(bus.writes))
	}
	first := bus.writes[0]
	if first[0] != RegReset<<1 || first[1] != 0 {
		t.Fatalf("first write % x, want reset", first)
	}
	iface := bus.writes[8]
	if iface[0] != RegInterface<<1 || iface[1] != 0x0A {
		t.Fatalf("interface write % x", iface)
	}
	last := bus.writes[10]
	if last[0] != RegActive<<1 || last[1] != 1 {
		t.Fatalf("last write % x, want activate", last)
	}
}

func TestNinthBit(t *testing.T) {
	bus := &fakeI2C{}
	if err := New(bus).WriteRegister(RegPowerDown, 0x1FF); err != nil {
		t.Fatal(err)
	}
	if got := bus.writes[0]; got[0] != RegPowerDown<<1|1 || got[1] != 0xFF {
		t.Fatalf("encoded % x", got)
	}
}

func TestRejects(t *testing.T) {
	bus := &fakeI2C{}
	if err := New(bus).Init(44_100, 24); err != ErrUnsupportedRate {
		t.Fatalf("rate: %v", err)
	}
	if err := New(bus).Init(48_000, 12); err != ErrUnsupportedDepth {
		t.Fatalf("depth: %v", err)
	}
	if len(bus.writes) != 0 {
		t.Fatalf("bus written on rejected format")
	}
	nack := errors.New("nack")
	if err := New(&fakeI2C{err: nack}).Init(48_000, 24); err != nack {
		t.Fatalf("bus error: %v", err)
	}
}
