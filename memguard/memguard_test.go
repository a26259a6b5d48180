package memguard_test

import (
	"errors"
	"reflect"
	"testing"

	"seed-go/errcode"
	"seed-go/memguard"
	"seed-go/platform/sim"
)

func newGuard() (*memguard.Guard, *sim.MPU, *sim.Trace) {
	tr := &sim.Trace{}
	mpu := &sim.MPU{Trace: tr}
	return memguard.New(mpu), mpu, tr
}

func TestProtectSequence(t *testing.T) {
	g, mpu, tr := newGuard()
	r := memguard.Region{Base: 0xC000_0000, Size: 64 << 20, Index: 1}
	if err := g.Protect(r); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	want := []string{
		"mpu DMB",
		"mpu SHCSR=0x00000000",
		"mpu MPU_CTRL=0x00000000",
		"mpu MPU_RNR=0x00000001",
		"mpu MPU_RBAR=0xC0000000",
		"mpu MPU_RASR=0x03000033",
		"mpu MPU_CTRL=0x00000005",
		"mpu SHCSR=0x00010000",
		"mpu DSB",
		"mpu ISB",
	}
	if got := tr.Ops(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sequence:\n got %q\nwant %q", got, want)
	}
	if !mpu.Enabled() {
		t.Fatal("MPU not left enabled")
	}
	got, ok := g.Committed()
	if !ok || got != r {
		t.Fatalf("Committed() = %+v, %v", got, ok)
	}
}

func TestProtectAlignsBase(t *testing.T) {
	g, mpu, _ := newGuard()
	if err := g.Protect(memguard.Region{Base: 0x6000_0003, Size: 1 << 20, Index: 0}); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	rbar, rasr := mpu.Region(0)
	if rbar != 0x6000_0000 {
		t.Fatalf("RBAR %#x, want 0x60000000", rbar)
	}
	if f := (rasr >> 1) & 0x1F; f != 19 {
		t.Fatalf("size field %d, want 19", f)
	}
}

func TestProtectRejectsGeometry(t *testing.T) {
	cases := []struct {
		name string
		r    memguard.Region
		code errcode.Code
	}{
		{"not pow2", memguard.Region{Base: 0xC000_0000, Size: 100}, errcode.InvalidSize},
		{"not pow2 large", memguard.Region{Base: 0xC000_0000, Size: 48 << 20}, errcode.InvalidSize},
		{"too small", memguard.Region{Base: 0xC000_0000, Size: 16}, errcode.InvalidSize},
		{"zero", memguard.Region{Base: 0xC000_0000}, errcode.InvalidSize},
		{"region", memguard.Region{Base: 0xC000_0000, Size: 1 << 20, Index: 16}, errcode.InvalidRegion},
	}
	for _, c := range cases {
		g, _, tr := newGuard()
		err := g.Protect(c.r)
		if got := errcode.Of(err); got != c.code {
			t.Fatalf("%s: code %q (%v), want %q", c.name, got, err, c.code)
		}
		if errcode.ClassOf(err) != errcode.ClassConfiguration {
			t.Fatalf("%s: class %v", c.name, errcode.ClassOf(err))
		}
		if ops := tr.Ops(); len(ops) != 0 {
			t.Fatalf("%s: hardware touched: %q", c.name, ops)
		}
		if _, ok := g.Committed(); ok {
			t.Fatalf("%s: committed after rejection", c.name)
		}
	}
}

func TestProtectRejectsEverySmallOrUnevenSize(t *testing.T) {
	var sizes []uint32
	for sz := uint32(1); sz < memguard.MinSize; sz <<= 1 {
		sizes = append(sizes, sz)
	}
	for _, sz := range []uint32{3, 5, 6, 7, 31, 33, 48, 96, 1000, 3 << 20, 1<<26 + 1, 1<<26 - 1, 0xFFFF_FFFF} {
		sizes = append(sizes, sz)
	}
	for _, sz := range sizes {
		g, _, tr := newGuard()
		err := g.Protect(memguard.Region{Base: 0xC000_0000, Size: sz, Index: 1})
		if errcode.Of(err) != errcode.InvalidSize {
			t.Fatalf("size %d: got %v, want invalid_size", sz, err)
		}
		if ops := tr.Ops(); len(ops) != 0 {
			t.Fatalf("size %d: hardware touched: %q", sz, ops)
		}
	}
	if len(sizes) < 5 || sizes[0] != 1 || sizes[4] != 16 {
		t.Fatalf("power-of-two sizes below the minimum not all covered: %v", sizes)
	}
}

func TestProtectMinimumSize(t *testing.T) {
	g, mpu, _ := newGuard()
	if err := g.Protect(memguard.Region{Base: 0x2000_0000, Size: memguard.MinSize, Index: 2}); err != nil {
		t.Fatalf("32-byte region: %v", err)
	}
	if _, rasr := mpu.Region(2); (rasr>>1)&0x1F != 4 {
		t.Fatalf("size field for 32 bytes: %d", (rasr>>1)&0x1F)
	}
}

func TestProtectIsSingleUse(t *testing.T) {
	g, _, tr := newGuard()
	r := memguard.Region{Base: 0xC000_0000, Size: 1 << 26, Index: 1}
	if err := g.Protect(r); err != nil {
		t.Fatal(err)
	}
	n := len(tr.Ops())
	err := g.Protect(r)
	if !errors.Is(err, errcode.AlreadyInitialized) {
		t.Fatalf("second Protect: %v", err)
	}
	if len(tr.Ops()) != n {
		t.Fatal("second Protect touched hardware")
	}
}

func TestProtectVerifyFailure(t *testing.T) {
	tr := &sim.Trace{}
	g := memguard.New(&sim.MPU{Trace: tr, Corrupt: true})
	err := g.Protect(memguard.Region{Base: 0xC000_0000, Size: 1 << 26, Index: 1})
	if !errors.Is(err, errcode.VerifyFailed) {
		t.Fatalf("got %v, want verify_failed", err)
	}
	if errcode.ClassOf(err) != errcode.ClassFatal {
		t.Fatalf("class %v, want fatal", errcode.ClassOf(err))
	}
	if _, ok := g.Committed(); !ok {
		t.Fatal("state must be committed once registers were written")
	}
}

func TestEncodeRASR(t *testing.T) {
	for _, c := range []struct {
		size uint32
		want uint32
	}{
		{32, 0x0300_0009},
		{1 << 20, 0x0300_0027},
		{64 << 20, 0x0300_0033},
		{1 << 31, 0x0300_003D},
	} {
		if got := memguard.EncodeRASR(memguard.Region{Size: c.size}); got != c.want {
			t.Fatalf("size %d: RASR %#x, want %#x", c.size, got, c.want)
		}
	}
}
