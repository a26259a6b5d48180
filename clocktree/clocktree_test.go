package clocktree

import (
	"errors"
	"testing"

	"seed-go/errcode"
)

func TestDeriveReferenceBoard(t *testing.T) {
	d, err := Derive(ClockSpec{CrystalHz: 16_000_000, TargetSysHz: 400_000_000, TargetAudioHz: 48_000})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.PLL3PHz != 12_336_000 {
		t.Fatalf("pll3_p = %d, want 12336000", d.PLL3PHz)
	}
	if d.PeripheralHz != 100_000_000 {
		t.Fatalf("peripheral = %d, want 100000000", d.PeripheralHz)
	}
	if d.SysHz != 400_000_000 || d.PLL1QHz != 400_000_000/18 || d.PLL1RHz != 400_000_000/32 {
		t.Fatalf("unexpected pll1 outputs: %+v", d)
	}
	if d.PLL3QHz != 12_336_000/4 || d.PLL3RHz != 12_336_000/16 {
		t.Fatalf("unexpected pll3 q/r: q=%d r=%d", d.PLL3QHz, d.PLL3RHz)
	}
	if d.PLL2PHz != 4_000_000 || d.TimerHz != 200_000_000 {
		t.Fatalf("pll2_p=%d timer=%d", d.PLL2PHz, d.TimerHz)
	}

	// 16 MHz / 1 * 50 = 800 MHz VCO, / 2 = 400 MHz.
	p1 := d.PLL1
	if p1.M != 1 || p1.N != 50 || p1.P != 2 || p1.FracN != 0 {
		t.Fatalf("unexpected PLL1 config: %+v", p1)
	}
	if p1.Q != 36 || p1.R != 64 || p1.PHz != 400_000_000 || p1.QHz != d.PLL1QHz || p1.RHz != d.PLL1RHz {
		t.Fatalf("unexpected PLL1 q/r: %+v", p1)
	}
	if p1.Range != Range8To16MHz || !p1.WideVCO {
		t.Fatalf("unexpected PLL1 range: %+v", p1)
	}
	if d.PLL2.PHz != 4_000_000 || d.PLL2.Q != 0 || d.PLL2.R != 0 {
		t.Fatalf("unexpected PLL2 config: %+v", d.PLL2)
	}
	if ppm(d.PLL3.PHz, d.PLL3PHz) > FractionalTolerancePPM {
		t.Fatalf("PLL3 achieved %d, too far from %d", d.PLL3.PHz, d.PLL3PHz)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	specs := []ClockSpec{
		{16_000_000, 400_000_000, 48_000},
		{25_000_000, 480_000_000, 44_100},
		{8_000_000, 200_000_000, 96_000},
		{12_000_000, 480_000_000, 32_000},
	}
	for _, s := range specs {
		a, errA := Derive(s)
		b, errB := Derive(s)
		if errA != nil || errB != nil {
			t.Fatalf("%+v: %v / %v", s, errA, errB)
		}
		if a != b {
			t.Fatalf("%+v: outputs differ:\n%+v\n%+v", s, a, b)
		}
		if a.PLL1.PHz != s.TargetSysHz {
			t.Fatalf("%+v: integer PLL1 should be exact, got %d", s, a.PLL1.PHz)
		}
		if ppm(a.PLL3.PHz, a.PLL3PHz) > FractionalTolerancePPM {
			t.Fatalf("%+v: PLL3 %d outside tolerance of %d", s, a.PLL3.PHz, a.PLL3PHz)
		}
		if a.PLL3.Q == 0 || a.PLL3.Q > 128 || a.PLL3.R > 128 {
			t.Fatalf("%+v: PLL3 dividers out of range: %+v", s, a.PLL3)
		}
	}
}

func TestDeriveRejects(t *testing.T) {
	cases := []struct {
		name string
		spec ClockSpec
		code errcode.Code
	}{
		{"zero crystal", ClockSpec{0, 400_000_000, 48_000}, errcode.InvalidParams},
		{"zero audio", ClockSpec{16_000_000, 400_000_000, 0}, errcode.InvalidParams},
		{"crystal too slow", ClockSpec{1_000_000, 400_000_000, 48_000}, errcode.Unreachable},
		{"crystal too fast", ClockSpec{64_000_000, 400_000_000, 48_000}, errcode.Unreachable},
		{"sys above max", ClockSpec{16_000_000, 500_000_000, 48_000}, errcode.Unreachable},
		{"sys below PLL1 range", ClockSpec{16_000_000, 30_000_000, 48_000}, errcode.Unreachable},
		{"audio kernel above max", ClockSpec{16_000_000, 400_000_000, 2_000_000}, errcode.Unreachable},
	}
	for _, c := range cases {
		_, err := Derive(c.spec)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !errors.Is(err, c.code) {
			t.Fatalf("%s: got %v, want code %q", c.name, err, c.code)
		}
		if errcode.ClassOf(err) != errcode.ClassConfiguration {
			t.Fatalf("%s: class %s", c.name, errcode.ClassOf(err))
		}
	}
}

func TestSearchHonoursEvenP(t *testing.T) {
	c, ok := search(16_000_000, target{hz: 100_000_000, evenP: true, tolPPM: IntegerTolerancePPM})
	if !ok {
		t.Fatal("expected a configuration")
	}
	if c.P%2 != 0 {
		t.Fatalf("odd P %d", c.P)
	}
	if c.PHz != 100_000_000 {
		t.Fatalf("PHz = %d", c.PHz)
	}
}

func ppm(got, want uint32) uint64 {
	var d uint64
	if got > want {
		d = uint64(got - want)
	} else {
		d = uint64(want - got)
	}
	return d * 1_000_000 / uint64(want)
}

func TestOutOfRangeOutputLeftOff(t *testing.T) {
	d, err := Derive(ClockSpec{CrystalHz: 16_000_000, TargetSysHz: 400_000_000, TargetAudioHz: 48_000})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	// 771 kHz from a VCO of at least 192 MHz needs a divider above 128.
	if d.PLL3.R != 0 || d.PLL3.RHz != 0 {
		t.Fatalf("PLL3 R should be off, got R=%d (%d Hz)", d.PLL3.R, d.PLL3.RHz)
	}
	if d.PLL3RHz != 12_336_000/16 {
		t.Fatalf("nominal PLL3RHz = %d", d.PLL3RHz)
	}
	if d.PLL3.Q == 0 || ppm(d.PLL3.QHz, d.PLL3QHz) > IntegerTolerancePPM {
		t.Fatalf("PLL3 Q %d (%d Hz), want about %d", d.PLL3.Q, d.PLL3.QHz, d.PLL3QHz)
	}
}

func TestNearestDiv(t *testing.T) {
	cases := []struct {
		vco  uint64
		out  uint32
		want uint32
	}{
		{400_000_000, 100_000_000, 4},
		{400_000_000, 1_000_000_000, 1},
		{400_000_000, 3_125_000, 128},
		{400_000_000, 3_000_000, 0},
	}
	for _, c := range cases {
		if got := nearestDiv(c.vco, c.out); got != c.want {
			t.Fatalf("nearestDiv(%d, %d) = %d, want %d", c.vco, c.out, got, c.want)
		}
	}
}

func TestWideVCOReaches960(t *testing.T) {
	d, err := Derive(ClockSpec{CrystalHz: 16_000_000, TargetSysHz: 480_000_000, TargetAudioHz: 48_000})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	p1 := d.PLL1
	// An even P1 of 2 is the only way to 480 MHz, so the VCO sits at the top.
	vco := uint64(16_000_000) / uint64(p1.M) * uint64(p1.N)
	if vco != wideVCOMaxHz || p1.P != 2 || p1.PHz != 480_000_000 {
		t.Fatalf("vco=%d %+v", vco, p1)
	}
}
