package sdram

import (
	"errors"
	"reflect"
	"testing"
)

type recCtrl struct {
	log     []string
	div     uint8
	sdclk   uint32
	mode    uint16
	refresh uint32
	failOn  Command
	failErr error
}

func (r *recCtrl) Configure(dev Device, div uint8, hz uint32) error {
	r.log = append(r.log, "configure")
	r.div, r.sdclk = div, hz
	return nil
}

func (r *recCtrl) Command(cmd Command, n uint8, mode uint16) error {
	if r.failErr != nil && cmd == r.failOn {
		return r.failErr
	}
	r.log = append(r.log, cmd.String())
	if cmd == CmdLoadMode {
		r.mode = mode
	}
	return nil
}

func (r *recCtrl) SetRefreshCount(c uint32) error {
	r.log = append(r.log, "refresh")
	r.refresh = c
	return nil
}

func (r *recCtrl) Base() uint32 { return 0xC000_0000 }

type recDelay struct {
	ctrl  *recCtrl
	total uint32
}

func (d *recDelay) DelayUs(us uint32) {
	d.total += us
	d.ctrl.log = append(d.ctrl.log, "delay")
}

func TestInitSequence(t *testing.T) {
	c := &recCtrl{}
	d := &recDelay{ctrl: c}
	base, size, err := Init(c, d, AS4C16M32MSA, 200_000_000)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if base != 0xC000_0000 || size != 64<<20 {
		t.Fatalf("base=%#x size=%d", base, size)
	}
	want := []string{"configure", "clock_enable", "delay", "precharge_all", "auto_refresh", "load_mode", "refresh"}
	if !reflect.DeepEqual(c.log, want) {
		t.Fatalf("sequence %v\nwant %v", c.log, want)
	}
	if d.total < 100 {
		t.Fatalf("power-up delay %d us too short", d.total)
	}
	if c.div != 2 || c.sdclk != 100_000_000 {
		t.Fatalf("clock div %d sdclk %d", c.div, c.sdclk)
	}
	if c.mode != 0x0230 {
		t.Fatalf("mode register %#x, want 0x230", c.mode)
	}
	// 15.625 us at 100 MHz is 1562 cycles, minus margin.
	if c.refresh != 1542 {
		t.Fatalf("refresh count %d", c.refresh)
	}
}

func TestInitRejects(t *testing.T) {
	c := &recCtrl{}
	if _, _, err := Init(c, &recDelay{ctrl: c}, AS4C16M32MSA, 400_000_000); err != ErrClockTooFast {
		t.Fatalf("fast clock: %v", err)
	}
	if _, _, err := Init(c, &recDelay{ctrl: c}, Device{}, 100_000_000); err != ErrGeometry {
		t.Fatalf("empty device: %v", err)
	}
	if len(c.log) != 0 {
		t.Fatalf("controller touched on invalid input: %v", c.log)
	}
	busy := errors.New("busy")
	c = &recCtrl{failOn: CmdAutoRefresh, failErr: busy}
	if _, _, err := Init(c, &recDelay{ctrl: c}, AS4C16M32MSA, 200_000_000); err != busy {
		t.Fatalf("command failure: %v", err)
	}
}

func TestClockDiv(t *testing.T) {
	cases := []struct {
		kernel uint32
		div    uint8
		hz     uint32
		err    error
	}{
		{200_000_000, 2, 100_000_000, nil},
		{240_000_000, 3, 80_000_000, nil},
		{300_000_000, 3, 100_000_000, nil},
		{400_000_000, 0, 0, ErrClockTooFast},
		{0, 0, 0, ErrClockTooFast},
	}
	for _, c := range cases {
		div, hz, err := ClockDiv(AS4C16M32MSA, c.kernel)
		if div != c.div || hz != c.hz || err != c.err {
			t.Fatalf("kernel %d: div=%d hz=%d err=%v", c.kernel, div, hz, err)
		}
	}
}
