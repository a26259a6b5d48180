// Package clocktree derives the clock tree of the board from a crystal
// frequency and the requested system and audio sample rates.
//
// The topology is fixed: PLL1 feeds the CPU (P), the DMA domain (Q) and the
// low-priority peripherals (R); PLL2 P is the ADC kernel clock; PLL3 P is the
// audio interface kernel clock with Q and R as fixed fractions of it.
// Nothing in this package touches hardware.
package clocktree

import (
	"strconv"

	"seed-go/errcode"
	"seed-go/x/logx"
)

// Hardware bounds.
const (
	MinCrystalHz    = 4_000_000
	MaxCrystalHz    = 50_000_000
	MaxSysHz        = 480_000_000
	MaxPeripheralHz = 120_000_000
	MaxPLLOutHz     = 480_000_000

	// PLL2 P is fixed: it is the ADC kernel clock.
	PLL2PHz = 4_000_000

	// Bit clock convention: one cycle beyond the 256x oversampling ratio.
	AudioClockRatio = 257
)

// Fixed divisions of the tree.
const (
	peripheralDiv = 4
	pll1QDiv      = 18
	pll1RDiv      = 32
	pll3QDiv      = 4
	pll3RDiv      = 16
)

// ClockSpec is the requested clock configuration.
type ClockSpec struct {
	CrystalHz     uint32 `yaml:"crystal_hz" json:"crystal_hz"`
	TargetSysHz   uint32 `yaml:"target_sys_hz" json:"target_sys_hz"`
	TargetAudioHz uint32 `yaml:"target_audio_hz" json:"target_audio_hz"`
}

// DerivedClocks is the nominal clock tree plus the PLL settings that realise it.
// The Hz fields are exact fractions of the requested frequencies; the PLL
// configs carry the achieved outputs. An output whose divider would exceed
// 128 is left off in its PLLConfig (divider and Hz zero) while the nominal
// field keeps the requested value; PLL3 R is off for every audio rate.
type DerivedClocks struct {
	SysHz        uint32
	PeripheralHz uint32
	PLL1QHz      uint32
	PLL1RHz      uint32
	PLL2PHz      uint32
	PLL3PHz      uint32
	PLL3QHz      uint32
	PLL3RHz      uint32

	// TimerHz is the kernel clock of the APB timers (twice the bus clock
	// whenever the bus prescaler is not 1).
	TimerHz uint32

	PLL1, PLL2, PLL3 PLLConfig
}

const op = "clocktree.derive"

func unreachable(msg string) error {
	return &errcode.E{C: errcode.Unreachable, Op: op, Msg: msg}
}

func hz(name string, v uint32) string {
	return name + " " + strconv.FormatUint(uint64(v), 10) + " Hz"
}

// Derive computes the clock tree for spec. It is pure and deterministic.
func Derive(spec ClockSpec) (DerivedClocks, error) {
	if spec.CrystalHz == 0 || spec.TargetSysHz == 0 || spec.TargetAudioHz == 0 {
		return DerivedClocks{}, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "all frequencies must be positive"}
	}
	if spec.CrystalHz < MinCrystalHz || spec.CrystalHz > MaxCrystalHz {
		return DerivedClocks{}, unreachable(hz("crystal", spec.CrystalHz) + " outside 4-50 MHz")
	}
	if spec.TargetSysHz > MaxSysHz {
		return DerivedClocks{}, unreachable(hz("sys", spec.TargetSysHz) + " above maximum")
	}

	d := DerivedClocks{
		SysHz:        spec.TargetSysHz,
		PeripheralHz: spec.TargetSysHz / peripheralDiv,
		PLL1QHz:      spec.TargetSysHz / pll1QDiv,
		PLL1RHz:      spec.TargetSysHz / pll1RDiv,
		PLL2PHz:      PLL2PHz,
	}
	p3 := uint64(spec.TargetAudioHz) * AudioClockRatio
	if p3 > MaxPLLOutHz {
		return DerivedClocks{}, unreachable(hz("audio", spec.TargetAudioHz) + " needs a kernel clock above maximum")
	}
	d.PLL3PHz = uint32(p3)
	d.PLL3QHz = d.PLL3PHz / pll3QDiv
	d.PLL3RHz = d.PLL3PHz / pll3RDiv
	d.TimerHz = d.PeripheralHz * 2

	for _, v := range [...]struct {
		name string
		hz   uint32
	}{
		{"peripheral", d.PeripheralHz}, {"pll1_q", d.PLL1QHz}, {"pll1_r", d.PLL1RHz},
		{"pll3_p", d.PLL3PHz}, {"pll3_q", d.PLL3QHz}, {"pll3_r", d.PLL3RHz},
	} {
		if v.hz == 0 {
			return DerivedClocks{}, unreachable(v.name + " derives to 0 Hz")
		}
	}
	if d.PeripheralHz > MaxPeripheralHz {
		return DerivedClocks{}, unreachable(hz("peripheral", d.PeripheralHz) + " above maximum")
	}

	var ok bool
	d.PLL1, ok = search(spec.CrystalHz, target{
		hz:     d.SysHz,
		evenP:  true,
		tolPPM: IntegerTolerancePPM,
		// Q and R are exact multiples of P so they stay fixed fractions of sys.
		fits: func(p uint32) bool { return p*pll1QDiv <= maxDiv && p*pll1RDiv <= maxDiv },
	})
	if !ok {
		return DerivedClocks{}, unreachable(hz("sys", d.SysHz) + " not reachable by PLL1")
	}
	d.PLL1.setQ(d.PLL1.P*pll1QDiv, spec.CrystalHz)
	d.PLL1.setR(d.PLL1.P*pll1RDiv, spec.CrystalHz)

	d.PLL2, ok = search(spec.CrystalHz, target{hz: d.PLL2PHz, tolPPM: IntegerTolerancePPM})
	if !ok {
		return DerivedClocks{}, unreachable(hz("pll2_p", d.PLL2PHz) + " not reachable by PLL2")
	}

	d.PLL3, ok = search(spec.CrystalHz, target{hz: d.PLL3PHz, frac: true, tolPPM: FractionalTolerancePPM})
	if !ok {
		return DerivedClocks{}, unreachable(hz("pll3_p", d.PLL3PHz) + " not reachable by PLL3")
	}
	vco := d.PLL3.vcoHz(spec.CrystalHz)
	d.PLL3.setQ(nearestDiv(vco, d.PLL3QHz), spec.CrystalHz)
	d.PLL3.setR(nearestDiv(vco, d.PLL3RHz), spec.CrystalHz)

	return d, nil
}

// LogTo writes the derived tree at debug level.
func (d DerivedClocks) LogTo(l *logx.Logger) {
	l.Debug("core", logx.U32("hz", d.SysHz))
	l.Debug("pclk", logx.U32("hz", d.PeripheralHz), logx.U32("timer_hz", d.TimerHz))
	for i, p := range [...]PLLConfig{d.PLL1, d.PLL2, d.PLL3} {
		l.Debug("pll",
			logx.Int("n", i+1),
			logx.U32("m", p.M), logx.U32("divn", p.N), logx.U32("frac", p.FracN),
			logx.U32("p_hz", p.PHz), logx.U32("q_hz", p.QHz), logx.U32("r_hz", p.RHz))
	}
}
