package clocktree

import "seed-go/x/mathx"

// PLL limits.
const (
	minRefHz = 1_000_000
	maxRefHz = 16_000_000

	// Revision V silicon; revision Y caps the wide VCO at 836 MHz.
	wideVCOMinHz   = 192_000_000
	wideVCOMaxHz   = 960_000_000
	mediumVCOMinHz = 150_000_000
	mediumVCOMaxHz = 420_000_000

	maxM   = 63
	minN   = 4
	maxN   = 512
	maxDiv = 128

	fracBits  = 13
	fracScale = 1 << fracBits
)

// Search tolerances, in parts per million of the requested output.
const (
	IntegerTolerancePPM    = 1000
	FractionalTolerancePPM = 50
)

// Input range selector (PLLxRGE).
const (
	Range1To2MHz uint8 = iota
	Range2To4MHz
	Range4To8MHz
	Range8To16MHz
)

// PLLConfig holds the divider settings of one PLL and what they achieve.
// A zero Q or R divider means that output is left disabled.
type PLLConfig struct {
	M     uint32 // reference divider
	N     uint32 // integer multiplier
	FracN uint32 // 13-bit fractional multiplier, 0 in integer mode
	P     uint32
	Q     uint32
	R     uint32

	Range   uint8
	WideVCO bool

	PHz uint32
	QHz uint32
	RHz uint32
}

// Fractional reports whether the PLL runs in fractional-N mode.
func (c PLLConfig) Fractional() bool { return c.FracN != 0 }

// vcoHz returns the VCO frequency (truncated) for a given crystal.
func (c PLLConfig) vcoHz(crystal uint32) uint64 {
	if c.M == 0 {
		return 0
	}
	return uint64(crystal) * (uint64(c.N)*fracScale + uint64(c.FracN)) / (uint64(c.M) * fracScale)
}

func (c *PLLConfig) setQ(div, crystal uint32) {
	c.Q, c.QHz = div, 0
	if div != 0 {
		c.QHz = uint32(c.vcoHz(crystal) / uint64(div))
	}
}

func (c *PLLConfig) setR(div, crystal uint32) {
	c.R, c.RHz = div, 0
	if div != 0 {
		c.RHz = uint32(c.vcoHz(crystal) / uint64(div))
	}
}

// nearestDiv returns the divider closest to vco/out, or 0 (output off)
// when that divider is above what the PLL supports.
func nearestDiv(vco uint64, out uint32) uint32 {
	d := mathx.RoundDiv(vco, uint64(out))
	if d > maxDiv {
		return 0
	}
	return uint32(mathx.Clamp(d, 1, maxDiv))
}

type target struct {
	hz     uint32
	evenP  bool
	frac   bool
	tolPPM uint64
	fits   func(p uint32) bool
}

// search walks M ascending, then P ascending, and keeps the candidate with
// the smallest absolute output error; the first one found wins ties.
// The result is accepted only within t.tolPPM of the request.
func search(crystal uint32, t target) (PLLConfig, bool) {
	var (
		best    PLLConfig
		bestErr uint64
		found   bool
	)
	want := uint64(t.hz) * 1000 // mHz
	step := uint32(1)
	first := uint32(1)
	if t.evenP {
		step, first = 2, 2
	}

outer:
	for m := uint32(1); m <= maxM; m++ {
		if uint64(crystal) < uint64(m)*minRefHz || uint64(crystal) > uint64(m)*maxRefHz {
			continue
		}
		ref := crystal / m
		wide := ref >= 2_000_000
		vcoMin, vcoMax := uint64(mediumVCOMinHz), uint64(mediumVCOMaxHz)
		if wide {
			vcoMin, vcoMax = wideVCOMinHz, wideVCOMaxHz
		}

		for p := first; p <= maxDiv; p += step {
			if t.fits != nil && !t.fits(p) {
				continue
			}
			vco := uint64(t.hz) * uint64(p)
			if vco < vcoMin || vco > vcoMax {
				continue
			}

			// Multiplier in 1/8192 steps.
			var nf uint64
			if t.frac {
				nf = mathx.RoundDiv(vco*uint64(m)*fracScale, uint64(crystal))
			} else {
				nf = mathx.RoundDiv(vco*uint64(m), uint64(crystal)) * fracScale
			}
			n := nf / fracScale
			if n < minN || n > maxN {
				continue
			}
			actualVCO := uint64(crystal) * nf / (uint64(m) * fracScale)
			if actualVCO < vcoMin || actualVCO > vcoMax {
				continue
			}

			got := uint64(crystal) * nf * 1000 / (uint64(m) * fracScale * uint64(p))
			e := mathx.AbsDiff(got, want)
			if !found || e < bestErr {
				found, bestErr = true, e
				best = PLLConfig{
					M:       m,
					N:       uint32(n),
					FracN:   uint32(nf % fracScale),
					P:       p,
					Range:   rangeFor(ref),
					WideVCO: wide,
					PHz:     uint32(got / 1000),
				}
				if e == 0 {
					break outer
				}
			}
		}
	}
	if !found || bestErr*1_000_000 > t.tolPPM*want {
		return PLLConfig{}, false
	}
	return best, true
}

func rangeFor(ref uint32) uint8 {
	switch {
	case ref < 2_000_000:
		return Range1To2MHz
	case ref < 4_000_000:
		return Range2To4MHz
	case ref < 8_000_000:
		return Range4To8MHz
	default:
		return Range8To16MHz
	}
}
