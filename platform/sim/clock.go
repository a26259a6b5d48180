package sim

import (
	"seed-go/clocktree"
	"seed-go/errcode"
	"seed-go/system"
)

// Power models the PWR block. Ready stays false while Stuck is set, and a
// VOS0 request then times out waiting for VOS1 before overdrive.
type Power struct {
	Trace *Trace
	Stuck bool
	Scale system.VoltageScale
}

func (p *Power) SupplyLDO() { p.Trace.add("pwr ldo") }

func (p *Power) SetVoltageScale(v system.VoltageScale) error {
	p.Scale = v
	p.Trace.add("pwr vos" + dec(uint32(v)))
	if v == system.VOS0 && p.Stuck {
		return errcode.New(errcode.Timeout, "sim.pwr", "VOSRDY before overdrive")
	}
	return nil
}

func (p *Power) VoltageReady() bool { return !p.Stuck }

// RCC models the reset and clock controller. A PLL listed in NoLock never
// reports lock; NoHSE keeps the oscillator from starting. FlashStuck makes
// the flash latency readback never match.
type RCC struct {
	Trace      *Trace
	NoHSE      bool
	NoLock     map[system.PLL]bool
	FlashStuck bool

	CrystalHz  uint32
	PLLs       [4]clocktree.PLLConfig
	enabled    [4]bool
	sysPLL1    bool
	Prescalers system.Prescalers
	FlashAHBHz uint32
}

func (r *RCC) EnableHSE(hz uint32) {
	r.CrystalHz = hz
	r.Trace.add("rcc hse")
}

func (r *RCC) HSEReady() bool { return !r.NoHSE && r.CrystalHz != 0 }

func (r *RCC) ConfigurePLL(n system.PLL, cfg clocktree.PLLConfig) {
	r.PLLs[n] = cfg
	r.Trace.add("rcc pll" + dec(uint32(n)) + " config")
}

func (r *RCC) EnablePLL(n system.PLL) {
	r.enabled[n] = true
	r.Trace.add("rcc pll" + dec(uint32(n)) + " on")
}

func (r *RCC) PLLLocked(n system.PLL) bool { return r.enabled[n] && !r.NoLock[n] }

func (r *RCC) SetFlashLatency(ahbHz uint32, _ system.VoltageScale) error {
	r.Trace.add("rcc flash")
	if r.FlashStuck {
		return errcode.New(errcode.Timeout, "sim.flash", "latency readback")
	}
	r.FlashAHBHz = ahbHz
	return nil
}

func (r *RCC) SetPrescalers(p system.Prescalers) {
	r.Prescalers = p
	r.Trace.add("rcc prescalers")
}

func (r *RCC) SelectSysPLL1() {
	if r.enabled[system.PLL1] {
		r.sysPLL1 = true
	}
	r.Trace.add("rcc sys=pll1")
}

func (r *RCC) SysIsPLL1() bool { return r.sysPLL1 }

func (r *RCC) RouteKernelClocks()      { r.Trace.add("rcc kernel") }
func (r *RCC) EnablePeripheralClocks() { r.Trace.add("rcc gates") }

// DWT records whether the cycle counter was started.
type DWT struct {
	Trace   *Trace
	Running bool
}

func (d *DWT) EnableCycleCounter() {
	d.Running = true
	d.Trace.add("dwt on")
}

type Cache struct {
	Trace  *Trace
	ICache bool
}

func (c *Cache) EnableICache() {
	c.ICache = true
	c.Trace.add("icache on")
}
