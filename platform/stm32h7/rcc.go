//go:build tinygo && stm32h7

package stm32h7

import (
	"seed-go/clocktree"
	"seed-go/errcode"
	"seed-go/system"
)

var (
	errVOSReady     = errcode.New(errcode.Timeout, "stm32h7.pwr", "VOSRDY before overdrive")
	errFlashLatency = errcode.New(errcode.Timeout, "stm32h7.flash", "latency readback")
)

const (
	pwrCR3     = pwrBase + 0x0C
	pwrD3CR    = pwrBase + 0x18
	cr3LDOEN   = 1 << 1
	cr3SCUEN   = 1 << 2
	cr3BYPASS  = 1 << 0
	d3crVOSRDY = 1 << 13
	d3crVOSPos = 14

	syscfgPWRCR = syscfgBase + 0x2C
	pwrcrODEN   = 1 << 0
)

// Power is the PWR block.
type Power struct{}

func (Power) SupplyLDO() {
	field(reg(pwrCR3), 0, 3, cr3LDOEN)
}

// vosBits maps scales to D3CR.VOS; VOS0 is VOS1 plus SYSCFG overdrive.
var vosBits = [...]uint32{system.VOS0: 3, system.VOS1: 3, system.VOS2: 2, system.VOS3: 1}

func (Power) SetVoltageScale(v system.VoltageScale) error {
	field(reg(pwrD3CR), d3crVOSPos, 2, vosBits[v])
	if v == system.VOS0 {
		if !spin(1<<16, func() bool { return reg(pwrD3CR).HasBits(d3crVOSRDY) }) {
			return errVOSReady
		}
		reg(syscfgPWRCR).SetBits(pwrcrODEN)
	}
	return nil
}

func (Power) VoltageReady() bool { return reg(pwrD3CR).HasBits(d3crVOSRDY) }

const (
	rccCR        = rccBase + 0x00
	rccCFGR      = rccBase + 0x10
	rccD1CFGR    = rccBase + 0x18
	rccD2CFGR    = rccBase + 0x1C
	rccD3CFGR    = rccBase + 0x20
	rccPLLCKSELR = rccBase + 0x28
	rccPLLCFGR   = rccBase + 0x2C
	rccPLL1DIVR  = rccBase + 0x30
	rccPLL1FRACR = rccBase + 0x34
	rccD1CCIPR   = rccBase + 0x4C
	rccD2CCIP1R  = rccBase + 0x50
	rccD3CCIPR   = rccBase + 0x58
	rccAHB3ENR   = rccBase + 0xD4
	rccAHB1ENR   = rccBase + 0xD8
	rccAHB4ENR   = rccBase + 0xE0
	rccAPB1LENR  = rccBase + 0xE8
	rccAPB2ENR   = rccBase + 0xF0

	crHSEON  = 1 << 16
	crHSERDY = 1 << 17

	cfgrSWPLL1 = 3

	pllSrcHSE = 2

	flashACR = flashBase + 0x00
)

// RCC is the reset and clock controller.
type RCC struct{}

func (RCC) EnableHSE(uint32) { reg(rccCR).SetBits(crHSEON) }
func (RCC) HSEReady() bool   { return reg(rccCR).HasBits(crHSERDY) }

func (RCC) ConfigurePLL(n system.PLL, c clocktree.PLLConfig) {
	i := uint8(n - 1)
	field(reg(rccPLLCKSELR), 0, 2, pllSrcHSE)
	divmPos := [...]uint8{4, 12, 20}[i]
	field(reg(rccPLLCKSELR), divmPos, 6, c.M)

	cfg := reg(rccPLLCFGR)
	base := 4 * i
	field(cfg, base+2, 2, uint32(c.Range))
	vcosel := uint32(1)
	if c.WideVCO {
		vcosel = 0
	}
	field(cfg, base+1, 1, vcosel)
	field(cfg, base, 1, 0)

	div := uint32(c.N-1) | uint32(c.P-1)<<9
	en := uint32(1) << (16 + 3*i)
	if c.Q != 0 {
		div |= uint32(c.Q-1) << 16
		en |= 1 << (17 + 3*i)
	}
	if c.R != 0 {
		div |= uint32(c.R-1) << 24
		en |= 1 << (18 + 3*i)
	}
	reg(rccPLL1DIVR + 8*uintptr(i)).Set(div)
	cfg.SetBits(en)

	frac := reg(rccPLL1FRACR + 8*uintptr(i))
	field(frac, 3, 13, c.FracN)
	if c.Fractional() {
		field(cfg, base, 1, 1)
	}
}

func (RCC) EnablePLL(n system.PLL) { reg(rccCR).SetBits(1 << (24 + 2*uint32(n-1))) }

func (RCC) PLLLocked(n system.PLL) bool {
	return reg(rccCR).HasBits(1 << (25 + 2*uint32(n-1)))
}

// SetFlashLatency follows RM0433 table 17 for the AXI clock.
func (RCC) SetFlashLatency(ahbHz uint32, vos system.VoltageScale) error {
	ws, prog := uint32(4), uint32(2)
	switch mhz := ahbHz / 1_000_000; {
	case mhz <= 70:
		ws, prog = 0, 0
	case mhz <= 140:
		ws, prog = 1, 1
	case mhz <= 185:
		ws, prog = 2, 1
	case mhz <= 210:
		ws, prog = 2, 2
	case mhz <= 225:
		ws, prog = 3, 2
	}
	if vos >= system.VOS2 && ws < 4 {
		ws++
	}
	acr := reg(flashACR)
	acr.Set(ws | prog<<4)
	if !spin(1<<10, func() bool { return acr.Get()&0xF == ws }) {
		return errFlashLatency
	}
	return nil
}

var ppreBits = map[uint8]uint32{1: 0, 2: 4, 4: 5, 8: 6, 16: 7}
var hpreBits = map[uint8]uint32{1: 0, 2: 8, 4: 9, 8: 10, 16: 11}

func (RCC) SetPrescalers(p system.Prescalers) {
	apb := ppreBits[p.APB]
	field(reg(rccD1CFGR), 8, 4, 0) // D1CPRE = 1
	field(reg(rccD1CFGR), 0, 4, hpreBits[p.AHB])
	field(reg(rccD1CFGR), 4, 3, apb)
	field(reg(rccD2CFGR), 4, 3, apb)
	field(reg(rccD2CFGR), 8, 3, apb)
	field(reg(rccD3CFGR), 4, 3, apb)
}

func (RCC) SelectSysPLL1() { field(reg(rccCFGR), 0, 3, cfgrSWPLL1) }

func (RCC) SysIsPLL1() bool { return (reg(rccCFGR).Get()>>3)&7 == cfgrSWPLL1 }

func (RCC) RouteKernelClocks() {
	field(reg(rccD1CCIPR), 0, 2, 0)   // FMC from HCLK3
	field(reg(rccD2CCIP1R), 0, 3, 2)  // SAI1 from PLL3 P
	field(reg(rccD2CCIP1R), 12, 3, 0) // SPI123 from PLL1 Q
	field(reg(rccD3CCIPR), 16, 2, 0)  // ADC from PLL2 P
}

func (RCC) EnablePeripheralClocks() {
	reg(rccAHB4ENR).SetBits(0x7FF)         // GPIOA..GPIOK
	reg(rccAHB3ENR).SetBits(1 << 12)       // FMC
	reg(rccAHB1ENR).SetBits(1<<0 | 1<<5)   // DMA1, ADC12
	reg(rccAPB1LENR).SetBits(1 << 0)       // TIM2
	reg(rccAPB2ENR).SetBits(1<<12 | 1<<22) // SPI1, SAI1
	_ = reg(rccAPB2ENR).Get()
}
