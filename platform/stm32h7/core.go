//go:build tinygo && stm32h7

package stm32h7

import (
	"seed-go/memguard"
)

// MPU is the SCB/MPU register block.
type MPU struct{}

var mpuRegs = [...]uintptr{
	memguard.SHCSR: scbBase + 0x24,
	memguard.CTRL:  mpuBase + 0x04,
	memguard.RNR:   mpuBase + 0x08,
	memguard.RBAR:  mpuBase + 0x0C,
	memguard.RASR:  mpuBase + 0x10,
}

func (MPU) Get(r memguard.Reg) uint32    { return reg(mpuRegs[r]).Get() }
func (MPU) Set(r memguard.Reg, v uint32) { reg(mpuRegs[r]).Set(v) }
func (MPU) DMB()                         { dmb() }
func (MPU) DSB()                         { dsb() }
func (MPU) ISB()                         { isb() }

const (
	demcr       = scbBase + 0xFC
	demcrTrcEna = 1 << 24
	dwtCtrl     = dwtBase + 0x000
	dwtCyccnt   = dwtBase + 0x004
	dwtLar      = dwtBase + 0xFB0
	dwtUnlock   = 0xC5AC_CE55
)

// DWT is the data watchpoint unit's cycle counter.
type DWT struct{}

func (DWT) EnableCycleCounter() {
	reg(demcr).SetBits(demcrTrcEna)
	reg(dwtLar).Set(dwtUnlock)
	reg(dwtCyccnt).Set(0)
	reg(dwtCtrl).SetBits(1)
}

// Cycles returns the free-running core cycle count.
func (DWT) Cycles() uint32 { return reg(dwtCyccnt).Get() }

const (
	scbCCR     = scbBase + 0x14
	ccrIC      = 1 << 17
	scbICIALLU = 0xE000_EF50
)

type Cache struct{}

func (Cache) EnableICache() {
	dsb()
	isb()
	reg(scbICIALLU).Set(0)
	dsb()
	isb()
	reg(scbCCR).SetBits(ccrIC)
	dsb()
	isb()
}
