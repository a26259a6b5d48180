//go:build tinygo && stm32h7

// Package stm32h7 drives the STM32H750 register blocks behind the
// capabilities system.Init consumes. Registers are reached by address; the
// reference manual is RM0433.
package stm32h7

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"
)

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

func reg8(addr uintptr) *volatile.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(addr))
}

// field replaces bits [pos, pos+width) of r with v.
func field(r *volatile.Register32, pos, width uint8, v uint32) {
	mask := uint32(1)<<width - 1
	r.ReplaceBits(v&mask, mask, pos)
}

func dmb() { arm.Asm("dmb 0xF") }
func dsb() { arm.Asm("dsb 0xF") }
func isb() { arm.Asm("isb 0xF") }

// spin polls ready up to n times.
func spin(n int, ready func() bool) bool {
	for ; n > 0; n-- {
		if ready() {
			return true
		}
	}
	return ready()
}

// Block base addresses.
const (
	rccBase    = 0x5802_4400
	pwrBase    = 0x5802_4800
	syscfgBase = 0x5800_0400
	flashBase  = 0x5200_2000
	gpioBase   = 0x5802_0000
	fmcBase    = 0x5200_4000
	sai1Base   = 0x4001_5800
	dma1Base   = 0x4002_0000
	dmamuxBase = 0x4002_0800
	tim2Base   = 0x4000_0000
	spi1Base   = 0x4001_3000
	adc1Base   = 0x4002_2000
	adc2Base   = 0x4002_2100
	adc12Base  = 0x4002_2300

	scbBase = 0xE000_ED00
	mpuBase = 0xE000_ED90
	dwtBase = 0xE000_1000
)

// DMA-addressable RAM: AXI SRAM and the D2 SRAM banks. DTCM is not.
const (
	AXISRAMBase = 0x2400_0000
	AXISRAMSize = 512 << 10
	D2SRAMBase  = 0x3000_0000
	D2SRAMSize  = 288 << 10
)
