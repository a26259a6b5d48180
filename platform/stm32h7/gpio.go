//go:build tinygo && stm32h7

package stm32h7

import (
	"seed-go/system"
)

const (
	gpioMODER   = 0x00
	gpioOSPEEDR = 0x08
	gpioPUPDR   = 0x0C
	gpioODR     = 0x14
	gpioBSRR    = 0x18
	gpioAFRL    = 0x20
	gpioAFRH    = 0x24

	modeOutput = 1
	modeAF     = 2
	speedHigh  = 3
	afFMC      = 12
)

// Ports, in bank order.
const (
	PA uint8 = iota
	PB
	PC
	PD
	PE
	PF
	PG
	PH
	PI
)

func portBase(port uint8) uintptr { return gpioBase + 0x400*uintptr(port) }

// Pin is one GPIO line configured as a push-pull output.
type Pin struct {
	Port uint8
	Num  uint8
}

func (p Pin) configureOutput() {
	b := portBase(p.Port)
	field(reg(b+gpioMODER), 2*p.Num, 2, modeOutput)
	field(reg(b+gpioOSPEEDR), 2*p.Num, 2, 0)
	field(reg(b+gpioPUPDR), 2*p.Num, 2, 0)
}

func (p Pin) Set(high bool) {
	if high {
		reg(portBase(p.Port) + gpioBSRR).Set(1 << p.Num)
	} else {
		reg(portBase(p.Port) + gpioBSRR).Set(1 << (p.Num + 16))
	}
}

func (p Pin) Get() bool { return reg(portBase(p.Port) + gpioODR).HasBits(1 << p.Num) }

func (p Pin) Toggle() { p.Set(!p.Get()) }

// Board pins.
var (
	LED        = Pin{PC, 7}
	CodecReset = Pin{PB, 11}
)

// fmcPins lists the SDRAM lines per port as bit masks.
var fmcPins = [...]struct {
	port uint8
	mask uint16
}{
	{PD, 0xC703},
	{PE, 0xFF83},
	{PF, 0xF83F},
	{PG, 0x8137},
	{PH, 0xFFEC},
	{PI, 0x06FF},
}

type GPIO struct{}

func (GPIO) Configure() (system.GPIO, error) {
	LED.configureOutput()
	CodecReset.configureOutput()
	CodecReset.Set(true)
	return system.GPIO{LED: LED, CodecReset: CodecReset}, nil
}

func (GPIO) ConfigureFMC() error {
	for _, fp := range fmcPins {
		b := portBase(fp.port)
		for n := uint8(0); n < 16; n++ {
			if fp.mask&(1<<n) == 0 {
				continue
			}
			field(reg(b+gpioMODER), 2*n, 2, modeAF)
			field(reg(b+gpioOSPEEDR), 2*n, 2, speedHigh)
			field(reg(b+gpioPUPDR), 2*n, 2, 0)
			if n < 8 {
				field(reg(b+gpioAFRL), 4*n, 4, afFMC)
			} else {
				field(reg(b+gpioAFRH), 4*(n-8), 4, afFMC)
			}
		}
	}
	return nil
}
