//go:build tinygo && stm32h7

package stm32h7

import (
	"errors"

	"seed-go/errcode"
	"seed-go/system"
)

var (
	ErrSPIClock   = errors.New("stm32h7: spi frequency not reachable")
	ErrSPITimeout = errcode.New(errcode.Timeout, "stm32h7.spi", "transfer")
	ErrADCTimeout = errcode.New(errcode.Timeout, "stm32h7.adc", "not ready")
	ErrADCChannel = errors.New("stm32h7: adc channel out of range")
)

// ----------------------------- TIM2 ------------------------------------------

const (
	timCR1  = tim2Base + 0x00
	timDIER = tim2Base + 0x0C
	timSR   = tim2Base + 0x10
	timEGR  = tim2Base + 0x14
	timPSC  = tim2Base + 0x28
	timARR  = tim2Base + 0x2C
)

type Timer struct{}

func (Timer) Configure(psc, arr uint32) error {
	reg(timCR1).ClearBits(1)
	reg(timPSC).Set(psc)
	reg(timARR).Set(arr)
	reg(timEGR).Set(1)
	reg(timSR).ClearBits(1)
	reg(timDIER).SetBits(1)
	return nil
}

func (Timer) Start() { reg(timCR1).SetBits(1) }

func (Timer) Expired() bool {
	if !reg(timSR).HasBits(1) {
		return false
	}
	reg(timSR).ClearBits(1)
	return true
}

// ----------------------------- SPI1 ------------------------------------------

const (
	spiCR1  = spi1Base + 0x00
	spiCFG1 = spi1Base + 0x08
	spiCFG2 = spi1Base + 0x0C
	spiSR   = spi1Base + 0x14
	spiTXDR = spi1Base + 0x20
	spiRXDR = spi1Base + 0x30

	cr1SPE    = 1 << 0
	cr1CSTART = 1 << 9
	cr1SSI    = 1 << 12
	srRXP     = 1 << 0
	srTXP     = 1 << 1

	cfg2Master = 1 << 22
	cfg2SSM    = 1 << 26
	cfg2AFCNTR = 1 << 31
)

type SPI struct{}

func (SPI) Configure(c system.SPIConfig) error {
	mbr := uint32(0)
	for c.KernelHz>>(mbr+1) > c.FreqHz {
		mbr++
		if mbr > 7 {
			return ErrSPIClock
		}
	}
	reg(spiCR1).ClearBits(cr1SPE)
	reg(spiCFG1).Set(mbr<<28 | 7) // 8-bit frames
	reg(spiCFG2).Set(cfg2Master | cfg2SSM | cfg2AFCNTR | uint32(c.Mode&3)<<24)
	reg(spiCR1).Set(cr1SSI)
	reg(spiCR1).SetBits(cr1SPE)
	reg(spiCR1).SetBits(cr1CSTART)
	return nil
}

func (SPI) Transfer(b byte) (byte, error) {
	if !spin(1<<16, func() bool { return reg(spiSR).HasBits(srTXP) }) {
		return 0, ErrSPITimeout
	}
	reg8(spiTXDR).Set(b)
	if !spin(1<<16, func() bool { return reg(spiSR).HasBits(srRXP) }) {
		return 0, ErrSPITimeout
	}
	return reg8(spiRXDR).Get(), nil
}

func (s SPI) Tx(w, r []byte) error {
	n := max(len(w), len(r))
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := s.Transfer(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

// ----------------------------- ADC1/ADC2 -------------------------------------

const (
	adcISR   = 0x00
	adcCR    = 0x08
	adcCFGR  = 0x0C
	adcSMPR1 = 0x14
	adcPCSEL = 0x1C
	adcSQR1  = 0x30
	adcDR    = 0x40

	isrADRDY = 1 << 0
	isrEOC   = 1 << 2

	crADEN     = 1 << 0
	crADSTART  = 1 << 2
	crADCALLIN = 1 << 16
	crADVREGEN = 1 << 28
	crDEEPPWD  = 1 << 29
	crADCAL    = 1 << 31

	adcCCR = adc12Base + 0x08
)

type ADC struct {
	base  uintptr
	delay system.Delay
}

func (a *ADC) Configure(kernelHz uint32) error {
	field(reg(adcCCR), 16, 2, 0) // asynchronous kernel clock, no prescaler
	cr := reg(a.base + adcCR)
	cr.ClearBits(crDEEPPWD)
	cr.SetBits(crADVREGEN)
	a.delay.DelayUs(10)

	boost := uint32(0)
	switch {
	case kernelHz > 25_000_000:
		boost = 3
	case kernelHz > 12_500_000:
		boost = 2
	case kernelHz > 6_250_000:
		boost = 1
	}
	field(cr, 8, 2, boost)

	cr.SetBits(crADCAL | crADCALLIN)
	if !spin(1<<20, func() bool { return !cr.HasBits(crADCAL) }) {
		return ErrADCTimeout
	}
	reg(a.base + adcISR).Set(isrADRDY)
	cr.SetBits(crADEN)
	if !spin(1<<20, func() bool { return reg(a.base + adcISR).HasBits(isrADRDY) }) {
		return ErrADCTimeout
	}
	field(reg(a.base+adcCFGR), 2, 3, 0) // 16-bit
	return nil
}

func (a *ADC) Read(ch uint8) (uint16, error) {
	if ch > 19 {
		return 0, ErrADCChannel
	}
	reg(a.base + adcPCSEL).SetBits(1 << ch)
	reg(a.base + adcSQR1).Set(uint32(ch) << 6)
	reg(a.base + adcCR).SetBits(crADSTART)
	if !spin(1<<16, func() bool { return reg(a.base + adcISR).HasBits(isrEOC) }) {
		return 0, ErrADCTimeout
	}
	return uint16(reg(a.base + adcDR).Get()), nil
}

// ----------------------------- Delay -----------------------------------------

// Delay busy-waits on the DWT cycle counter.
type Delay struct {
	SysHz uint32
}

func (d Delay) DelayUs(us uint32) {
	cyc := reg(dwtCyccnt)
	start := cyc.Get()
	n := uint32(uint64(us) * uint64(d.SysHz) / 1_000_000)
	for cyc.Get()-start < n {
	}
}

func (d Delay) DelayMs(ms uint32) {
	for ; ms > 0; ms-- {
		d.DelayUs(1000)
	}
}
