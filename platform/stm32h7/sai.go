//go:build tinygo && stm32h7

package stm32h7

import (
	"errors"
	"runtime/interrupt"
	"unsafe"

	"seed-go/audio"
	"seed-go/errcode"
)

var (
	ErrSAIStarted = errors.New("stm32h7: sai already started")
	ErrSAIFormat  = errors.New("stm32h7: unsupported sai format")

	errStreamBusy = errcode.New(errcode.Timeout, "stm32h7.dma", "stream did not disable")
)

const (
	saiA = sai1Base + 0x04
	saiB = sai1Base + 0x24

	saiCR1   = 0x00
	saiCR2   = 0x04
	saiFRCR  = 0x08
	saiSLOTR = 0x0C
	saiDR    = 0x1C

	cr1SAIEN = 1 << 16
	cr1DMAEN = 1 << 17
	cr1MCKEN = 1 << 27

	modeMasterTx = 0
	modeSlaveRx  = 3
	syncInternal = 1

	cr2FIFOQuarter = 1

	dmaLISR  = dma1Base + 0x00
	dmaLIFCR = dma1Base + 0x08

	dmaEN    = 1 << 0
	dmaTEIE  = 1 << 2
	dmaHTIE  = 1 << 3
	dmaTCIE  = 1 << 4
	dmaM2P   = 1 << 6
	dmaCIRC  = 1 << 8
	dmaMINC  = 1 << 10
	dmaWords = 2<<11 | 2<<13
	dmaPLVH  = 3 << 16

	reqSAI1A = 87
	reqSAI1B = 88

	irqDMA1Stream1 = 12
)

func stream(n uintptr) uintptr { return dma1Base + 0x10 + 0x18*n }

var dsBits = map[uint8]uint32{16: 4, 24: 6, 32: 7}

// active is the started SAI; the stream 1 interrupt dispatches through it.
var active *SAI

// SAI is SAI1 with block A transmitting as master and block B receiving
// in sync, each on a circular DMA1 stream.
type SAI struct {
	started bool
	onEvent func(audio.Event)
}

// OnEvent routes DMA completions. Call it before Start.
func (s *SAI) OnEvent(fn func(audio.Event)) { s.onEvent = fn }

func (s *SAI) Configure(cfg audio.SAIConfig) error {
	ds, ok := dsBits[cfg.BitDepth]
	if !ok || cfg.Slots == 0 || cfg.SampleRate == 0 {
		return ErrSAIFormat
	}
	mckdiv := cfg.KernelHz / (cfg.SampleRate * 256)

	fsoff := uint32(0)
	if cfg.FirstBitOffset != 0 {
		fsoff = 1
	}
	fspol := uint32(0)
	if cfg.FrameSyncActiveHigh {
		fspol = 1
	}
	frcr := uint32(63) | 31<<8 | 1<<16 | fspol<<17 | fsoff<<18
	slotr := uint32(2)<<6 | uint32(cfg.Slots-1)<<8 | (uint32(1)<<cfg.Slots-1)<<16

	for _, blk := range [...]struct {
		base uintptr
		cr1  uint32
	}{
		{saiA, modeMasterTx | ds<<5 | mckdiv<<20 | cr1MCKEN},
		{saiB, modeSlaveRx | ds<<5 | syncInternal<<10},
	} {
		reg(blk.base + saiCR1).ClearBits(cr1SAIEN)
		reg(blk.base + saiCR1).Set(blk.cr1)
		reg(blk.base + saiCR2).Set(cr2FIFOQuarter)
		reg(blk.base + saiFRCR).Set(frcr)
		reg(blk.base + saiSLOTR).Set(slotr)
	}
	return nil
}

func (s *SAI) Start(tx, rx []uint32) error {
	if s.started || active != nil {
		return ErrSAIStarted
	}

	if err := setupStream(0, reqSAI1A, saiA+saiDR, tx, dmaM2P); err != nil {
		return err
	}
	if err := setupStream(1, reqSAI1B, saiB+saiDR, rx, dmaHTIE|dmaTCIE|dmaTEIE); err != nil {
		return err
	}

	s.started = true
	active = s
	irq := interrupt.New(irqDMA1Stream1, dmaRxISR)
	irq.Enable()

	reg(stream(0)).SetBits(dmaEN)
	reg(stream(1)).SetBits(dmaEN)
	reg(saiB + saiCR1).SetBits(cr1DMAEN | cr1SAIEN)
	reg(saiA + saiCR1).SetBits(cr1DMAEN | cr1SAIEN)
	return nil
}

func setupStream(n uintptr, req uint32, periph uintptr, buf []uint32, flags uint32) error {
	s := stream(n)
	reg(s).ClearBits(dmaEN)
	if !spin(1<<10, func() bool { return !reg(s).HasBits(dmaEN) }) {
		return errStreamBusy
	}
	reg(dmamuxBase + 4*n).Set(req)
	reg(s + 0x04).Set(uint32(len(buf)))
	reg(s + 0x08).Set(uint32(periph))
	reg(s + 0x0C).Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
	reg(s).Set(flags | dmaCIRC | dmaMINC | dmaWords | dmaPLVH)
	return nil
}

// Stream 1 flags sit at bit 6 of LISR.
const (
	rxTEIF = 1 << 9
	rxHTIF = 1 << 10
	rxTCIF = 1 << 11
)

var errTransfer = errors.New("stm32h7: dma transfer error")

func dmaRxISR(interrupt.Interrupt) {
	isr := reg(dmaLISR).Get()
	reg(dmaLIFCR).Set(isr & (rxTEIF | rxHTIF | rxTCIF))
	s := active
	if s == nil || s.onEvent == nil {
		return
	}
	fn := s.onEvent
	var err error
	if isr&rxTEIF != 0 {
		err = errTransfer
	}
	if isr&rxHTIF != 0 {
		fn(audio.Event{Half: 0, Err: err})
		err = nil
	}
	if isr&rxTCIF != 0 {
		fn(audio.Event{Half: 1, Err: err})
	}
}
