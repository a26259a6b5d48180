//go:build tinygo && stm32h7

package stm32h7

import (
	"unsafe"

	"seed-go/drivers/sdram"
	"seed-go/errcode"
)

var ErrFMCBusy = errcode.New(errcode.Timeout, "stm32h7.fmc", "controller busy")

const (
	fmcBCR1  = fmcBase + 0x000
	fmcSDCR1 = fmcBase + 0x140
	fmcSDTR1 = fmcBase + 0x148
	fmcSDCMR = fmcBase + 0x150
	fmcSDRTR = fmcBase + 0x154
	fmcSDSR  = fmcBase + 0x158

	bcrFMCEN   = 1 << 31
	sdsrBusy   = 1 << 5
	sdcmrBank1 = 1 << 4

	sdramBank1 = 0xC000_0000
)

var sdcmrMode = map[sdram.Command]uint32{
	sdram.CmdNormal:       0,
	sdram.CmdClockEnable:  1,
	sdram.CmdPrechargeAll: 2,
	sdram.CmdAutoRefresh:  3,
	sdram.CmdLoadMode:     4,
}

// FMC drives SDRAM bank 1.
type FMC struct{}

func (FMC) Configure(dev sdram.Device, div uint8, _ uint32) error {
	mwid := uint32(0)
	switch dev.BusWidth {
	case 16:
		mwid = 1
	case 32:
		mwid = 2
	}
	nb := uint32(0)
	if dev.Banks == 4 {
		nb = 1
	}
	cr := uint32(dev.Columns-8) | uint32(dev.Rows-11)<<2 | mwid<<4 | nb<<6 |
		uint32(dev.CASLatency)<<7 | uint32(div)<<10 | 1<<12
	reg(fmcSDCR1).Set(cr)

	t := dev.Timing
	tr := uint32(t.ModeRegisterToActive-1) |
		uint32(t.ExitSelfRefresh-1)<<4 |
		uint32(t.ActiveToPrecharge-1)<<8 |
		uint32(t.RowCycle-1)<<12 |
		uint32(t.WriteRecovery-1)<<16 |
		uint32(t.RowPrecharge-1)<<20 |
		uint32(t.RowToColumn-1)<<24
	reg(fmcSDTR1).Set(tr)
	reg(fmcBCR1).SetBits(bcrFMCEN)
	return nil
}

func idle() bool { return !reg(fmcSDSR).HasBits(sdsrBusy) }

func (FMC) Command(cmd sdram.Command, autoRefresh uint8, mode uint16) error {
	if !spin(1<<16, idle) {
		return ErrFMCBusy
	}
	v := sdcmrMode[cmd] | sdcmrBank1 | uint32(mode)<<9
	if autoRefresh > 0 {
		v |= uint32(autoRefresh-1) << 5
	}
	reg(fmcSDCMR).Set(v)
	if !spin(1<<16, idle) {
		return ErrFMCBusy
	}
	return nil
}

func (FMC) SetRefreshCount(n uint32) error {
	field(reg(fmcSDRTR), 1, 13, n)
	return nil
}

func (FMC) Base() uint32 { return sdramBank1 }

// Words maps the SDRAM window as a word slice.
func (FMC) Words(base, sizeBytes uint32) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(uintptr(base))), sizeBytes/4)
}
