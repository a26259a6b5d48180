// Package sdram runs the JEDEC power-up sequence of an SDRAM device behind
// a memory controller and reports where the device is mapped.
//
//	base, size, err := sdram.Init(fmc, delay, sdram.AS4C16M32MSA, 200_000_000)
//
// The controller does the register work; this package only decides what
// to send and when.
package sdram

import (
	"errors"
)

// Command is a controller mode command.
type Command uint8

const (
	CmdNormal Command = iota
	CmdClockEnable
	CmdPrechargeAll
	CmdAutoRefresh
	CmdLoadMode
)

func (c Command) String() string {
	switch c {
	case CmdNormal:
		return "normal"
	case CmdClockEnable:
		return "clock_enable"
	case CmdPrechargeAll:
		return "precharge_all"
	case CmdAutoRefresh:
		return "auto_refresh"
	case CmdLoadMode:
		return "load_mode"
	default:
		return "?"
	}
}

// Errors returned by Init.
var (
	ErrClockTooFast = errors.New("sdram: controller clock above device maximum")
	ErrGeometry     = errors.New("sdram: invalid device geometry")
)

// Timing is expressed in SDRAM clock cycles unless noted.
type Timing struct {
	StartupDelayUs       uint32
	MaxClockHz           uint32
	RefreshPeriodNs      uint32 // per row
	ModeRegisterToActive uint8
	ExitSelfRefresh      uint8
	ActiveToPrecharge    uint8
	RowCycle             uint8
	RowPrecharge         uint8
	RowToColumn          uint8
	WriteRecovery        uint8
}

// Device describes one SDRAM chip.
type Device struct {
	Name       string
	Rows       uint8 // row address bits
	Columns    uint8 // column address bits
	Banks      uint8
	BusWidth   uint8 // data bits
	CASLatency uint8
	Timing     Timing
}

// SizeBytes returns the addressable size of the device.
func (d Device) SizeBytes() uint32 {
	return uint32(1) << (d.Rows + d.Columns) * uint32(d.Banks) * uint32(d.BusWidth/8)
}

// AS4C16M32MSA is the 64 MiB, 32-bit part fitted to the module.
var AS4C16M32MSA = Device{
	Name:       "as4c16m32msa",
	Rows:       13,
	Columns:    9,
	Banks:      4,
	BusWidth:   32,
	CASLatency: 3,
	Timing: Timing{
		StartupDelayUs:       200,
		MaxClockHz:           100_000_000,
		RefreshPeriodNs:      15_625,
		ModeRegisterToActive: 2,
		ExitSelfRefresh:      11,
		ActiveToPrecharge:    7,
		RowCycle:             8,
		RowPrecharge:         2,
		RowToColumn:          2,
		WriteRecovery:        3,
	},
}

// Controller is the memory controller bank the device is wired to.
type Controller interface {
	// Configure programs geometry, timing and the kernel-to-SDCLK divider.
	Configure(dev Device, clockDiv uint8, sdclkHz uint32) error
	// Command issues a mode command and waits for the controller to accept it.
	Command(cmd Command, autoRefresh uint8, modeRegister uint16) error
	SetRefreshCount(count uint32) error
	// Base is the address the bank is mapped at.
	Base() uint32
}

// Delay is a blocking microsecond delay.
type Delay interface {
	DelayUs(us uint32)
}

// Mode register bits.
const (
	modeBurstLength1     = 0x0000
	modeBurstSequential  = 0x0000
	modeCASShift         = 4
	modeStandard         = 0x0000
	modeWriteBurstSingle = 0x0200
	autoRefreshCycles    = 8
	refreshSafetyMargin  = 20
)

// ModeRegister returns the load-mode word: burst length 1, sequential,
// the device CAS latency, single-location write bursts.
func (d Device) ModeRegister() uint16 {
	return modeBurstLength1 | modeBurstSequential | uint16(d.CASLatency)<<modeCASShift |
		modeStandard | modeWriteBurstSingle
}

// RefreshCount returns the controller refresh timer for the given clock.
func (d Device) RefreshCount(sdclkHz uint32) uint32 {
	cycles := uint64(d.Timing.RefreshPeriodNs) * uint64(sdclkHz) / 1_000_000_000
	if cycles <= refreshSafetyMargin {
		return 0
	}
	return uint32(cycles) - refreshSafetyMargin
}

// ClockDiv picks the smallest kernel divider the controller supports that
// keeps SDCLK within the device maximum.
func ClockDiv(dev Device, kernelHz uint32) (div uint8, sdclkHz uint32, err error) {
	for _, d := range [...]uint8{2, 3} {
		hz := kernelHz / uint32(d)
		if hz > 0 && hz <= dev.Timing.MaxClockHz {
			return d, hz, nil
		}
	}
	return 0, 0, ErrClockTooFast
}

// Init powers the device up and returns its base address and size.
// kernelHz is the controller kernel clock.
func Init(c Controller, delay Delay, dev Device, kernelHz uint32) (base, size uint32, err error) {
	if dev.Banks == 0 || dev.BusWidth < 8 || dev.Rows == 0 || dev.Columns == 0 {
		return 0, 0, ErrGeometry
	}
	div, sdclkHz, err := ClockDiv(dev, kernelHz)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Configure(dev, div, sdclkHz); err != nil {
		return 0, 0, err
	}
	if err := c.Command(CmdClockEnable, 0, 0); err != nil {
		return 0, 0, err
	}
	delay.DelayUs(dev.Timing.StartupDelayUs)

	if err := c.Command(CmdPrechargeAll, 0, 0); err != nil {
		return 0, 0, err
	}
	if err := c.Command(CmdAutoRefresh, autoRefreshCycles, 0); err != nil {
		return 0, 0, err
	}
	if err := c.Command(CmdLoadMode, 0, dev.ModeRegister()); err != nil {
		return 0, 0, err
	}
	if err := c.SetRefreshCount(dev.RefreshCount(sdclkHz)); err != nil {
		return 0, 0, err
	}
	return c.Base(), dev.SizeBytes(), nil
}
