package sim

import (
	"seed-go/drivers/sdram"
	"seed-go/errcode"
)

// ErrFMCBusy is the controller never going idle around a command.
var ErrFMCBusy = errcode.New(errcode.Timeout, "sim.fmc", "controller busy")

// SDRAMBase is where bank 1 of the FMC maps SDRAM.
const SDRAMBase = 0xC000_0000

// FMC models the SDRAM controller. Memory is allocated on first Words call.
// BusyOn makes one command fail as if the controller never went idle.
type FMC struct {
	Trace  *Trace
	BusyOn sdram.Command
	Busy   bool

	Div     uint8
	SDCLKHz uint32
	Refresh uint32
	Mode    uint16
	mem     []uint32
}

func (f *FMC) Configure(dev sdram.Device, div uint8, sdclkHz uint32) error {
	f.Div, f.SDCLKHz = div, sdclkHz
	f.Trace.add("fmc configure " + dev.Name)
	return nil
}

func (f *FMC) Command(cmd sdram.Command, autoRefresh uint8, mode uint16) error {
	if f.Busy && cmd == f.BusyOn {
		return ErrFMCBusy
	}
	if cmd == sdram.CmdLoadMode {
		f.Mode = mode
	}
	f.Trace.add("fmc " + cmd.String())
	return nil
}

func (f *FMC) SetRefreshCount(n uint32) error {
	f.Refresh = n
	f.Trace.add("fmc refresh")
	return nil
}

func (f *FMC) Base() uint32 { return SDRAMBase }

// Words returns sizeBytes of backing memory as 32-bit words.
func (f *FMC) Words(base, sizeBytes uint32) []uint32 {
	n := int(sizeBytes / 4)
	if len(f.mem) < n {
		f.mem = make([]uint32, n)
	}
	return f.mem[:n:n]
}
