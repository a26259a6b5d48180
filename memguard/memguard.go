// Package memguard enables one memory protection unit region over an
// external memory device.
//
// The region geometry is checked before any register is touched. The
// commit sequence then runs with fault reporting and the protection unit
// disabled, and finishes with data and instruction barriers so the new
// mapping is visible before the next access to the region.
package memguard

import (
	"strconv"
	"sync"

	"seed-go/errcode"
	"seed-go/x/mathx"
)

// Reg names a register of the system control block / MPU.
type Reg uint8

const (
	SHCSR Reg = iota // system handler control and state
	CTRL             // MPU control
	RNR              // region number
	RBAR             // region base address
	RASR             // region attribute and size
)

func (r Reg) String() string {
	switch r {
	case SHCSR:
		return "SHCSR"
	case CTRL:
		return "MPU_CTRL"
	case RNR:
		return "MPU_RNR"
	case RBAR:
		return "MPU_RBAR"
	case RASR:
		return "MPU_RASR"
	default:
		return "?"
	}
}

// Hardware is the capability over the SCB/MPU register block. Platform
// code provides the real one; tests use a recording model.
type Hardware interface {
	Get(r Reg) uint32
	Set(r Reg, v uint32)
	// DMB completes outstanding memory transfers.
	DMB()
	// DSB waits for all memory accesses to complete.
	DSB()
	// ISB flushes the pipeline.
	ISB()
}

// ARMv7-M Architecture Reference Manual (DDI 0403E.b), B3.5.
const (
	MemFaultEnable = 1 << 16 // SHCSR.MEMFAULTENA

	CtrlEnable     = 0x01
	CtrlPrivDefEna = 0x04

	RegionEnable    = 0x01
	APFullAccess    = 0x03
	apShift         = 24
	sizeShift       = 1
	AlignMask       = 0x1F
	MinSize         = 32
	NumRegions      = 16
	baseAddressMask = ^uint32(AlignMask)
	sizeFieldMask   = 0x1F
)

// Region describes the guarded range.
type Region struct {
	Base  uint32
	Size  uint32
	Index uint32
}

const op = "memguard.protect"

// Validate checks the geometry without touching hardware.
func (r Region) Validate() error {
	if !mathx.IsPow2(r.Size) {
		return &errcode.E{C: errcode.InvalidSize, Op: op, Msg: strconv.FormatUint(uint64(r.Size), 10) + " is not a power of two"}
	}
	if r.Size < MinSize {
		return &errcode.E{C: errcode.InvalidSize, Op: op, Msg: "region must be 32 bytes or more"}
	}
	if r.Index >= NumRegions {
		return &errcode.E{C: errcode.InvalidRegion, Op: op, Msg: "region number " + strconv.FormatUint(uint64(r.Index), 10) + " out of range"}
	}
	return nil
}

// Aligned returns the region with its base masked down to 32 bytes.
func (r Region) Aligned() Region {
	r.Base &= baseAddressMask
	return r
}

// SizeField returns the encoded RASR size, log2(size)-1.
func (r Region) SizeField() uint32 {
	return uint32(mathx.Log2(r.Size)-1) & sizeFieldMask
}

// EncodeRASR returns the attribute/size word for a valid region:
// full access, strongly ordered, enabled.
func EncodeRASR(r Region) uint32 {
	return APFullAccess<<apShift | r.SizeField()<<sizeShift | RegionEnable
}

// Guard commits a single protection region. It is single-use: the region
// it installs stays for the life of the process.
type Guard struct {
	hw Hardware

	mu        sync.Mutex
	committed bool
	region    Region
}

// New wraps the SCB/MPU capability.
func New(hw Hardware) *Guard {
	return &Guard{hw: hw}
}

// Protect validates r and installs it as the only configured region.
// Geometry errors leave the hardware untouched. A readback mismatch after
// the descriptor write is reported as verify_failed and is not retried.
func (g *Guard) Protect(r Region) error {
	if err := r.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.committed {
		return &errcode.E{C: errcode.AlreadyInitialized, Op: op, Msg: "region already committed"}
	}

	r = r.Aligned()
	rasr := EncodeRASR(r)
	hw := g.hw

	hw.DMB()
	hw.Set(SHCSR, hw.Get(SHCSR)&^MemFaultEnable)
	hw.Set(CTRL, 0)

	hw.Set(RNR, r.Index)
	hw.Set(RBAR, r.Base)
	hw.Set(RASR, rasr)

	hw.Set(CTRL, hw.Get(CTRL)|CtrlPrivDefEna|CtrlEnable)
	hw.Set(SHCSR, hw.Get(SHCSR)|MemFaultEnable)
	hw.DSB()
	hw.ISB()

	// Protection state is all-or-nothing from here on.
	g.committed = true
	g.region = r

	if hw.Get(RBAR)&baseAddressMask != r.Base || hw.Get(RASR) != rasr {
		return &errcode.E{C: errcode.VerifyFailed, Op: op, Msg: "region descriptor readback mismatch"}
	}
	return nil
}

// Committed returns the region as written to hardware.
func (g *Guard) Committed() (Region, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.region, g.committed
}
