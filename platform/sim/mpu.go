package sim

import (
	"seed-go/memguard"
)

// MPU is a register-level model of the SCB/MPU block. When Corrupt is set,
// RASR reads back with the enable bit cleared.
type MPU struct {
	Trace   *Trace
	Corrupt bool

	regs    [memguard.RASR + 1]uint32
	regions [memguard.NumRegions]struct{ rbar, rasr uint32 }
}

func (m *MPU) Get(r memguard.Reg) uint32 {
	switch r {
	case memguard.RBAR:
		return m.regions[m.regs[memguard.RNR]%memguard.NumRegions].rbar
	case memguard.RASR:
		v := m.regions[m.regs[memguard.RNR]%memguard.NumRegions].rasr
		if m.Corrupt {
			v &^= memguard.RegionEnable
		}
		return v
	}
	return m.regs[r]
}

func (m *MPU) Set(r memguard.Reg, v uint32) {
	m.Trace.add("mpu " + r.String() + "=" + hex(v))
	switch r {
	case memguard.RBAR:
		m.regions[m.regs[memguard.RNR]%memguard.NumRegions].rbar = v
	case memguard.RASR:
		m.regions[m.regs[memguard.RNR]%memguard.NumRegions].rasr = v
	default:
		m.regs[r] = v
	}
}

func (m *MPU) DMB() { m.Trace.add("mpu DMB") }
func (m *MPU) DSB() { m.Trace.add("mpu DSB") }
func (m *MPU) ISB() { m.Trace.add("mpu ISB") }

// Region returns the descriptor stored for region n.
func (m *MPU) Region(n uint32) (rbar, rasr uint32) {
	r := m.regions[n%memguard.NumRegions]
	return r.rbar, r.rasr
}

// Enabled reports whether the MPU and MemManage faults are both on.
func (m *MPU) Enabled() bool {
	return m.regs[memguard.CTRL]&memguard.CtrlEnable != 0 &&
		m.regs[memguard.SHCSR]&memguard.MemFaultEnable != 0
}
