package system

import (
	"seed-go/errcode"
)

// Phase is a bring-up step, in execution order.
type Phase uint8

const (
	PhasePlan Phase = iota
	PhasePower
	PhaseClocks
	PhaseCycleCounter
	PhaseGPIO
	PhaseMemory
	PhasePeripherals
	PhaseAudio
	phaseCount
)

var phaseNames = [phaseCount]string{
	"plan", "power", "clocks", "cycle_counter", "gpio", "memory", "peripherals", "audio",
}

func (p Phase) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return "?"
}

// BringupError records the phase a bring-up failure happened in.
type BringupError struct {
	Phase Phase
	Err   error
}

func (e *BringupError) Error() string {
	return "bringup " + e.Phase.String() + ": " + e.Err.Error()
}

func (e *BringupError) Unwrap() error { return e.Err }

// Mutated reports whether hardware had been written when the failure
// happened. Nothing is written during PhasePlan.
func (e *BringupError) Mutated() bool { return e.Phase > PhasePlan }

// Class places the failure in the bring-up taxonomy. A configuration error
// after hardware mutation began is fatal; timeouts keep their own class.
func (e *BringupError) Class() errcode.Class {
	c := errcode.ClassOf(e.Err)
	if c == errcode.ClassConfiguration && e.Mutated() {
		return errcode.ClassFatal
	}
	return c
}
