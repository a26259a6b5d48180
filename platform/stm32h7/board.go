//go:build tinygo && stm32h7

package stm32h7

import (
	"seed-go/audio"
	"seed-go/system"
	"seed-go/types"
)

// Board owns the concrete register blocks of the module.
type Board struct {
	SAI *SAI
}

// Take returns the board peripherals for plan. The delay runs off the
// cycle counter at the planned core clock, so it is only valid after the
// clock phase of bring-up.
func Take(plan types.BoardPlan) (*Board, *system.Peripherals) {
	delay := Delay{SysHz: plan.TargetSysHz}
	b := &Board{SAI: &SAI{}}
	p := system.NewPeripherals(
		system.Core{MPU: MPU{}, DWT: DWT{}, Cache: Cache{}},
		system.Device{
			PWR:   Power{},
			RCC:   RCC{},
			GPIO:  GPIO{},
			SDRAM: FMC{},
			SAI:   b.SAI,
			TIM2:  Timer{},
			SPI1:  SPI{},
			ADC1:  &ADC{base: adc1Base, delay: delay},
			ADC2:  &ADC{base: adc2Base, delay: delay},
			Delay: delay,
		},
	)
	return b, p
}

// DMAWindows lists the memory the DMA engines can reach.
func DMAWindows() []audio.DMAWindow {
	return []audio.DMAWindow{
		{Base: AXISRAMBase, Size: AXISRAMSize},
		{Base: D2SRAMBase, Size: D2SRAMSize},
	}
}
