package sim

import (
	"time"

	"seed-go/audio"
	"seed-go/system"
	"seed-go/x/timex"
)

// Board is a complete simulated module.
type Board struct {
	Trace *Trace
	Clock *timex.Fake

	MPU   *MPU
	DWT   *DWT
	Cache *Cache
	PWR   *Power
	RCC   *RCC
	GPIO  *GPIO
	FMC   *FMC
	SAI   *SAI
	I2C   *I2C
	TIM2  *Timer
	SPI1  *SPI
	ADC1  *ADC
	ADC2  *ADC
	Delay *Delay
}

// NewBoard returns a board whose clock advances 1 ms per read, so every
// bounded wait finishes quickly.
func NewBoard() *Board {
	t := &Trace{}
	clk := timex.NewFake(time.Millisecond)
	return &Board{
		Trace: t,
		Clock: clk,
		MPU:   &MPU{Trace: t},
		DWT:   &DWT{Trace: t},
		Cache: &Cache{Trace: t},
		PWR:   &Power{Trace: t},
		RCC:   &RCC{Trace: t},
		GPIO:  &GPIO{Trace: t},
		FMC:   &FMC{Trace: t},
		SAI:   &SAI{Trace: t},
		I2C:   &I2C{Trace: t},
		TIM2:  &Timer{Trace: t},
		SPI1:  &SPI{Trace: t},
		ADC1:  &ADC{Trace: t, Name: "adc1"},
		ADC2:  &ADC{Trace: t, Name: "adc2"},
		Delay: &Delay{Clock: clk},
	}
}

// Peripherals packages the board for system.Init.
func (b *Board) Peripherals() *system.Peripherals {
	return system.NewPeripherals(
		system.Core{MPU: b.MPU, DWT: b.DWT, Cache: b.Cache},
		system.Device{
			PWR:   b.PWR,
			RCC:   b.RCC,
			GPIO:  b.GPIO,
			SDRAM: b.FMC,
			SAI:   b.SAI,
			I2C:   b.I2C,
			TIM2:  b.TIM2,
			SPI1:  b.SPI1,
			ADC1:  b.ADC1,
			ADC2:  b.ADC2,
			Delay: b.Delay,
		},
	)
}

// Options returns the Init options that keep bring-up on the board's
// clock and off the process-wide audio arena.
func (b *Board) Options() []system.Option {
	return []system.Option{system.WithClock(b.Clock), system.WithArena(audio.NewArena())}
}
