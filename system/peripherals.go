package system

import (
	"sync/atomic"

	"seed-go/audio"
	"seed-go/clocktree"
	"seed-go/drivers/sdram"
	"seed-go/memguard"

	"tinygo.org/x/drivers"
)

// ---------------------------------------------------------------------------
// Capabilities
// ---------------------------------------------------------------------------

// Pin is a configured digital output.
type Pin interface {
	Set(high bool)
	Get() bool
	Toggle()
}

// VoltageScale is the core regulator scale. Lower numbers allow faster clocks.
type VoltageScale uint8

const (
	VOS0 VoltageScale = iota
	VOS1
	VOS2
	VOS3
)

// ScaleFor returns the weakest regulator scale that supports sysHz.
func ScaleFor(sysHz uint32) VoltageScale {
	switch {
	case sysHz <= 200_000_000:
		return VOS3
	case sysHz <= 300_000_000:
		return VOS2
	case sysHz <= 400_000_000:
		return VOS1
	default:
		return VOS0
	}
}

type PowerController interface {
	// SupplyLDO selects the internal regulator as core supply.
	SupplyLDO()
	// SetVoltageScale requests vos. VOS0 waits internally for VOS1 to
	// settle before engaging overdrive and fails with a timeout if it
	// never does.
	SetVoltageScale(vos VoltageScale) error
	VoltageReady() bool
}

type PLL uint8

const (
	PLL1 PLL = 1 + iota
	PLL2
	PLL3
)

// Prescalers divide the system clock down to the bus clocks.
type Prescalers struct {
	AHB uint8 // system to AXI/AHB
	APB uint8 // AHB to every APB domain
}

// BusPrescalers keeps AHB at or below 240 MHz and APB at a quarter of sysHz.
var BusPrescalers = Prescalers{AHB: 2, APB: 2}

type ClockController interface {
	EnableHSE(crystalHz uint32)
	HSEReady() bool
	ConfigurePLL(n PLL, cfg clocktree.PLLConfig)
	EnablePLL(n PLL)
	PLLLocked(n PLL) bool
	// SetFlashLatency programs wait states for ahbHz and fails with a
	// timeout if the readback never matches.
	SetFlashLatency(ahbHz uint32, vos VoltageScale) error
	SetPrescalers(p Prescalers)
	SelectSysPLL1()
	SysIsPLL1() bool
	// RouteKernelClocks selects PLL3 P for the SAI, PLL2 P for the ADCs
	// and PLL1 Q for SPI.
	RouteKernelClocks()
	// EnablePeripheralClocks gates on GPIO, FMC, SAI, DMA, TIM2, SPI1 and ADC12.
	EnablePeripheralClocks()
}

type CycleCounter interface {
	EnableCycleCounter()
}

type Cache interface {
	EnableICache()
}

// GPIO holds the pins bring-up hands to the application.
type GPIO struct {
	LED        Pin
	CodecReset Pin
	Header     [32]Pin // unused header pins are nil
}

type GPIOPort interface {
	// Configure enables the banks and returns the board pins.
	Configure() (GPIO, error)
	// ConfigureFMC muxes the SDRAM data, address and control pins.
	ConfigureFMC() error
}

// SDRAMPort is the FMC SDRAM bank plus the mapping of its address window.
type SDRAMPort interface {
	sdram.Controller
	Words(base, size uint32) []uint32
}

type Timer interface {
	Configure(psc, arr uint32) error
	Start()
	// Expired reports and clears a pending update event.
	Expired() bool
}

type SPIConfig struct {
	KernelHz uint32
	FreqHz   uint32
	Mode     uint8
}

type SPIBus interface {
	drivers.SPI
	Configure(cfg SPIConfig) error
}

type ADC interface {
	Configure(kernelHz uint32) error
	Read(channel uint8) (uint16, error)
}

type Delay interface {
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// ---------------------------------------------------------------------------
// Peripherals
// ---------------------------------------------------------------------------

// Core is the processor-level register blocks.
type Core struct {
	MPU   memguard.Hardware
	DWT   CycleCounter
	Cache Cache
}

// Device is the vendor peripheral set. I2C is only needed for codecs with
// a control bus.
type Device struct {
	PWR   PowerController
	RCC   ClockController
	GPIO  GPIOPort
	SDRAM SDRAMPort
	SAI   audio.SAI
	I2C   drivers.I2C
	TIM2  Timer
	SPI1  SPIBus
	ADC1  ADC
	ADC2  ADC
	Delay Delay
}

// Peripherals is the singleton handle set. Init consumes it.
type Peripherals struct {
	Core   Core
	Device Device

	taken atomic.Bool
}

func NewPeripherals(core Core, dev Device) *Peripherals {
	return &Peripherals{Core: core, Device: dev}
}

func (p *Peripherals) take() bool { return p.taken.CompareAndSwap(false, true) }

func (p *Peripherals) missing() string {
	switch {
	case p.Core.MPU == nil:
		return "MPU"
	case p.Core.DWT == nil:
		return "DWT"
	case p.Core.Cache == nil:
		return "cache"
	case p.Device.PWR == nil:
		return "PWR"
	case p.Device.RCC == nil:
		return "RCC"
	case p.Device.GPIO == nil:
		return "GPIO"
	case p.Device.SDRAM == nil:
		return "SDRAM"
	case p.Device.SAI == nil:
		return "SAI"
	case p.Device.TIM2 == nil:
		return "TIM2"
	case p.Device.SPI1 == nil:
		return "SPI1"
	case p.Device.ADC1 == nil || p.Device.ADC2 == nil:
		return "ADC"
	case p.Device.Delay == nil:
		return "delay"
	}
	return ""
}
