// Package system brings the board from reset to a running configuration:
// power, clocks, cycle counter, pins, external memory and its guard,
// general peripherals and finally the audio path.
//
// Init runs every phase in order and stops at the first failure. All plan
// checks, clock derivation included, happen in PhasePlan before any
// register is written, so a bad plan never leaves the board half
// configured.
package system

import (
	"time"

	"seed-go/audio"
	"seed-go/bus"
	"seed-go/clocktree"
	"seed-go/drivers/ak4556"
	"seed-go/drivers/sdram"
	"seed-go/drivers/wm8731"
	"seed-go/errcode"
	"seed-go/memguard"
	"seed-go/types"
	"seed-go/x/logx"
	"seed-go/x/timex"
)

// Diagnostic topics. Both are retained.
var (
	TopicBringup = bus.Topic{"system", "bringup"}
	TopicClocks  = bus.Topic{"system", "clocks"}
)

// System is the configured board. Everything in it is ready to use.
type System struct {
	GPIO      GPIO
	Audio     *audio.Path
	SDRAM     []uint32
	SDRAMBase uint32
	Guard     *memguard.Guard
	SPI       SPIBus
	Delay     Delay
	Timer     Timer
	ADC1      ADC
	ADC2      ADC
}

// resolved is what PhasePlan computes for later phases.
type resolved struct {
	clocks  clocktree.DerivedClocks
	region  memguard.Region
	audio   audio.Config
	psc     uint32
	arr     uint32
	arena   *audio.Arena
	sdramHz uint32
}

type bringup struct {
	p    *Peripherals
	plan types.BoardPlan
	o    options
	log  *logx.Logger
	r    resolved
}

// Init consumes p and runs bring-up against plan. It may be called once
// per Peripherals; a second call fails with already_initialized.
func Init(p *Peripherals, plan types.BoardPlan, opts ...Option) (*System, error) {
	o := defaults()
	for _, fn := range opts {
		fn(&o)
	}
	b := &bringup{p: p, plan: plan, o: o, log: o.log.With("system")}

	if p == nil {
		return nil, b.fail(PhasePlan, errcode.New(errcode.InvalidParams, "system.init", "nil peripherals"))
	}
	if !p.take() {
		return nil, b.fail(PhasePlan, errcode.New(errcode.AlreadyInitialized, "system.init", "peripherals already consumed"))
	}

	s := &System{}
	steps := [...]struct {
		ph Phase
		fn func(*System) error
	}{
		{PhasePlan, b.resolve},
		{PhasePower, b.power},
		{PhaseClocks, b.clocks},
		{PhaseCycleCounter, b.cycleCounter},
		{PhaseGPIO, b.gpio},
		{PhaseMemory, b.memory},
		{PhasePeripherals, b.peripherals},
		{PhaseAudio, b.audio},
	}
	for _, st := range steps {
		b.status(st.ph, types.StateRunning, nil)
		if err := st.fn(s); err != nil {
			return nil, b.fail(st.ph, err)
		}
		b.log.Debug("phase done", logx.Str("phase", st.ph.String()))
	}
	b.status(PhaseAudio, types.StateDone, nil)
	b.log.Info("bring-up complete",
		logx.U32("sys_hz", b.r.clocks.SysHz),
		logx.Hex("sdram", s.SDRAMBase),
		logx.U32("sdram_bytes", uint32(len(s.SDRAM))*4))
	return s, nil
}

func (b *bringup) fail(ph Phase, err error) error {
	be := &BringupError{Phase: ph, Err: err}
	b.status(ph, types.StateFailed, err)
	b.log.Error("bring-up failed",
		logx.Str("phase", ph.String()),
		logx.Str("class", be.Class().String()),
		logx.Err(err))
	return be
}

func (b *bringup) status(ph Phase, st types.BringupState, err error) {
	if b.o.conn == nil {
		return
	}
	v := types.BringupStatus{Phase: ph.String(), State: st}
	if err != nil {
		v.Code = string(errcode.Of(err))
		v.Msg = err.Error()
	}
	b.o.conn.Publish(b.o.conn.NewMessage(TopicBringup, v, true))
}

func (b *bringup) wait(what string, timeoutMs uint32, ready func() bool) error {
	if timex.WaitFor(b.o.clk, time.Duration(timeoutMs)*time.Millisecond, ready) {
		return nil
	}
	return &errcode.E{C: errcode.Timeout, Op: "system.wait", Msg: what}
}

// hardware keeps the code a platform error carries, so an expired ready
// wait stays a timeout, and marks anything uncoded fatal.
func hardware(op string, err error) error {
	c := errcode.Of(err)
	if c == errcode.Error {
		c = errcode.Fatal
	}
	return errcode.Wrap(c, op, err)
}

// ---------------------------------------------------------------------------
// Phases
// ---------------------------------------------------------------------------

func (b *bringup) resolve(*System) error {
	const op = "system.plan"
	if m := b.p.missing(); m != "" {
		return errcode.New(errcode.InvalidParams, op, "missing peripheral "+m)
	}
	plan := b.plan
	if err := plan.Validate(); err != nil {
		return err
	}
	if plan.Audio.BitDepth != audio.BitDepth {
		return errcode.New(errcode.InvalidParams, op, "audio path is 24-bit only")
	}

	d, err := clocktree.Derive(clocktree.ClockSpec{
		CrystalHz:     plan.CrystalHz,
		TargetSysHz:   plan.TargetSysHz,
		TargetAudioHz: plan.TargetAudioHz,
	})
	if err != nil {
		return err
	}
	b.r.clocks = d

	b.r.region = memguard.Region{Base: plan.SDRAM.Base, Size: plan.SDRAM.SizeBytes, Index: uint32(plan.SDRAM.Region)}
	if err := b.r.region.Validate(); err != nil {
		return err
	}
	if plan.SDRAM.SizeBytes > b.o.device.SizeBytes() {
		return errcode.New(errcode.InvalidSize, op, "guarded size exceeds "+b.o.device.Name)
	}
	if b.r.region.Aligned().Base != b.p.Device.SDRAM.Base() {
		return errcode.New(errcode.InvalidRegion, op, "sdram base does not match the controller mapping")
	}
	b.r.sdramHz = d.SysHz / uint32(BusPrescalers.AHB)
	if _, _, err := sdram.ClockDiv(b.o.device, b.r.sdramHz); err != nil {
		return errcode.Wrap(errcode.Unreachable, op, err)
	}

	b.r.audio = audio.Config{
		BlockSize:  uint32(plan.Audio.BlockSize),
		Channels:   uint32(plan.Audio.Channels),
		SampleRate: plan.TargetAudioHz,
	}
	if plan.Audio.BlockSize > audio.BlockSizeMax || plan.Audio.Channels > audio.Channels {
		return errcode.New(errcode.InvalidParams, op, "audio block exceeds arena")
	}

	psc, arr, err := timex.TimerDividers(d.TimerHz, time.Duration(plan.TimerPeriodMs)*time.Millisecond)
	if err != nil {
		return errcode.Wrap(errcode.InvalidParams, op, err)
	}
	b.r.psc, b.r.arr = psc, arr

	if plan.SPI.FreqHz > d.PLL1QHz/2 {
		return errcode.New(errcode.InvalidParams, op, "spi frequency above kernel/2")
	}

	if plan.Audio.Codec == types.CodecWM8731 && b.o.codec == nil && b.p.Device.I2C == nil {
		return errcode.New(errcode.InvalidParams, op, "wm8731 needs an I2C bus")
	}

	arena := b.o.arena
	if arena == nil {
		var ok bool
		if arena, ok = audio.TakeArena(); !ok {
			return errcode.New(errcode.AlreadyInitialized, op, "audio arena already taken")
		}
	}
	if err := arena.Validate(b.o.windows...); err != nil {
		return err
	}
	b.r.arena = arena

	d.LogTo(b.log)
	return nil
}

func (b *bringup) power(*System) error {
	pwr := b.p.Device.PWR
	pwr.SupplyLDO()
	if err := pwr.SetVoltageScale(ScaleFor(b.r.clocks.SysHz)); err != nil {
		return hardware("system.power", err)
	}
	return b.wait("voltage scale ready", b.plan.ReadyTimeoutMs, pwr.VoltageReady)
}

func (b *bringup) clocks(*System) error {
	rcc := b.p.Device.RCC
	d := b.r.clocks

	rcc.EnableHSE(b.plan.CrystalHz)
	if err := b.wait("HSE ready", b.plan.ReadyTimeoutMs, rcc.HSEReady); err != nil {
		return err
	}
	for _, pll := range [...]struct {
		n    PLL
		cfg  clocktree.PLLConfig
		name string
	}{
		{PLL1, d.PLL1, "PLL1 lock"},
		{PLL2, d.PLL2, "PLL2 lock"},
		{PLL3, d.PLL3, "PLL3 lock"},
	} {
		rcc.ConfigurePLL(pll.n, pll.cfg)
		rcc.EnablePLL(pll.n)
		n := pll.n
		if err := b.wait(pll.name, b.plan.PLLLockTimeoutMs, func() bool { return rcc.PLLLocked(n) }); err != nil {
			return err
		}
	}

	ahb := d.SysHz / uint32(BusPrescalers.AHB)
	if err := rcc.SetFlashLatency(ahb, ScaleFor(d.SysHz)); err != nil {
		return hardware("system.clocks", err)
	}
	rcc.SetPrescalers(BusPrescalers)
	rcc.SelectSysPLL1()
	if err := b.wait("system clock switch", b.plan.ReadyTimeoutMs, rcc.SysIsPLL1); err != nil {
		return err
	}
	rcc.RouteKernelClocks()
	rcc.EnablePeripheralClocks()

	if c := b.o.conn; c != nil {
		c.Publish(c.NewMessage(TopicClocks, types.ClockSummary{
			SysHz:        d.SysHz,
			PeripheralHz: d.PeripheralHz,
			AudioHz:      d.PLL3PHz,
			TimerHz:      d.TimerHz,
		}, true))
	}
	return nil
}

func (b *bringup) cycleCounter(*System) error {
	b.p.Core.DWT.EnableCycleCounter()
	return nil
}

func (b *bringup) gpio(s *System) error {
	g, err := b.p.Device.GPIO.Configure()
	if err != nil {
		return hardware("system.gpio", err)
	}
	if err := b.p.Device.GPIO.ConfigureFMC(); err != nil {
		return hardware("system.gpio", err)
	}
	b.p.Core.Cache.EnableICache()
	s.GPIO = g
	return nil
}

func (b *bringup) memory(s *System) error {
	const op = "system.memory"
	port := b.p.Device.SDRAM
	base, size, err := sdram.Init(port, b.p.Device.Delay, b.o.device, b.r.sdramHz)
	if err != nil {
		return hardware(op, err)
	}
	if base != b.r.region.Aligned().Base {
		return errcode.New(errcode.InvalidRegion, op, "sdram mapped away from planned base")
	}

	g := memguard.New(b.p.Core.MPU)
	if err := g.Protect(b.r.region); err != nil {
		return err
	}
	s.Guard = g
	s.SDRAMBase = base
	s.SDRAM = port.Words(base, min(size, b.r.region.Size))
	b.log.Info("sdram guarded",
		logx.Hex("base", base),
		logx.U32("bytes", b.r.region.Size),
		logx.U32("region", b.r.region.Index))
	return nil
}

func (b *bringup) peripherals(s *System) error {
	const op = "system.peripherals"
	dev := b.p.Device
	d := b.r.clocks

	if err := dev.TIM2.Configure(b.r.psc, b.r.arr); err != nil {
		return hardware(op, err)
	}
	dev.TIM2.Start()

	if err := dev.SPI1.Configure(SPIConfig{KernelHz: d.PLL1QHz, FreqHz: b.plan.SPI.FreqHz, Mode: b.plan.SPI.Mode}); err != nil {
		return hardware(op, err)
	}
	for _, adc := range [...]ADC{dev.ADC1, dev.ADC2} {
		if err := adc.Configure(d.PLL2PHz); err != nil {
			return hardware(op, err)
		}
	}
	s.Timer, s.SPI, s.ADC1, s.ADC2, s.Delay = dev.TIM2, dev.SPI1, dev.ADC1, dev.ADC2, dev.Delay
	return nil
}

func (b *bringup) audio(s *System) error {
	codec := b.o.codec
	if codec == nil {
		switch b.plan.Audio.Codec {
		case types.CodecWM8731:
			codec = wm8731.New(b.p.Device.I2C)
		default:
			codec = ak4556.New(s.GPIO.CodecReset, b.p.Device.Delay)
		}
	}
	path, err := audio.New(b.r.audio, b.r.clocks.PLL3PHz, b.p.Device.SAI, codec, b.r.arena)
	if err != nil {
		return err
	}
	s.Audio = path
	return nil
}
