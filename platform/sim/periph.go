package sim

import (
	"errors"
	"sync"
	"time"

	"seed-go/errcode"
	"seed-go/system"
	"seed-go/x/timex"
)

var ErrNotConfigured = errors.New("sim: peripheral not configured")

// Timer models TIM2. Tick raises an update event.
type Timer struct {
	Trace    *Trace
	PSC, ARR uint32
	running  bool
	pending  bool
	mu       sync.Mutex
}

func (t *Timer) Configure(psc, arr uint32) error {
	t.mu.Lock()
	t.PSC, t.ARR = psc, arr
	t.mu.Unlock()
	t.Trace.add("tim2 configure")
	return nil
}

func (t *Timer) Start() {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
	t.Trace.add("tim2 start")
}

func (t *Timer) Tick() {
	t.mu.Lock()
	if t.running {
		t.pending = true
	}
	t.mu.Unlock()
}

func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.pending
	t.pending = false
	return p
}

// PeriodAt returns the overflow period for a timer kernel clock.
func (t *Timer) PeriodAt(kernelHz uint32) time.Duration {
	ticks := uint64(t.PSC+1) * uint64(t.ARR+1)
	return time.Duration(ticks * uint64(time.Second) / uint64(kernelHz))
}

// SPI is a loopback bus: every byte written is read back.
type SPI struct {
	Trace  *Trace
	Config system.SPIConfig
	ok     bool
}

func (s *SPI) Configure(cfg system.SPIConfig) error {
	s.Config = cfg
	s.ok = true
	s.Trace.add("spi1 configure")
	return nil
}

func (s *SPI) Tx(w, r []byte) error {
	if !s.ok {
		return ErrNotConfigured
	}
	copy(r, w)
	return nil
}

func (s *SPI) Transfer(b byte) (byte, error) {
	if !s.ok {
		return 0, ErrNotConfigured
	}
	return b, nil
}

// ADC returns Values[channel] once configured. NotReady makes calibration
// never finish.
type ADC struct {
	Trace    *Trace
	Name     string
	KernelHz uint32
	Values   map[uint8]uint16
	NotReady bool
}

func (a *ADC) Configure(kernelHz uint32) error {
	a.Trace.add(a.Name + " configure")
	if a.NotReady {
		return errcode.New(errcode.Timeout, "sim."+a.Name, "calibration")
	}
	a.KernelHz = kernelHz
	return nil
}

func (a *ADC) Read(ch uint8) (uint16, error) {
	if a.KernelHz == 0 {
		return 0, ErrNotConfigured
	}
	return a.Values[ch], nil
}

// I2C records writes, as the WM8731 only ever writes.
type I2C struct {
	Trace *Trace
	mu    sync.Mutex
	Addr  uint16
	Log   [][]byte
	Err   error
}

func (b *I2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.Addr = addr
	b.Log = append(b.Log, append([]byte(nil), w...))
	b.Trace.add("i2c write")
	return nil
}

// Delay advances Clock, when set, instead of sleeping.
type Delay struct {
	Clock   *timex.Fake
	TotalUs uint64
}

func (d *Delay) DelayMs(ms uint32) { d.DelayUs(ms * 1000) }

func (d *Delay) DelayUs(us uint32) {
	d.TotalUs += uint64(us)
	if d.Clock != nil {
		d.Clock.Advance(time.Duration(us) * time.Microsecond)
	}
}
