package sim

import (
	"sync"

	"seed-go/system"
)

// FakePin is an output pin that remembers its level and counts edges.
type FakePin struct {
	mu    sync.RWMutex
	name  string
	trace *Trace
	level bool
	edges int
}

func NewPin(name string, t *Trace) *FakePin { return &FakePin{name: name, trace: t} }

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	if p.level != level {
		p.edges++
	}
	p.level = level
	p.mu.Unlock()
	if level {
		p.trace.add("pin " + p.name + " high")
	} else {
		p.trace.add("pin " + p.name + " low")
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Toggle() { p.Set(!p.Get()) }

// Edges returns the number of level changes so far.
func (p *FakePin) Edges() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.edges
}

// GPIO hands out the LED and codec reset pins; header pins stay nil.
type GPIO struct {
	Trace      *Trace
	LED        *FakePin
	CodecReset *FakePin
	FMCErr     error
}

func (g *GPIO) Configure() (system.GPIO, error) {
	if g.LED == nil {
		g.LED = NewPin("led", g.Trace)
	}
	if g.CodecReset == nil {
		g.CodecReset = NewPin("codec_reset", g.Trace)
	}
	g.Trace.add("gpio banks")
	return system.GPIO{LED: g.LED, CodecReset: g.CodecReset}, nil
}

func (g *GPIO) ConfigureFMC() error {
	g.Trace.add("gpio fmc")
	return g.FMCErr
}
