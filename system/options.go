package system

import (
	"seed-go/audio"
	"seed-go/bus"
	"seed-go/drivers/sdram"
	"seed-go/x/logx"
	"seed-go/x/timex"
)

type options struct {
	log     *logx.Logger
	conn    *bus.Connection
	clk     timex.Clock
	windows []audio.DMAWindow
	arena   *audio.Arena
	device  sdram.Device
	codec   audio.Codec
}

type Option func(*options)

func defaults() options {
	return options{
		clk:     timex.System{},
		windows: []audio.DMAWindow{audio.AnyWindow},
		device:  sdram.AS4C16M32MSA,
	}
}

// WithLogger sets the bring-up logger. The default is silent.
func WithLogger(l *logx.Logger) Option { return func(o *options) { o.log = l } }

// WithBus publishes phase status and the clock summary on conn.
func WithBus(conn *bus.Connection) Option { return func(o *options) { o.conn = conn } }

// WithClock bounds hardware waits with clk instead of the system clock.
func WithClock(clk timex.Clock) Option { return func(o *options) { o.clk = clk } }

// WithDMAWindows restricts where the audio arena may live.
func WithDMAWindows(ws ...audio.DMAWindow) Option {
	return func(o *options) { o.windows = ws }
}

// WithArena supplies the audio arena instead of the process-wide one.
func WithArena(a *audio.Arena) Option { return func(o *options) { o.arena = a } }

// WithSDRAM overrides the fitted SDRAM part.
func WithSDRAM(dev sdram.Device) Option { return func(o *options) { o.device = dev } }

// WithCodec overrides the codec the plan names.
func WithCodec(c audio.Codec) Option { return func(o *options) { o.codec = c } }
