// Package audio owns the double-buffered, DMA-driven sample path between
// the codec and application code.
//
// Hardware fills the receive buffer and drains the transmit buffer one half
// at a time. After each half completes, the interrupt layer calls
// Path.HandleDMA, which gives the registered Handler the receive half that
// was just filled and the transmit half that will be sent next. Those two
// views never overlap and are only valid for the duration of the call.
package audio

import (
	"sync"
	"sync/atomic"

	"seed-go/errcode"
)

// SAIConfig is the serial audio interface setup: transmitter as clock
// master, receiver synchronous to it.
type SAIConfig struct {
	SampleRate          uint32
	KernelHz            uint32
	BitDepth            uint8
	Slots               uint8
	FirstBitOffset      uint8
	FrameSyncActiveHigh bool
	RxSynchronous       bool
}

// SAI is the serial audio interface plus its two DMA streams.
type SAI interface {
	Configure(cfg SAIConfig) error
	// Start latches the buffer addresses into the DMA streams and enables
	// circular transfers. It is called once.
	Start(tx, rx []uint32) error
}

// Codec is the external converter.
type Codec interface {
	Init(sampleRate uint32, bitDepth uint8) error
}

// Config selects the block geometry. It cannot change after New.
type Config struct {
	BlockSize  uint32
	Channels   uint32
	SampleRate uint32
}

// DefaultConfig is 48 frames of stereo at 48 kHz.
func DefaultConfig() Config {
	return Config{BlockSize: BlockSizeMax, Channels: Channels, SampleRate: 48_000}
}

// BufferLen returns the transfer length in words: block x channels x 2.
func (c Config) BufferLen() int {
	return int(c.BlockSize * c.Channels * Multiplicity)
}

func (c Config) validate() error {
	switch {
	case c.BlockSize == 0 || c.BlockSize > BlockSizeMax:
		return &errcode.E{C: errcode.InvalidParams, Op: "audio.new", Msg: "block size must be 1..48"}
	case c.Channels == 0 || c.Channels > Channels:
		return &errcode.E{C: errcode.InvalidParams, Op: "audio.new", Msg: "channel count must be 1 or 2"}
	case c.SampleRate == 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "audio.new", Msg: "sample rate must be positive"}
	}
	return nil
}

// Event is one DMA completion reported by the interrupt layer.
type Event struct {
	// Half is 0 after the first half completed, 1 after the second.
	Half uint8
	// Err carries a transfer error flagged by hardware, if any.
	Err error
}

// Block is what a Handler sees for one completed half.
type Block struct {
	In   []uint32 // receive half just filled
	Out  []uint32 // transmit half to fill before it is sent
	Half uint8
	Seq  uint32
	Err  error
}

// Handler processes one block in place. It runs in interrupt context and
// must return before the next half completes.
type Handler interface {
	Process(b Block)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(b Block)

func (f HandlerFunc) Process(b Block) { f(b) }

// Stats counts what happened on the DMA path.
type Stats struct {
	Transfers uint32
	Overruns  uint32 // events dropped because the handler was still running
	Skipped   uint32 // halves that completed without being seen
	Errors    uint32
}

type handlerBox struct{ h Handler }

// Path is the audio path. It exclusively owns the arena it was built on.
type Path struct {
	cfg  Config
	sai  SAI
	tx   []uint32
	rx   []uint32
	half int

	regMu   sync.Mutex
	handler atomic.Pointer[handlerBox]
	started atomic.Bool

	busy     atomic.Bool
	lastHalf atomic.Int32
	seq      atomic.Uint32

	transfers atomic.Uint32
	overruns  atomic.Uint32
	skipped   atomic.Uint32
	errors    atomic.Uint32
}

// New configures the SAI for cfg, brings up the codec and binds the arena.
// kernelHz is the audio kernel clock feeding the SAI.
func New(cfg Config, kernelHz uint32, sai SAI, codec Codec, arena *Arena) (*Path, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sai == nil || arena == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "audio.new", Msg: "missing SAI or arena"}
	}
	err := sai.Configure(SAIConfig{
		SampleRate:          cfg.SampleRate,
		KernelHz:            kernelHz,
		BitDepth:            BitDepth,
		Slots:               uint8(cfg.Channels),
		FrameSyncActiveHigh: true,
		RxSynchronous:       true,
	})
	if err != nil {
		return nil, fatal("audio.sai", err)
	}
	if codec != nil {
		if err := codec.Init(cfg.SampleRate, BitDepth); err != nil {
			return nil, &errcode.E{C: errcode.Codec, Op: "audio.codec", Err: err}
		}
	}

	n := cfg.BufferLen()
	p := &Path{
		cfg:  cfg,
		sai:  sai,
		tx:   arena.tx[:n:n],
		rx:   arena.rx[:n:n],
		half: n / 2,
	}
	p.lastHalf.Store(1)
	return p, nil
}

// fatal keeps a coded cause and marks everything else fatal.
func fatal(op string, err error) error {
	if c := errcode.Of(err); c != errcode.Error {
		return &errcode.E{C: c, Op: op, Err: err}
	}
	return &errcode.E{C: errcode.Fatal, Op: op, Err: err}
}

// Config returns the geometry the path was built with.
func (p *Path) Config() Config { return p.cfg }

// BufferLen returns the per-direction transfer length in words.
func (p *Path) BufferLen() int { return len(p.tx) }

// OnTransferComplete registers the single consumer of completed blocks.
func (p *Path) OnTransferComplete(h Handler) error {
	if h == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "audio.register", Msg: "nil handler"}
	}
	p.regMu.Lock()
	defer p.regMu.Unlock()
	if p.handler.Load() != nil {
		return &errcode.E{C: errcode.Busy, Op: "audio.register", Msg: "handler already registered"}
	}
	p.handler.Store(&handlerBox{h: h})
	return nil
}

// Start hands the buffers to the DMA streams. It may be called once.
func (p *Path) Start() error {
	if !p.started.CompareAndSwap(false, true) {
		return &errcode.E{C: errcode.AlreadyInitialized, Op: "audio.start"}
	}
	if err := p.sai.Start(p.tx, p.rx); err != nil {
		return fatal("audio.start", err)
	}
	return nil
}

// HandleDMA is the interrupt entry point for one half-complete or
// transfer-complete event. Missed events are counted, never queued.
func (p *Path) HandleDMA(ev Event) {
	if !p.busy.CompareAndSwap(false, true) {
		p.overruns.Add(1)
		return
	}
	defer p.busy.Store(false)

	h := int32(ev.Half & 1)
	if p.lastHalf.Swap(h) == h {
		// The other half came and went without an event.
		p.skipped.Add(1)
	}
	if ev.Err != nil {
		p.errors.Add(1)
	}
	p.transfers.Add(1)

	lo := int(h) * p.half
	hi := lo + p.half
	out := p.tx[lo:hi:hi]

	box := p.handler.Load()
	if box == nil {
		clear(out)
		return
	}
	box.h.Process(Block{
		In:   p.rx[lo:hi:hi],
		Out:  out,
		Half: uint8(h),
		Seq:  p.seq.Add(1),
		Err:  ev.Err,
	})
}

// Stats returns a snapshot of the DMA counters.
func (p *Path) Stats() Stats {
	return Stats{
		Transfers: p.transfers.Load(),
		Overruns:  p.overruns.Load(),
		Skipped:   p.skipped.Load(),
		Errors:    p.errors.Load(),
	}
}
