package sim

import (
	"errors"
	"sync"

	"seed-go/audio"
)

var ErrSAIStarted = errors.New("sim: sai already started")

// SAI models the serial audio interface and its two circular DMA streams.
// Step plays the role of the DMA engine: it fills the receive half from
// Input, raises the half-complete event and collects the transmit half.
type SAI struct {
	Trace     *Trace
	ConfigErr error

	mu     sync.Mutex
	Config audio.SAIConfig
	tx, rx []uint32
	half   uint8
	frame  uint64

	onEvent func(audio.Event)

	// Input produces the next interleaved sample word; nil means silence.
	Input func(frame uint64, ch int) uint32
	// Output receives every word the path queued for transmission.
	Output []uint32
}

// OnEvent routes this instance's half-complete events, as the stream
// interrupt does on hardware. Call it before Start.
func (s *SAI) OnEvent(fn func(audio.Event)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

func (s *SAI) Configure(cfg audio.SAIConfig) error {
	s.mu.Lock()
	s.Config = cfg
	s.mu.Unlock()
	s.Trace.add("sai configure")
	return s.ConfigErr
}

func (s *SAI) Start(tx, rx []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return ErrSAIStarted
	}
	s.tx, s.rx = tx, rx
	s.half = 1
	s.Trace.add("sai start")
	return nil
}

// Step completes one half transfer and delivers the event to the handler
// set with OnEvent. Without one the transfer still runs and the transmit
// half is collected as is.
func (s *SAI) Step() {
	s.mu.Lock()
	s.half ^= 1
	h := int(s.half)
	n := len(s.rx) / 2
	ch := int(s.Config.Slots)
	if ch == 0 {
		ch = 1
	}
	for i := 0; i < n; i++ {
		var v uint32
		if s.Input != nil {
			v = s.Input(s.frame+uint64(i/ch), i%ch)
		}
		s.rx[h*n+i] = v
	}
	s.frame += uint64(n / ch)
	fn := s.onEvent
	s.mu.Unlock()

	if fn != nil {
		fn(audio.Event{Half: uint8(h)})
	}

	s.mu.Lock()
	s.Output = append(s.Output, s.tx[h*n:(h+1)*n]...)
	s.mu.Unlock()
}

// Started reports whether Start was called.
func (s *SAI) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}
