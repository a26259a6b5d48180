package audio

import (
	"sync/atomic"
	"unsafe"

	"seed-go/errcode"
)

// Buffer geometry: 48 frames per block (1 kHz processing at 48 kHz),
// stereo, doubled for ping-pong.
const (
	BlockSizeMax = 48
	Channels     = 2
	Multiplicity = 2
	BufferLen    = BlockSizeMax * Channels * Multiplicity

	BitDepth = 24
)

// Buffer is one direction of the transfer memory, in interleaved sample words.
type Buffer [BufferLen]uint32

// Arena is the fixed-location memory shared with the DMA engine. Its
// addresses are latched into hardware once, so it must never move or be
// reallocated.
type Arena struct {
	tx Buffer
	rx Buffer
}

// DMAWindow is an address range the DMA controller can reach.
type DMAWindow struct {
	Base uintptr
	Size uintptr
}

// AnyWindow accepts every address; it is what host builds use.
var AnyWindow = DMAWindow{Base: 0, Size: ^uintptr(0)}

func (w DMAWindow) contains(p, n uintptr) bool {
	return p >= w.Base && p-w.Base <= w.Size && n <= w.Size-(p-w.Base)
}

var (
	static      Arena
	staticTaken atomic.Bool
)

// TakeArena hands out the process-wide arena. Only the first call gets it.
func TakeArena() (*Arena, bool) {
	if !staticTaken.CompareAndSwap(false, true) {
		return nil, false
	}
	return &static, true
}

// NewArena allocates a private arena. It is meant for host builds and
// tests; firmware uses TakeArena.
func NewArena() *Arena { return new(Arena) }

// Validate checks once that both buffers lie entirely inside one of the
// given windows.
func (a *Arena) Validate(windows ...DMAWindow) error {
	const size = unsafe.Sizeof(Buffer{})
	for _, p := range [...]uintptr{
		uintptr(unsafe.Pointer(&a.tx[0])),
		uintptr(unsafe.Pointer(&a.rx[0])),
	} {
		ok := false
		for _, w := range windows {
			if w.contains(p, size) {
				ok = true
				break
			}
		}
		if !ok {
			return &errcode.E{C: errcode.NotDMAAddressable, Op: "audio.arena", Msg: "buffer outside DMA-addressable memory"}
		}
	}
	return nil
}
