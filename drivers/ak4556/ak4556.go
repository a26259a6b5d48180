// Package ak4556 drives the AK4556 stereo codec. The part has no control
// bus; bring-up is a reset pulse and the format is fixed by strap pins.
package ak4556

import "errors"

var ErrUnsupportedFormat = errors.New("ak4556: unsupported sample format")

// Pin is the codec's active-low reset line.
type Pin interface {
	Set(high bool)
}

type Delay interface {
	DelayMs(ms uint32)
}

const (
	resetPulseMs = 1
	maxRate      = 192_000
	minRate      = 8_000
)

type Device struct {
	reset Pin
	delay Delay
}

func New(reset Pin, delay Delay) *Device {
	return &Device{reset: reset, delay: delay}
}

// Init pulses reset. Only 24-bit frames are accepted since that is how the
// format pins are strapped on the module.
func (d *Device) Init(sampleRate uint32, bitDepth uint8) error {
	if bitDepth != 24 || sampleRate < minRate || sampleRate > maxRate {
		return ErrUnsupportedFormat
	}
	d.reset.Set(false)
	d.delay.DelayMs(resetPulseMs)
	d.reset.Set(true)
	return nil
}
