// Package wm8731 configures the WM8731 codec as an I2S slave over I2C.
package wm8731

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the 7-bit bus address with CSB low.
const Address = 0x1A

// Register map.
const (
	RegLeftLineIn  = 0x00
	RegRightLineIn = 0x01
	RegLeftHPOut   = 0x02
	RegRightHPOut  = 0x03
	RegAnalogPath  = 0x04
	RegDigitalPath = 0x05
	RegPowerDown   = 0x06
	RegInterface   = 0x07
	RegSampling    = 0x08
	RegActive      = 0x09
	RegReset       = 0x0F
)

const (
	lineIn0dB       = 0x017
	hpOutMute       = 0x000
	analogDACSel    = 0x012 // DAC to output, mic muted
	digitalDefault  = 0x000
	powerLineDACADC = 0x062 // clock out, oscillator and mic powered down
	formatI2S       = 0x002
	iwlShift        = 2
	activate        = 0x001
)

var (
	ErrUnsupportedRate  = errors.New("wm8731: unsupported sample rate")
	ErrUnsupportedDepth = errors.New("wm8731: unsupported bit depth")
)

type Device struct {
	bus     drivers.I2C
	Address uint16
}

func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// samplingBits returns SR[3:0] for normal mode at 256fs.
func samplingBits(rate uint32) (uint16, bool) {
	switch rate {
	case 48_000:
		return 0x0, true
	case 8_000:
		return 0x3, true
	case 32_000:
		return 0x6, true
	case 96_000:
		return 0x7, true
	}
	return 0, false
}

func wordLength(depth uint8) (uint16, bool) {
	switch depth {
	case 16:
		return 0, true
	case 20:
		return 1, true
	case 24:
		return 2, true
	case 32:
		return 3, true
	}
	return 0, false
}

// Init resets the codec and programs format, rate and power.
func (d *Device) Init(sampleRate uint32, bitDepth uint8) error {
	sr, ok := samplingBits(sampleRate)
	if !ok {
		return ErrUnsupportedRate
	}
	iwl, ok := wordLength(bitDepth)
	if !ok {
		return ErrUnsupportedDepth
	}
	seq := []struct {
		reg uint8
		val uint16
	}{
		{RegReset, 0},
		{RegLeftLineIn, lineIn0dB},
		{RegRightLineIn, lineIn0dB},
		{RegLeftHPOut, hpOutMute},
		{RegRightHPOut, hpOutMute},
		{RegAnalogPath, analogDACSel},
		{RegDigitalPath, digitalDefault},
		{RegPowerDown, powerLineDACADC},
		{RegInterface, formatI2S | iwl<<iwlShift},
		{RegSampling, sr << 2},
		{RegActive, activate},
	}
	for _, s := range seq {
		if err := d.WriteRegister(s.reg, s.val); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegister sends a 7-bit register address and 9-bit value.
func (d *Device) WriteRegister(reg uint8, val uint16) error {
	buf := [2]byte{reg<<1 | byte(val>>8&0x1), byte(val)}
	return d.bus.Tx(d.Address, buf[:], nil)
}
