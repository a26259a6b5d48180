package types

import (
	"encoding/binary"

	"github.com/sigurn/crc16"
)

var planTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Fingerprint is a CRC-16/XMODEM over a fixed little-endian encoding of
// the plan. The firmware logs it at boot and seedcheck prints it, so a
// board can be matched to the plan file it was built from.
func (p BoardPlan) Fingerprint() uint16 {
	b := make([]byte, 0, 48)
	le := binary.LittleEndian
	b = le.AppendUint32(b, p.CrystalHz)
	b = le.AppendUint32(b, p.TargetSysHz)
	b = le.AppendUint32(b, p.TargetAudioHz)
	b = le.AppendUint32(b, p.SDRAM.Base)
	b = le.AppendUint32(b, p.SDRAM.SizeBytes)
	b = append(b, p.SDRAM.Region)
	b = le.AppendUint16(b, p.Audio.BlockSize)
	b = append(b, p.Audio.Channels, p.Audio.BitDepth)
	b = append(b, p.Audio.Codec...)
	b = append(b, 0)
	b = le.AppendUint32(b, p.TimerPeriodMs)
	b = le.AppendUint32(b, p.SPI.FreqHz)
	b = append(b, p.SPI.Mode)
	b = le.AppendUint32(b, p.PLLLockTimeoutMs)
	b = le.AppendUint32(b, p.ReadyTimeoutMs)
	return crc16.Checksum(b, planTable)
}
