package types

import (
	"seed-go/errcode"
)

// ------------------------
// Board plan
// ------------------------

// BoardPlan is everything bring-up needs that is not fixed by silicon.
// Zero values are invalid; start from DefaultPlan.
type BoardPlan struct {
	CrystalHz        uint32    `yaml:"crystal_hz" json:"crystal_hz"`
	TargetSysHz      uint32    `yaml:"target_sys_hz" json:"target_sys_hz"`
	TargetAudioHz    uint32    `yaml:"target_audio_hz" json:"target_audio_hz"`
	SDRAM            SDRAMPlan `yaml:"sdram" json:"sdram"`
	Audio            AudioPlan `yaml:"audio" json:"audio"`
	TimerPeriodMs    uint32    `yaml:"timer_period_ms" json:"timer_period_ms"`
	SPI              SPIPlan   `yaml:"spi" json:"spi"`
	PLLLockTimeoutMs uint32    `yaml:"pll_lock_timeout_ms" json:"pll_lock_timeout_ms"`
	ReadyTimeoutMs   uint32    `yaml:"ready_timeout_ms" json:"ready_timeout_ms"`
}

type SDRAMPlan struct {
	Base      uint32 `yaml:"base" json:"base"`
	SizeBytes uint32 `yaml:"size_bytes" json:"size_bytes"`
	Region    uint8  `yaml:"region" json:"region"`
}

type AudioPlan struct {
	BlockSize uint16 `yaml:"block_size" json:"block_size"`
	Channels  uint8  `yaml:"channels" json:"channels"`
	BitDepth  uint8  `yaml:"bit_depth" json:"bit_depth"`
	Codec     string `yaml:"codec" json:"codec"` // "ak4556", "wm8731"
}

type SPIPlan struct {
	FreqHz uint32 `yaml:"freq_hz" json:"freq_hz"`
	Mode   uint8  `yaml:"mode" json:"mode"`
}

const (
	CodecAK4556 = "ak4556"
	CodecWM8731 = "wm8731"
)

// DefaultPlan is the reference board: 16 MHz crystal, 400 MHz core, 48 kHz
// audio, 64 MiB SDRAM at 0xC0000000 guarded by MPU region 1.
func DefaultPlan() BoardPlan {
	return BoardPlan{
		CrystalHz:     16_000_000,
		TargetSysHz:   400_000_000,
		TargetAudioHz: 48_000,
		SDRAM: SDRAMPlan{
			Base:      0xC000_0000,
			SizeBytes: 64 << 20,
			Region:    1,
		},
		Audio: AudioPlan{
			BlockSize: 48,
			Channels:  2,
			BitDepth:  24,
			Codec:     CodecAK4556,
		},
		TimerPeriodMs:    100,
		SPI:              SPIPlan{FreqHz: 400_000, Mode: 0},
		PLLLockTimeoutMs: 100,
		ReadyTimeoutMs:   100,
	}
}

// Validate checks fields that have no deeper owner. Clock and region
// geometry are checked by their own packages.
func (p BoardPlan) Validate() error {
	const op = "plan.validate"
	switch {
	case p.CrystalHz == 0 || p.TargetSysHz == 0 || p.TargetAudioHz == 0:
		return errcode.New(errcode.InvalidParams, op, "clock targets must be non-zero")
	case p.Audio.BlockSize == 0 || p.Audio.Channels == 0:
		return errcode.New(errcode.InvalidParams, op, "audio block size and channels must be non-zero")
	case p.Audio.BitDepth != 16 && p.Audio.BitDepth != 24 && p.Audio.BitDepth != 32:
		return errcode.New(errcode.InvalidParams, op, "bit depth must be 16, 24 or 32")
	case p.Audio.Codec != CodecAK4556 && p.Audio.Codec != CodecWM8731:
		return errcode.New(errcode.InvalidParams, op, "unknown codec "+p.Audio.Codec)
	case p.TimerPeriodMs == 0:
		return errcode.New(errcode.InvalidParams, op, "timer period must be non-zero")
	case p.SPI.FreqHz == 0 || p.SPI.Mode > 3:
		return errcode.New(errcode.InvalidParams, op, "spi frequency or mode out of range")
	case p.PLLLockTimeoutMs == 0 || p.ReadyTimeoutMs == 0:
		return errcode.New(errcode.InvalidParams, op, "timeouts must be non-zero")
	case p.SDRAM.SizeBytes == 0:
		return errcode.New(errcode.InvalidSize, op, "sdram size must be non-zero")
	}
	return nil
}
