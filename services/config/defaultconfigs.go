package config

import "seed-go/types"

// -----------------------------------------------------------------------------
// Embedded plans
//
// Key: device name as passed to Publish.
// -----------------------------------------------------------------------------

var embeddedPlans = map[string]func() types.BoardPlan{
	"seed": types.DefaultPlan,

	// Later modules swap the AK4556 for a WM8731 on I2C.
	"seed-wm8731": func() types.BoardPlan {
		p := types.DefaultPlan()
		p.Audio.Codec = types.CodecWM8731
		return p
	},

	// 480 MHz needs VOS0 and drops SDCLK to a third of AHB.
	"seed-480": func() types.BoardPlan {
		p := types.DefaultPlan()
		p.TargetSysHz = 480_000_000
		return p
	},

	"seed-96k": func() types.BoardPlan {
		p := types.DefaultPlan()
		p.TargetAudioHz = 96_000
		return p
	},
}
