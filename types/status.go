package types

// ------------------------
// Bring-up diagnostics
// ------------------------

type BringupState string

const (
	StateRunning BringupState = "running"
	StateDone    BringupState = "done"
	StateFailed  BringupState = "failed"
)

// BringupStatus is retained on topic "system/bringup".
type BringupStatus struct {
	Phase string       `json:"phase"`
	State BringupState `json:"state"`
	Code  string       `json:"code,omitempty"`
	Msg   string       `json:"msg,omitempty"`
}

// ClockSummary is retained on topic "system/clocks" once clocks commit.
type ClockSummary struct {
	SysHz        uint32 `json:"sys_hz"`
	PeripheralHz uint32 `json:"peripheral_hz"`
	AudioHz      uint32 `json:"audio_hz"`
	TimerHz      uint32 `json:"timer_hz"`
}
