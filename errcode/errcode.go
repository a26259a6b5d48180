package errcode

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                 Code = "ok"
	Busy               Code = "busy"
	InvalidParams      Code = "invalid_params"
	Unreachable        Code = "unreachable"
	InvalidSize        Code = "invalid_size"
	InvalidRegion      Code = "invalid_region"
	NotDMAAddressable  Code = "not_dma_addressable"
	AlreadyInitialized Code = "already_initialized"
	Timeout            Code = "timeout"
	Codec              Code = "codec"
	VerifyFailed       Code = "verify_failed"
	Fatal              Code = "fatal"

	Error Code = "error" // generic fallback
)

// Class groups codes by how far a failure got before it was detected.
type Class uint8

const (
	ClassNone Class = iota
	// ClassConfiguration failures are caught before any hardware mutation.
	ClassConfiguration
	// ClassHardwareTimeout is a bounded wait that expired.
	ClassHardwareTimeout
	// ClassFatal failures happen after an irreversible hardware write.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassConfiguration:
		return "configuration"
	case ClassHardwareTimeout:
		return "hardware_timeout"
	default:
		return "fatal"
	}
}

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match an *E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New builds an *E without a cause.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Wrap builds an *E around a cause. A nil cause yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
// The outermost coded error wins.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	for e := err; e != nil; {
		switch x := e.(type) {
		case Code:
			return x
		case coder:
			return x.Code()
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return Error
}

// ClassOf maps an error onto the bring-up failure taxonomy.
func ClassOf(err error) Class {
	if err == nil {
		return ClassNone
	}
	type classer interface{ Class() Class }
	for e := err; e != nil; {
		if x, ok := e.(classer); ok {
			return x.Class()
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	switch Of(err) {
	case InvalidParams, Unreachable, InvalidSize, InvalidRegion, NotDMAAddressable, AlreadyInitialized, Busy:
		return ClassConfiguration
	case Timeout:
		return ClassHardwareTimeout
	default:
		return ClassFatal
	}
}
