package system

import (
	"errors"
	"time"

	"seed-go/errcode"
	"seed-go/x/logx"
)

// Report logs a bring-up failure and returns its class.
func Report(l *logx.Logger, err error) errcode.Class {
	c := errcode.ClassOf(err)
	fs := []logx.Field{logx.Str("class", c.String()), logx.Str("code", string(errcode.Of(err))), logx.Err(err)}
	var be *BringupError
	if errors.As(err, &be) {
		fs = append(fs, logx.Str("phase", be.Phase.String()))
	}
	l.Error("halted", fs...)
	return c
}

// Halt reports err and parks the caller forever. Bring-up has no recovery
// path.
func Halt(l *logx.Logger, err error) {
	Report(l, err)
	for {
		time.Sleep(time.Hour)
	}
}
