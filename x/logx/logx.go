// Package logx is a small leveled logger that avoids fmt so it stays cheap
// on TinyGo targets. Lines look like:
//
//	[info] system: SDRAM ready base=0xC0000000 size=67108864
//
// A nil *Logger discards everything.
package logx

import (
	"io"
	"sync"

	"seed-go/x/conv"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

type fieldKind uint8

const (
	kindStr fieldKind = iota
	kindUint
	kindInt
	kindHex
)

// Field is one key=value pair appended to a line.
type Field struct {
	Key  string
	kind fieldKind
	s    string
	u    uint64
	i    int64
}

func Str(k, v string) Field        { return Field{Key: k, kind: kindStr, s: v} }
func U32(k string, v uint32) Field { return Field{Key: k, kind: kindUint, u: uint64(v)} }
func U64(k string, v uint64) Field { return Field{Key: k, kind: kindUint, u: v} }
func Int(k string, v int) Field    { return Field{Key: k, kind: kindInt, i: int64(v)} }
func Hex(k string, v uint32) Field { return Field{Key: k, kind: kindHex, u: uint64(v)} }

func Err(err error) Field {
	if err == nil {
		return Str("err", "nil")
	}
	return Str("err", err.Error())
}

// sink is shared between a logger and the children made by With.
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	min Level
}

// Logger serializes writers on a mutex, so it is for thread context only.
// Interrupt handlers must not call it; they count events and let the main
// loop log them.
type Logger struct {
	s    *sink
	comp string
}

// New returns a logger writing to w at LevelInfo.
func New(w io.Writer, component string) *Logger {
	return &Logger{s: &sink{w: w, min: LevelInfo}, comp: component}
}

// With returns a child logger for another component sharing the same sink.
func (l *Logger) With(component string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{s: l.s, comp: component}
}

func (l *Logger) SetLevel(lv Level) {
	if l == nil {
		return
	}
	l.s.mu.Lock()
	l.s.min = lv
	l.s.mu.Unlock()
}

func (l *Logger) Debug(msg string, fs ...Field) { l.log(LevelDebug, msg, fs) }
func (l *Logger) Info(msg string, fs ...Field)  { l.log(LevelInfo, msg, fs) }
func (l *Logger) Warn(msg string, fs ...Field)  { l.log(LevelWarn, msg, fs) }
func (l *Logger) Error(msg string, fs ...Field) { l.log(LevelError, msg, fs) }

func (l *Logger) log(lv Level, msg string, fs []Field) {
	if l == nil || l.s == nil || l.s.w == nil {
		return
	}
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if lv < l.s.min {
		return
	}
	line := make([]byte, 0, 96)
	line = append(line, '[')
	line = append(line, lv.String()...)
	line = append(line, "] "...)
	if l.comp != "" {
		line = append(line, l.comp...)
		line = append(line, ": "...)
	}
	line = append(line, msg...)
	for _, f := range fs {
		line = append(line, ' ')
		line = append(line, f.Key...)
		line = append(line, '=')
		switch f.kind {
		case kindStr:
			line = append(line, f.s...)
		case kindUint:
			line = conv.AppendUint(line, f.u)
		case kindInt:
			line = conv.AppendInt(line, f.i)
		case kindHex:
			line = conv.AppendHex32(append(line, "0x"...), uint32(f.u))
		}
	}
	line = append(line, '\n')
	_, _ = l.s.w.Write(line)
}
