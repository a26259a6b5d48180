package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-colorable"

	"seed-go/errcode"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

type printer struct {
	w io.Writer
}

var out = printer{w: colorable.NewColorableStdout()}

func (p printer) color(c, format string, args ...any) {
	fmt.Fprint(p.w, c)
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprint(p.w, ansiReset)
}

func (p printer) head(s string)              { p.color(ansiCyan, "%s\n", s) }
func (p printer) ok(format string, a ...any) { p.color(ansiGreen, "ok   "+format+"\n", a...) }
func (p printer) row(k string, v any)        { fmt.Fprintf(p.w, "  %-16s %v\n", k, v) }

func (p printer) fail(err error) {
	p.color(ansiRed, "FAIL %s (%s)\n", err, errcode.ClassOf(err))
}

// line colours one firmware log line by its level tag.
func (p printer) line(s string) {
	switch {
	case strings.HasPrefix(s, "[error]"):
		p.color(ansiRed, "%s\n", s)
	case strings.HasPrefix(s, "[warn]"):
		p.color(ansiYellow, "%s\n", s)
	default:
		fmt.Fprintln(p.w, s)
	}
}

func mhz(hz uint32) string {
	return fmt.Sprintf("%.6f MHz", float64(hz)/1e6)
}
