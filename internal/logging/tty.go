package logging

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode controls whether ANSI colours are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var colorMode atomic.Value // ColorMode

// SetColorMode sets the process-wide colour mode and keeps fatih/color in
// step so direct color.Color users follow the same choice.
func SetColorMode(m ColorMode) {
	colorMode.Store(m)
	switch m {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	default:
		color.NoColor = !supportsColor(os.Stdout, IsTTY(os.Stdout))
	}
}

func currentColorMode() ColorMode {
	if m, ok := colorMode.Load().(ColorMode); ok {
		return m
	}
	return ColorAuto
}

// IsTTY returns true if the given writer is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor reports whether colours should be written to w.
// An explicit mode wins; in auto mode NO_COLOR, TERM=dumb and non-terminals
// disable colour.
func SupportsColor(w io.Writer) bool {
	switch currentColorMode() {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
