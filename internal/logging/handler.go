package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler implements slog.Handler for terminal-friendly text output.
// Lines look like:
//
//	3:04PM INFO  wrote artifact name=settings path=/ws/.vscode/settings.json
//
// Colours are used only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	prefix string // accumulated group path, "a.b."
	attrs  string // preformatted attributes from WithAttrs

	colors *palette
}

type palette struct {
	time  *color.Color
	trace *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
	key   *color.Color
}

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}

	if SupportsColor(out) {
		h.colors = &palette{
			time:  color.New(color.FgHiBlack),
			trace: color.New(color.FgHiBlack),
			debug: color.New(color.FgMagenta),
			info:  color.New(color.FgGreen),
			warn:  color.New(color.FgYellow),
			err:   color.New(color.FgRed, color.Bold),
			key:   color.New(color.FgCyan),
		}
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the record as a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.paint(h.colorFor("time"), r.Time.Format(time.Kitchen)))
		b.WriteByte(' ')
	}

	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) levelLabel(level slog.Level) string {
	var label string
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		label, c = "ERROR", h.colorFor("error")
	case level >= slog.LevelWarn:
		label, c = "WARN", h.colorFor("warn")
	case level >= slog.LevelInfo:
		label, c = "INFO", h.colorFor("info")
	case level >= slog.LevelDebug:
		label, c = "DEBUG", h.colorFor("debug")
	default:
		label, c = "TRACE", h.colorFor("trace")
	}
	return h.paint(c, fmt.Sprintf("%-5s", label))
}

func (h *Handler) colorFor(name string) *color.Color {
	if h.colors == nil {
		return nil
	}
	switch name {
	case "time":
		return h.colors.time
	case "trace":
		return h.colors.trace
	case "debug":
		return h.colors.debug
	case "info":
		return h.colors.info
	case "warn":
		return h.colors.warn
	case "error":
		return h.colors.err
	default:
		return h.colors.key
	}
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, groupPrefix, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(h.paint(h.colorFor("key"), prefix+a.Key))
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))
}

// formatValue quotes strings that would otherwise be ambiguous on one line.
func formatValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && (s == "" || strings.ContainsAny(s, " \t\n\"=")) {
		return strconv.Quote(s)
	}
	return s
}

// WithAttrs returns a new Handler with attrs preformatted.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	newH := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&b, h.prefix, a)
	}
	newH.attrs = b.String()
	return &newH
}

// WithGroup returns a new Handler whose subsequent attribute keys are
// prefixed with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}
