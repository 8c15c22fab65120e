package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Options struct {
	Level      slog.Leveler
	TimeFormat string
}

var DefaultOptions = Options{
	Level:      slog.LevelInfo,
	TimeFormat: "15:04:05.000",
}

// Err is the conventional attr for error values.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

type handler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   Options
	attrs  []slog.Attr
	groups []string
}

func NewHandler(out io.Writer, opts Options) *handler {
	if opts.Level == nil {
		opts.Level = DefaultOptions.Level
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultOptions.TimeFormat
	}
	return &handler{
		mu:   &sync.Mutex{},
		out:  out,
		opts: opts,
	}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder

	sb.WriteString(color.New(color.Faint).Sprint(record.Time.Format(h.opts.TimeFormat)))
	sb.WriteByte(' ')
	sb.WriteString(levelColor(record.Level).Sprintf("%-5s", record.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(record.Message)

	for _, attr := range h.attrs {
		h.appendAttr(&sb, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&sb, attr)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *handler) appendAttr(sb *strings.Builder, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	sb.WriteByte(' ')
	sb.WriteString(color.New(color.FgCyan).Sprint(key))
	sb.WriteByte('=')
	sb.WriteString(fmt.Sprintf("%v", attr.Value.Any()))
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *handler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed)
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}
