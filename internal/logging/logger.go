package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"
)

const reset = "\033[0m"

type prettyHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	source bool
	color  bool
	attrs  []slog.Attr
	group  string
}

// NewPrettyHandler returns a line-oriented handler: time, level, caller,
// message, then key=value attributes. Errors logged at ERROR level are
// followed by a stack trace.
func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if out == nil {
		out = os.Stdout
	}
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &prettyHandler{
		mu:     &sync.Mutex{},
		out:    out,
		level:  opts.Level,
		source: opts.AddSource,
		color:  out == os.Stdout || out == os.Stderr,
	}
}

// Init installs the pretty handler on stdout as the default logger.
func Init(levelName string) *slog.Logger {
	logger := slog.New(NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level:     ParseLevel(levelName),
		AddSource: true,
	}))
	slog.SetDefault(logger)
	return logger
}

func (h *prettyHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	if h.level == nil {
		return true
	}
	return lvl >= h.level.Level()
}

func (h *prettyHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}

	var buf bytes.Buffer

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&buf, "%s ", ts.Format("2006-01-02 15:04:05.000"))

	if h.color {
		fmt.Fprintf(&buf, "%s%-5s%s ", colorForLevel(r.Level), levelToUpper(r.Level), reset)
	} else {
		fmt.Fprintf(&buf, "%-5s ", levelToUpper(r.Level))
	}

	if h.source {
		if file, line := resolveCaller(r.PC); file != "" {
			loc := fmt.Sprintf("%s:%d", filepath.Base(file), line)
			fmt.Fprintf(&buf, "%-25s ", loc)
		}
	}

	buf.WriteString(r.Message)

	var errVal error
	write := func(a slog.Attr) {
		if e, ok := a.Value.Any().(error); ok && a.Key == "error" {
			errVal = e
		}
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.qualify(a))
		return true
	})

	buf.WriteByte('\n')

	if errVal != nil && r.Level >= slog.LevelError {
		fmt.Fprintf(&buf, "ERROR: %v\n", errVal)
		buf.Write(debug.Stack())
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func levelToUpper(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a config level name to a slog level. Unknown names are INFO.
func ParseLevel(l string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func colorForLevel(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "\033[36m" // cyan
	case l < slog.LevelWarn:
		return "\033[32m" // green
	case l < slog.LevelError:
		return "\033[33m" // yellow
	default:
		return "\033[31m" // red
	}
}

func resolveCaller(pc uintptr) (string, int) {
	if pc == 0 {
		return "", 0
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	return f.File, f.Line
}
