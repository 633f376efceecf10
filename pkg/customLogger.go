package chamber

// https://stackoverflow.com/questions/77422213/how-to-hide-all-keys-when-using-slog-in-golang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Handler struct {
	h       slog.Handler
	mu      *sync.Mutex
	out     io.Writer
	noColor bool
}

func NewHandler(o io.Writer, opts *slog.HandlerOptions, noColor bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out: o,
		h: slog.NewTextHandler(o, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: nil,
		}),
		mu:      &sync.Mutex{},
		noColor: noColor,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), out: h.out, mu: h.mu, noColor: h.noColor}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), out: h.out, mu: h.mu, noColor: h.noColor}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {

	formattedTime := r.Time.Format("[2006/01/02 15:04:05]")

	//add time and message to values
	strs := []string{formattedTime}

	if tag := h.levelTag(r.Level); tag != "" {
		strs = append(strs, tag)
	}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			value := fmt.Sprintf("[%s]", a.Value.String())
			strs = append(strs, value)
			return true
		})
	}
	strs = append(strs, r.Message)

	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write(b)

	return err

}

// Info records carry no tag so the console output stays close to plain prints.
func (h *Handler) levelTag(level slog.Level) string {
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		c = color.New(color.FgYellow)
	default:
		return ""
	}
	tag := fmt.Sprintf("[%s]", level.String())
	if h.noColor {
		return tag
	}
	c.EnableColor()
	return c.Sprint(tag)
}

// ConsoleLogger writes progress to the human readable handler and errors
// to a JSON handler, usually stdout and stderr.
type ConsoleLogger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func NewConsoleLogger(stdout io.Writer, stderr io.Writer, noColor bool) ConsoleLogger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	return ConsoleLogger{
		InfoLog:  slog.New(NewHandler(stdout, opts, noColor)),
		ErrorLog: slog.New(slog.NewJSONHandler(stderr, opts)),
	}
}

func (l ConsoleLogger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l ConsoleLogger) Warn(message string, module string) {
	l.InfoLog.Warn(message, "module", module)
}

func (l ConsoleLogger) Error(message string) {
	l.ErrorLog.Error(message)
}
