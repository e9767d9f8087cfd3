// Package log provides structured logging (slog) routed into the host's
// console once the plugin is active, and to stderr before that.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Sink receives finished log lines. *api.API satisfies it.
type Sink interface {
	Log(message string) error
}

// HostHandler implements slog.Handler. Records are rendered to a single line
// and passed to the attached Sink; without a sink, or when the sink rejects a
// line, they go to the fallback writer.
type HostHandler struct {
	opts   handlerConfig
	out    *output
	attrs  []slog.Attr
	groups []string
}

// output is shared by a handler and every handler derived from it.
type output struct {
	sink     atomic.Pointer[sinkBox]
	prefix   atomic.Pointer[string]
	mu       sync.Mutex
	fallback io.Writer
}

type sinkBox struct {
	Sink
}

// HandlerOption configures the HostHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level    slog.Leveler
	prefix   string
	fallback io.Writer
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level:    slog.LevelInfo,
		fallback: os.Stderr,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithPrefix prepends prefix to every line, typically the plugin name.
func WithPrefix(prefix string) HandlerOption {
	return func(c *handlerConfig) {
		c.prefix = prefix
	}
}

// WithFallback sets where lines go while no sink is attached.
func WithFallback(w io.Writer) HandlerOption {
	return func(c *handlerConfig) {
		if w != nil {
			c.fallback = w
		}
	}
}

// NewHandler creates a new HostHandler with the given options.
func NewHandler(opts ...HandlerOption) *HostHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	h := &HostHandler{
		opts: cfg,
		out:  &output{fallback: cfg.fallback},
	}
	h.SetPrefix(cfg.prefix)
	return h
}

// SetPrefix changes the prefix of this handler and every handler derived
// from it.
func (h *HostHandler) SetPrefix(prefix string) {
	h.out.prefix.Store(&prefix)
}

// Attach routes subsequent records to s.
func (h *HostHandler) Attach(s Sink) {
	if s == nil {
		h.Detach()
		return
	}
	h.out.sink.Store(&sinkBox{s})
}

// Detach routes subsequent records back to the fallback writer.
func (h *HostHandler) Detach() {
	h.out.sink.Store(nil)
}

// Enabled reports whether the handler handles records at the given level.
func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle renders the record and delivers it.
func (h *HostHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	if p := h.out.prefix.Load(); p != nil && *p != "" {
		b.WriteString(*p)
		b.WriteString(": ")
	}
	b.WriteString(record.Level.String())
	b.WriteByte(' ')
	b.WriteString(record.Message)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})

	line := b.String()
	if box := h.out.sink.Load(); box != nil {
		if err := box.Log(line); err == nil {
			return nil
		}
	}
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.fallback, line+"\n")
	return err
}

// WithAttrs returns a new HostHandler that includes the given attributes.
func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	prefix := strings.Join(h.groups, ".")
	next := h.clone()
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

// WithGroup returns a new HostHandler with the given group name.
func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *HostHandler) clone() *HostHandler {
	return &HostHandler{
		opts:   h.opts,
		out:    h.out,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}
