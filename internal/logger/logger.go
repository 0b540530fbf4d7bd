// ABOUTME: Structured logging configuration using log/slog
// ABOUTME: Console output is gated on the environment; file and collector sinks are optional

package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the sinks Init wires up
type Options struct {
	Level         string    // debug, info, warn, error (default: info)
	Format        string    // text, json (default: text)
	Development   bool      // console output only in development
	Console       io.Writer // defaults to os.Stderr
	LogDir        string    // rotated file sink when set
	MonitoringURL string    // warn+ forwarding when set
	Service       string
}

// Init configures the default slog logger and returns a function that flushes
// and closes every sink. The returned logger is also the process default.
func Init(opts Options) (*slog.Logger, func()) {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	var closers []func() error

	if opts.Development {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		handlers = append(handlers, newHandler(console, opts.Format, handlerOpts))
	}

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0700); err == nil {
			rotator := &lumberjack.Logger{
				Filename:   filepath.Join(opts.LogDir, "delcarajo.log"),
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
			handlers = append(handlers, slog.NewJSONHandler(rotator, handlerOpts))
			closers = append(closers, rotator.Close)
		}
	}

	if opts.MonitoringURL != "" {
		collector := NewCollector(opts.MonitoringURL, opts.Service, nil)
		handlers = append(handlers, collector.Handler(slog.LevelWarn))
		closers = append(closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), collectorDrainTimeout)
			defer cancel()
			return collector.Close(ctx)
		})
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = discardHandler{}
	case 1:
		handler = handlers[0]
	default:
		handler = fanout(handlers)
	}

	l := slog.New(handler)
	if opts.Service != "" {
		l = l.With("service", opts.Service)
	}
	slog.SetDefault(l)

	return l, func() {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		if err := errors.Join(errs...); err != nil {
			io.WriteString(os.Stderr, "logger: close failed: "+err.Error()+"\n")
		}
	}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// fanout sends each record to every handler that accepts its level
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
