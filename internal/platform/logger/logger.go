// Package logger provides a zerolog wrapper with opinionated defaults and
// run-scoped logging support
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"marketingetl/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	StaticFields map[string]string

	// Dir, when set, duplicates every line as JSON into Dir/File
	Dir  string
	File string
}

// FromEnv builds Options using the logging-free raw config view (no cycles)
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      strings.ToLower(rc.Get("LEVEL", "info")),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", ""),
		Component:  rc.Get("COMPONENT", ""),
		WithCaller: rc.GetBool("CALLER", false),
		Dir:        rc.Get("DIR", ""),
		File:       rc.Get("FILE", ""),
	}
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a standalone logger from opt. The returned closer releases the
// log file when opt.Dir is set and is a no-op otherwise.
func New(opt Options) (Logger, io.Closer, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opt.Dir != "" {
		f, err := openLogFile(opt)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		w = io.MultiWriter(w, f)
		closer = f
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		ctx = ctx.Str(k, v)
	}

	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	return log, closer, nil
}

// openLogFile creates Dir if needed and opens the file in append mode
func openLogFile(opt Options) (*os.File, error) {
	name := opt.File
	if name == "" {
		name = opt.Service
		if name == "" {
			name = "marketingetl"
		}
		name += ".log"
	}
	if err := os.MkdirAll(opt.Dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(opt.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Get returns the process-wide bootstrap logger, used before an explicit
// logger exists (configuration panics, flag errors)
func Get() *Logger {
	if !inited.Load() {
		Init(Options{Level: "info", Format: "console"})
	}
	return root.Load()
}

// Init sets the bootstrap logger, safe to call once. File routing is ignored.
func Init(opt Options) {
	once.Do(func() {
		opt.Dir = ""
		l, _, _ := New(opt)
		root.Store(&l)
		inited.Store(true)
	})
}

// parseLevel supports string-only levels
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a child of l with a component field
func Named(l Logger, component string) Logger {
	if component == "" {
		return l
	}
	return l.With().Str("component", component).Logger()
}

// ForRun returns a child of l tagged with the run id and pipeline name
func ForRun(l Logger, runID, pipeline string) Logger {
	b := l.With()
	if runID != "" {
		b = b.Str("run_id", runID)
	}
	if pipeline != "" {
		b = b.Str("pipeline", pipeline)
	}
	return b.Logger()
}
