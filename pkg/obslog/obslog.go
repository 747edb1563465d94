// Package obslog provides the ambient structured diagnostic logger used
// across taskcore: a zerolog.Logger configured once at process start and
// handed out per-component via WithComponent. It is distinct from
// pkg/datalog, which records experiment data rather than diagnostics.
package obslog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls how the global logger is initialized.
type Config struct {
	Level   string    // "debug", "info", "warn", "error"; default "info"
	Output  io.Writer // default os.Stderr
	Pretty  bool      // use zerolog.ConsoleWriter instead of JSON
	Subject string    // attached to every entry once a session starts
}

var (
	mu          sync.RWMutex
	base        zerolog.Logger
	initialized bool
)

// Configure initializes the global logger. Safe to call more than once;
// the most recent call wins.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = cfg.Output
	if w == nil {
		w = os.Stderr
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if cfg.Subject != "" {
		ctx = ctx.Str("subject", cfg.Subject)
	}
	base = ctx.Logger()
	initialized = true
}

func ensureInitialized() {
	mu.RLock()
	ok := initialized
	mu.RUnlock()
	if !ok {
		Configure(Config{})
	}
}

func logger() zerolog.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// L returns the process-wide base logger.
func L() *zerolog.Logger {
	l := logger()
	return &l
}

// WithComponent returns a child logger tagged with component, the
// convention used by cmd/taskcore, pkg/scheduler, pkg/datalog and
// pkg/trigger for attributing a log line to the subsystem that emitted it.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}

// WithBlock returns a child logger tagged with the running block's name,
// for correlating diagnostics with which task block produced them.
func WithBlock(block string) zerolog.Logger {
	return logger().With().Str("block", block).Logger()
}
