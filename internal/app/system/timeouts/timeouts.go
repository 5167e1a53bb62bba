// Package timeouts holds the deadlines handlers put on calls to the remote
// API.
//
// Handlers wrap each call in context.WithTimeout with one of these values:
//   - Ping: the health probe
//   - Short: single-record reads and the snapshot fetch
//   - Medium: JSON edits (bio, group, series create/update/delete, contact)
//   - Long: image uploads
//
// Values start at the defaults below and can be overridden once at startup
// with Configure or ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config overrides timeouts. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure applies the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
	set(&long, cfg.Long)
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long = DefaultPing, DefaultShort, DefaultMedium, DefaultLong
}

// ConfigureFromEnv reads TGD_TIMEOUT_PING, TGD_TIMEOUT_SHORT,
// TGD_TIMEOUT_MEDIUM and TGD_TIMEOUT_LONG as Go durations ("2s", "500ms").
// Unset or invalid values are ignored. It returns how many were applied.
func ConfigureFromEnv() int {
	cfg := Config{
		Ping:   envDuration("TGD_TIMEOUT_PING"),
		Short:  envDuration("TGD_TIMEOUT_SHORT"),
		Medium: envDuration("TGD_TIMEOUT_MEDIUM"),
		Long:   envDuration("TGD_TIMEOUT_LONG"),
	}
	n := 0
	for _, d := range []time.Duration{cfg.Ping, cfg.Short, cfg.Medium, cfg.Long} {
		if d > 0 {
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the active values, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload headshot")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}

func set(dst *time.Duration, d time.Duration) {
	if d > 0 {
		*dst = d
	}
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
