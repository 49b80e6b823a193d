// ════════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Logger Construction Options
//
// Description:
//   Functional options for New. Buffer size, spin budget and sleep
//   duration also have EMBERLOG_-prefixed environment variable fallbacks
//   so deployments can tune buffer sizing and backoff timing without a
//   recompile; the other options have none.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package emberlog

import (
	"os"
	"strconv"
	"time"

	"github.com/emberforge/emberlog/clock"
	"github.com/emberforge/emberlog/sink"
)

const (
	defaultBufferSizeLog2 = 20
	defaultSpinMax        = 2000
	defaultSleep          = 100 * time.Millisecond
)

type config struct {
	bufferSizeLog2 uint
	spinMax        int
	sleep          time.Duration
	clk            clock.Clock
	out            sink.Sink
	quiesceAll     bool
	pinCPU         *int
}

func defaultConfig() config {
	return config{
		bufferSizeLog2: envUint("EMBERLOG_BUFFER_SIZE_LOG2", defaultBufferSizeLog2),
		spinMax:        envInt("EMBERLOG_SPIN_MAX", defaultSpinMax),
		sleep:          envDuration("EMBERLOG_SLEEP_MS", defaultSleep),
		clk:            clock.System{},
		out:            sink.NewConsole(os.Stderr),
	}
}

// Option configures a Logger built by New.
type Option func(*config)

// WithBufferSizeLog2 sets each producer ring's capacity to 1<<log2 bytes.
func WithBufferSizeLog2(log2 uint) Option {
	return func(c *config) { c.bufferSizeLog2 = log2 }
}

// WithSpinMax sets how many consecutive empty drain passes happen before
// the drain loop switches from spinning to sleeping.
func WithSpinMax(n int) Option {
	return func(c *config) { c.spinMax = n }
}

// WithSleep sets the sleep duration used once the drain loop's backoff
// state machine reaches its sleep state.
func WithSleep(d time.Duration) Option {
	return func(c *config) { c.sleep = d }
}

// WithClock overrides the timestamp source used when stamping lines.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) { cfg.clk = c }
}

// WithSink overrides where the drain loop writes rendered lines.
func WithSink(s sink.Sink) Option {
	return func(c *config) { c.out = s }
}

// WithQuiesceAll changes the shutdown policy: instead of stopping the
// drain loop as soon as any one producer's sentinel is observed (the
// default), it waits until every producer that ever called Enable has
// sent its own sentinel.
func WithQuiesceAll() Option {
	return func(c *config) { c.quiesceAll = true }
}

// WithPinCPU binds the drain loop's OS thread to a specific CPU core for
// consistent cache locality. No-op on platforms without CPU affinity
// support.
func WithPinCPU(cpu int) Option {
	return func(c *config) { c.pinCPU = &cpu }
}

func envUint(name string, fallback uint) uint {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return uint(n)
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}
