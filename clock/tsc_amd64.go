// ════════════════════════════════════════════════════════════════════════════════════════════════
// TSC Clock - AMD64 Architecture
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Cycle-Counter Timestamp Source
//
// Description:
//   Reads the processor's time-stamp counter directly instead of going
//   through a syscall, trading wall-clock accuracy for the lowest possible
//   per-call latency on the producer's hot path. Calibrated once against
//   System at construction time to convert cycles into seconds.
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build amd64 && !noasm && cgo

package clock

import "time"

/*
#include <stdint.h>

static inline uint64_t read_tsc(void) {
    uint32_t lo, hi;
    __asm__ __volatile__("rdtsc" : "=a"(lo), "=d"(hi));
    return ((uint64_t)hi << 32) | lo;
}
*/
import "C"

// TSC reads the x86-64 time-stamp counter. Freq is established once by
// NewTSC via a short calibration window against System and held fixed for
// the clock's lifetime — good enough for relative line-to-line ordering,
// not a substitute for NTP-synchronized wall time.
type TSC struct {
	freq uint64
}

// NewTSC calibrates a TSC clock by sampling both rdtsc and System over a
// short window. window should be long enough to dominate syscall jitter;
// a few milliseconds is typical.
func NewTSC(window time.Duration) TSC {
	sys := System{}
	startTSC := readTSC()
	startWall := sys.Now()

	deadline := startWall + uint64(window)
	for sys.Now() < deadline {
		// busy-wait: calibration runs once at startup, off the hot path
	}

	endTSC := readTSC()
	endWall := sys.Now()

	elapsedWall := endWall - startWall
	elapsedTSC := endTSC - startTSC
	if elapsedWall == 0 || elapsedTSC == 0 {
		return TSC{freq: uint64(time.Second)}
	}

	freq := uint64(float64(elapsedTSC) * float64(time.Second) / float64(elapsedWall))
	return TSC{freq: freq}
}

func readTSC() uint64 {
	return uint64(C.read_tsc())
}

// Now returns the raw cycle count.
func (t TSC) Now() uint64 { return readTSC() }

// Freq returns the calibrated cycles-per-second estimate.
func (t TSC) Freq() uint64 { return t.freq }
