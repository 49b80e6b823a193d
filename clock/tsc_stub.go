// ════════════════════════════════════════════════════════════════════════════════════════════════
// TSC Clock - Fallback Implementation
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Cross-Platform Compatibility Layer
//
// Description:
//   Platforms without a cheap user-space cycle counter (or builds with
//   cgo/asm disabled) fall back to System entirely. TSC keeps the same
//   type and constructor signature so callers never branch on platform.
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build !amd64 || noasm || !cgo

package clock

import "time"

// TSC falls back to System on platforms with no wired cycle counter.
type TSC struct {
	System
}

// NewTSC ignores window on this platform; there is no calibration to do.
func NewTSC(window time.Duration) TSC {
	return TSC{}
}
