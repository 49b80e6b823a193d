// ════════════════════════════════════════════════════════════════════════════════════════════════
// LINE FRAME
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Per-Line Ring Buffer Frame
//
// Description:
//   What a Producer actually reserves in its ring: an 8-byte timestamp
//   header followed by zero or more encoded segments. A line carrying no
//   segments and the all-ones timestamp is the shutdown sentinel, not a
//   real line — the drain loop special-cases it before touching the
//   segment stream.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package emberlog

import "unsafe"

const lineHeaderSize = 8

// shutdownSentinel is an all-ones timestamp, unreachable by any real
// clock reading, signaling the drain loop to stop once a pass finds every
// producer's buffer empty.
const shutdownSentinel = ^uint64(0)

func putLineHeader(buf []byte, timestamp uint64) {
	*(*uint64)(unsafe.Pointer(&buf[0])) = timestamp
}

func getLineHeader(buf []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&buf[0]))
}

// isShutdownLine reports whether a decoded line's header is the sentinel,
// in which case its body (if any) must not be interpreted as segments.
func isShutdownLine(timestamp uint64) bool {
	return timestamp == shutdownSentinel
}
