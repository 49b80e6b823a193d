// ════════════════════════════════════════════════════════════════════════════════════════════════
// OUTPUT SINKS
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Drain Loop Output Surface
//
// Description:
//   A Sink is wherever the drain loop writes a fully rendered line. This
//   package supplies the two the drain loop needs out of the box; callers
//   can plug in any io.Writer since Sink is just that interface by name.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package sink

import "io"

// Sink receives one rendered log line per Write call. It is exactly
// io.Writer, named so drain.Params reads clearly at the call site.
type Sink interface {
	io.Writer
}

// LineWriter is implemented by sinks that can do something useful with the
// producer id behind a line (e.g. Console's per-producer coloring)
// instead of only ever seeing an opaque, already-formatted byte slice.
// The drain loop prefers this over plain Write when a sink supports it.
type LineWriter interface {
	WriteLine(producerID uint32, line []byte) (int, error)
}

// RecordWriter is implemented by sinks that want the producer id and
// timestamp as structured fields rather than folded into rendered text
// (e.g. JSONLines). The drain loop prefers this over plain Write when a
// sink supports it, passing the segment-rendered message with no
// "[id] seconds:" prefix attached.
type RecordWriter interface {
	WriteRecord(producerID uint32, seconds float64, message string) error
}
