// ════════════════════════════════════════════════════════════════════════════════════════════════
// DRAIN LOOP
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Multi-Producer Fan-In Consumer
//
// Description:
//   The single consumer side of every producer's ring. Round-robins all
//   live buffers once per pass, decodes each line it finds, and writes a
//   rendered line to the configured sink. Backs off from spinning to
//   sleeping when a full pass finds nothing, and snaps back to spinning
//   the moment it finds something again.
//
// Shutdown model:
//   - Default: the first producer to enqueue the sentinel line stops the
//     whole loop once a later pass finds every buffer empty.
//   - QuiesceAll: waits until every producer id that was ever handed out
//     has sent its own sentinel.
//   - Emergency: returns within one pass, regardless of pending data.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package drain

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/emberforge/emberlog/clock"
	"github.com/emberforge/emberlog/floatfmt"
	"github.com/emberforge/emberlog/intfmt"
	"github.com/emberforge/emberlog/ringbuf"
	"github.com/emberforge/emberlog/segment"
	"github.com/emberforge/emberlog/sink"
)

const lineHeaderSize = 8
const shutdownSentinel = ^uint64(0)

// Params configures one Loop invocation. MaxAssigned and Ring are
// pulled from the registry/ring-table the caller owns; Loop never
// allocates a ring itself.
type Params struct {
	MaxAssigned func() uint32
	Ring        func(id uint32) *ringbuf.Ring
	Clock       clock.Clock
	Sink        sink.Sink
	StartTime   uint64
	SpinMax     int
	Sleep       time.Duration
	QuiesceAll  bool
	Emergency   *atomic.Bool

	// PinCPU, when non-nil, binds the drain loop's OS thread to that CPU
	// core for the duration of Loop.
	PinCPU *int
}

type backoffState int

const (
	stateSpin backoffState = iota
	stateSleep
)

// Loop runs the fan-in consumer until shutdown, emergency shutdown, or
// ctx cancellation. It blocks the calling goroutine.
func Loop(ctx context.Context, p Params) error {
	if p.PinCPU != nil {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		Pin(*p.PinCPU)
	}

	done := make([]bool, 256)
	shutdownRequested := false

	state := stateSpin
	spinCount := 0

	var lineBuf []byte

	for {
		if p.Emergency != nil && p.Emergency.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		anyConsumed := false
		maxID := p.MaxAssigned()

		for id := uint32(0); id < maxID; id++ {
			ring := p.Ring(id)
			if ring == nil {
				continue
			}

			// One record per producer per pass, matching the round-robin
			// fairness of the original C++ drain loop: a producer that
			// never stops writing must not starve its neighbors.
			consumedOne := ring.Consume(func(data []byte, length int64) bool {
				timestamp := getLineHeader(data)
				if isShutdownLine(timestamp) {
					done[id] = true
					shutdownRequested = true
					return true
				}

				seconds := clock.Seconds(p.Clock, timestamp-p.StartTime)
				body := data[lineHeaderSize:length]
				dispatchLine(p.Sink, id, seconds, body, &lineBuf)
				return true
			})
			if consumedOne {
				anyConsumed = true
			}
		}

		if readyToStop(p, done, maxID, shutdownRequested, anyConsumed) {
			return nil
		}

		if anyConsumed {
			spinCount = 0
			state = stateSpin
			continue
		}

		switch state {
		case stateSpin:
			cpuRelax()
			spinCount++
			if spinCount >= p.SpinMax {
				state = stateSleep
			}
		case stateSleep:
			time.Sleep(p.Sleep)
		}
	}
}

// readyToStop reports whether the loop should exit after this pass. A
// sentinel alone is never enough: the original's do_logging() only
// checks shutdown_requested inside its all-threads-empty branch, so this
// pass must also have found every ring empty (anyConsumed == false)
// before stopping — otherwise a sentinel observed on one producer's ring
// could cut off another producer's still-buffered lines.
func readyToStop(p Params, done []bool, maxID uint32, shutdownRequested, anyConsumed bool) bool {
	if !shutdownRequested || anyConsumed {
		return false
	}
	if !p.QuiesceAll {
		return true
	}
	for id := uint32(0); id < maxID; id++ {
		if p.Ring(id) != nil && !done[id] {
			return false
		}
	}
	return true
}

func getLineHeader(buf []byte) uint64 {
	var v uint64
	for i := 0; i < lineHeaderSize; i++ {
		v |= uint64(buf[i]) << (8 * i)
	}
	return v
}

func isShutdownLine(timestamp uint64) bool { return timestamp == shutdownSentinel }

// dispatchLine renders body's segments into a message and hands it to out
// the most structured way that out supports: RecordWriter gets the bare
// message plus id/seconds as fields, LineWriter gets the fully prefixed
// line plus the id (so it can colorize per producer), and a plain Sink
// just gets the fully prefixed bytes. scratch is reused across calls to
// avoid a per-line allocation on this (single-goroutine) consumer path.
func dispatchLine(out sink.Sink, id uint32, seconds float64, body []byte, scratch *[]byte) {
	switch sk := out.(type) {
	case sink.RecordWriter:
		*scratch = renderMessage((*scratch)[:0], body)
		sk.WriteRecord(id, seconds, string(*scratch))
	case sink.LineWriter:
		*scratch = renderPrefixedLine((*scratch)[:0], id, seconds, body)
		sk.WriteLine(id, *scratch)
	default:
		*scratch = renderPrefixedLine((*scratch)[:0], id, seconds, body)
		out.Write(*scratch)
	}
}

// renderPrefixedLine writes "\n[<id>] <seconds>: " followed by every
// segment in body, rendered per its kind.
func renderPrefixedLine(dst []byte, id uint32, seconds float64, body []byte) []byte {
	dst = append(dst, '\n', '[')
	dst = strconv.AppendUint(dst, uint64(id), 10)
	dst = append(dst, ']', ' ')
	dst = appendFixedWidthSeconds(dst, seconds)
	dst = append(dst, ':', ' ')
	return renderMessage(dst, body)
}

// renderMessage decodes and renders body's segments with no line prefix,
// for sinks (RecordWriter) that keep id/seconds as structured fields
// instead of folding them into the text.
func renderMessage(dst []byte, body []byte) []byte {
	offset := 0
	for offset < len(body) {
		decoded, consumed, ok := segment.Decode(body[offset:])
		if !ok {
			break
		}
		dst = renderSegment(dst, decoded)
		offset += consumed
	}
	return dst
}

// appendFixedWidthSeconds mimics printf's "%13.6f": six fractional
// digits, right-aligned to a total width of 13 with space padding.
func appendFixedWidthSeconds(dst []byte, seconds float64) []byte {
	var num [32]byte
	rendered := strconv.AppendFloat(num[:0], seconds, 'f', 6, 64)
	for pad := 13 - len(rendered); pad > 0; pad-- {
		dst = append(dst, ' ')
	}
	return append(dst, rendered...)
}

func renderSegment(dst []byte, d segment.Decoded) []byte {
	switch d.Tag {
	case segment.TagStringLiteral, segment.TagOwnedString:
		return append(dst, d.Str...)
	case segment.TagInteger:
		return intfmt.Append(dst, segment.IntAttrsFromWord(d.Attrs), d.IValue)
	case segment.TagFloat:
		return floatfmt.Append(dst, segment.FloatAttrsFromWord(d.Attrs), d.FValue)
	default:
		return dst
	}
}
