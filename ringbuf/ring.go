// ════════════════════════════════════════════════════════════════════════════════════════════════
// VARIABLE-LENGTH SPSC RING BUFFER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Per-Producer Log Line Staging Buffer
//
// Description:
//   Lock-free single-producer/single-consumer ring queue storing length-
//   prefixed records of arbitrary size, with wrap-around handled by a
//   negative-length marker record rather than a split (scatter/gather)
//   write. One ring per producer goroutine; the drain loop is the sole
//   consumer of all of them.
//
// Architecture overview:
//   - Byte-granular backing array sized as a power of two (bit-mask index)
//   - produce_pos / consume_pos each isolated on their own cache line
//   - Word-sized (8-byte) signed length headers: positive = real record,
//     negative = wrap marker whose magnitude is the skip distance
//
// Safety model:
//   - SPSC discipline required: exactly one producer, one consumer
//   - Producer-side reservation failure is non-fatal (best effort — the
//     caller loses one record)
//   - Consumer-side handler rejection never loses data: the position is
//     not advanced and the same record is offered again on retry
// ════════════════════════════════════════════════════════════════════════════════════════════════

package ringbuf

import (
	"sync/atomic"
	"unsafe"
)

// wordSize is the length-header width in bytes. All record strides are a
// multiple of it, matching the int64 header from the source this buffer
// is ported from (original_source/src/spsc_ring_buffer.hpp).
const wordSize = 8

// Ring is a fixed-capacity byte region holding length-prefixed records.
// Size must be a power of two; head and tail counters live on separate
// cache lines to keep producer and consumer from fighting over the same
// cache line (the same isolation idiom as ring/ring.go and ring24/ring.go
// in the teacher repo).
type Ring struct {
	_          [64]byte
	producePos atomic.Uint64 // written only by the producer
	_          [56]byte
	consumePos atomic.Uint64 // written only by the consumer
	_          [56]byte
	mask       uint64
	size       uint64
	buf        []byte
}

// New allocates a ring with capacity 1<<sizeLog2 bytes.
func New(sizeLog2 uint) *Ring {
	size := uint64(1) << sizeLog2
	return &Ring{
		mask: size - 1,
		size: size,
		buf:  make([]byte, size),
	}
}

// Size returns the buffer's total capacity in bytes.
func (r *Ring) Size() uint64 { return r.size }

func roundUp8(n int64) int64 {
	return (n + (wordSize - 1)) &^ (wordSize - 1)
}

func putHeader(buf []byte, offset uint64, value int64) {
	*(*int64)(unsafe.Pointer(&buf[offset])) = value
}

func getHeader(buf []byte, offset uint64) int64 {
	return *(*int64)(unsafe.Pointer(&buf[offset]))
}

// Produce reserves length bytes and invokes fill exactly once with a
// slice of that many writable bytes. If fill returns false the
// reservation is abandoned; no bytes become visible to the consumer.
//
// Produce rejects immediately when length is non-positive, length is at
// or beyond the buffer size, or the reservation (including any wrap
// marker it would need) does not fit in the free space.
func (r *Ring) Produce(length int64, fill func([]byte) bool) bool {
	if length <= 0 || length >= int64(r.size) {
		return false
	}

	consumePos := r.consumePos.Load()
	producePos := r.producePos.Load()

	rounded := roundUp8(length)
	need := rounded + wordSize

	if int64(producePos-consumePos) > int64(r.size)-need {
		return false
	}

	wrap := int64(r.size) - int64(producePos&r.mask)
	if wrap < need {
		if int64(producePos+uint64(wrap)-consumePos) > int64(r.size)-need {
			return false
		}
		putHeader(r.buf, producePos&r.mask, -wrap)
		producePos += uint64(wrap)
	}

	putHeader(r.buf, producePos&r.mask, length)
	dataOff := (producePos & r.mask) + wordSize

	if !fill(r.buf[dataOff : dataOff+uint64(length)]) {
		return false
	}

	r.producePos.Store(producePos + uint64(need))
	return true
}

// Consume peeks at the oldest record and invokes handle exactly once with
// its bytes and length if one is present. On a truthy return, the
// position advances past the record; otherwise the record remains for a
// later retry. Returns false when the buffer is empty.
func (r *Ring) Consume(handle func(data []byte, length int64) bool) bool {
	consumePos := r.consumePos.Load()
	producePos := r.producePos.Load()

	if producePos == consumePos {
		return false
	}

	length := getHeader(r.buf, consumePos&r.mask)
	if length < 0 {
		consumePos += uint64(-length)
		length = getHeader(r.buf, consumePos&r.mask)
	}

	dataOff := (consumePos & r.mask) + wordSize
	if !handle(r.buf[dataOff:dataOff+uint64(length)], length) {
		return false
	}

	r.consumePos.Store(consumePos + uint64(roundUp8(length)) + wordSize)
	return true
}

// ConsumeAll drains records until the buffer observes empty. It returns
// true iff the final observation was empty (a false-returning handle call
// stops the drain early and reports false).
func (r *Ring) ConsumeAll(handle func(data []byte, length int64) bool) bool {
	for {
		producePos := r.producePos.Load()
		consumePos := r.consumePos.Load()
		if producePos == consumePos {
			return true
		}
		if !r.Consume(handle) {
			return false
		}
	}
}

// IsEmpty is a snapshot, not a barrier: the result may already be stale
// by the time the caller observes it.
func (r *Ring) IsEmpty() bool {
	return r.producePos.Load() == r.consumePos.Load()
}
