// ════════════════════════════════════════════════════════════════════════════════════════════════
// LINE SEGMENT ENCODING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Per-Field Wire Format
//
// Description:
//   Each logged value becomes one segment: a one-byte tag discriminator
//   followed by a tag-specific payload. Integer (17 bytes) and float (25
//   bytes) segments have a fixed size; string segments take 9 bytes plus
//   the string's length. A log line is just a run of segments written back
//   to back into a ringbuf reservation, with no end tag: the record's
//   length bounds the walk — no length table, no pointer chasing on the
//   consumer side.
//
// Safety model:
//   - StringLiteral segments are reference-only: the byte slice backing
//     them must outlive the segment. Safe for Go string constants (backed
//     by the binary's rodata) and nothing else.
//   - OwnedString segments copy their bytes into a segment-owned array at
//     construction time and are safe to hold past the caller's stack frame.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package segment

import (
	"math"
	"unsafe"
)

// Tag discriminates the payload that follows it in the encoded stream.
type Tag byte

const (
	TagEnd           Tag = 0 // terminates a line; never appears mid-stream
	TagStringLiteral Tag = 1
	TagOwnedString   Tag = 2
	TagInteger       Tag = 3
	TagFloat         Tag = 4
)

// maxInlineString bounds an OwnedString's inline capacity. Longer strings
// are truncated — best-effort logging never blocks or allocates without
// bound on the producer's hot path.
const maxInlineString = 48

// Segment is one encoded field: a tag plus its payload, already laid out
// in the exact byte order Encode will write. Segment values are small
// enough to pass and copy by value.
type Segment struct {
	tag  Tag
	size int

	// strPtr/strLen describe a StringLiteral's reference-only bytes.
	strPtr *byte
	strLen int

	// inline holds an OwnedString's copied bytes, or an Integer/Float
	// payload's attrs+value/mantissa words. Sized to the larger of the
	// two uses (maxInlineString).
	inline [maxInlineString]byte
}

// Size returns the number of bytes Encode will write for this segment.
func (s Segment) Size() int { return s.size }

// Encode writes the segment's tag and payload into dst, which must have
// length at least Size(). It returns the number of bytes written.
func (s Segment) Encode(dst []byte) int {
	dst[0] = byte(s.tag)
	switch s.tag {
	case TagStringLiteral:
		putUint64(dst[1:], uint64(s.strLen))
		src := unsafe.Slice(s.strPtr, s.strLen)
		copy(dst[9:], src)
		return 9 + s.strLen
	case TagOwnedString:
		putUint64(dst[1:], uint64(s.strLen))
		copy(dst[9:], s.inline[:s.strLen])
		return 9 + s.strLen
	case TagInteger:
		copy(dst[1:], s.inline[:16])
		return 17
	case TagFloat:
		copy(dst[1:], s.inline[:24])
		return 25
	default:
		return 1
	}
}

func putUint64(dst []byte, v uint64) {
	*(*uint64)(unsafe.Pointer(&dst[0])) = v
}

func getUint64(src []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&src[0]))
}

// StringLiteral builds a zero-copy, reference-only segment over s. s must
// be a compile-time string constant (or otherwise permanently reachable);
// the segment stores a bare pointer into its backing array and does not
// retain a Go string header to keep s alive.
func StringLiteral(s string) Segment {
	if len(s) == 0 {
		return Segment{tag: TagStringLiteral, size: 9}
	}
	return Segment{
		tag:    TagStringLiteral,
		size:   9 + len(s),
		strPtr: unsafe.StringData(s),
		strLen: len(s),
	}
}

// OwnedString builds a segment that copies up to maxInlineString bytes of
// s, safe to enqueue from a value that does not outlive the calling frame.
func OwnedString(s string) Segment {
	n := len(s)
	if n > maxInlineString {
		n = maxInlineString
	}
	seg := Segment{tag: TagOwnedString, size: 9 + n, strLen: n}
	copy(seg.inline[:n], s[:n])
	return seg
}

// Bool encodes a boolean as a reference-only literal segment ("true" or
// "false"), mirroring the original's treatment of bool as a degenerate
// string literal rather than a numeric type.
func Bool(b bool) Segment {
	if b {
		return StringLiteral("true")
	}
	return StringLiteral("false")
}

// Integer builds a numeric segment carrying a packed attribute word and a
// raw 64-bit value (sign/width interpretation deferred to intfmt, driven
// by the attrs bits).
func Integer(attrs uint64, value uint64) Segment {
	seg := Segment{tag: TagInteger, size: 17}
	putUint64(seg.inline[0:8], attrs)
	putUint64(seg.inline[8:16], value)
	return seg
}

// Float64 builds a numeric segment carrying a packed attribute word and a
// float64 bit pattern.
func Float64(attrs uint64, value float64) Segment {
	seg := Segment{tag: TagFloat, size: 25}
	putUint64(seg.inline[0:8], attrs)
	putUint64(seg.inline[8:16], math.Float64bits(value))
	return seg
}

// Float32 widens value to float64 before encoding; floatfmt's attrs carry
// the original width via length_log2 so rendering still respects it.
func Float32(attrs uint64, value float32) Segment {
	return Float64(attrs, float64(value))
}

// Decoded is one segment read back out of an encoded byte stream.
type Decoded struct {
	Tag    Tag
	Str    []byte // valid for TagStringLiteral / TagOwnedString
	Attrs  uint64 // valid for TagInteger / TagFloat
	IValue uint64 // valid for TagInteger
	FValue float64
}

type decodeFn func(data []byte) (Decoded, int)

var decodeTable = [256]decodeFn{}

func init() {
	decodeTable[TagStringLiteral] = decodeString
	decodeTable[TagOwnedString] = decodeString
	decodeTable[TagInteger] = decodeInteger
	decodeTable[TagFloat] = decodeFloat
}

func decodeString(data []byte) (Decoded, int) {
	n := int(getUint64(data[1:]))
	str := data[9 : 9+n]
	return Decoded{Tag: Tag(data[0]), Str: str}, 9 + n
}

func decodeInteger(data []byte) (Decoded, int) {
	attrs := getUint64(data[1:9])
	value := getUint64(data[9:17])
	return Decoded{Tag: TagInteger, Attrs: attrs, IValue: value}, 17
}

func decodeFloat(data []byte) (Decoded, int) {
	attrs := getUint64(data[1:9])
	bits := getUint64(data[9:17])
	return Decoded{Tag: TagFloat, Attrs: attrs, FValue: math.Float64frombits(bits)}, 25
}

// Decode reads one segment from the front of data and reports how many
// bytes it consumed. It returns ok=false on TagEnd or an unrecognized tag,
// signaling the caller to stop walking the stream.
func Decode(data []byte) (decoded Decoded, consumed int, ok bool) {
	if len(data) == 0 {
		return Decoded{}, 0, false
	}
	fn := decodeTable[data[0]]
	if fn == nil {
		return Decoded{}, 0, false
	}
	decoded, consumed = fn(data)
	return decoded, consumed, true
}
