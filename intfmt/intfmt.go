// ════════════════════════════════════════════════════════════════════════════════════════════════
// INTEGER RENDERING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Integer Segment Renderer
//
// Description:
//   Renders a raw 64-bit integer payload plus its packed attribute word
//   (segment.IntAttrs) into ASCII, entirely without allocation or calls
//   into strconv — the drain loop is the only reader of this package and
//   it runs off the producer's hot path, but it still runs once per log
//   line so every avoided allocation matters.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package intfmt

import (
	"math/bits"
	"unicode/utf8"

	"github.com/emberforge/emberlog/segment"
)

const lowerHexDigits = "0123456789abcdef"
const upperHexDigits = "0123456789ABCDEF"

// decimalPairs holds the two-ASCII-digit representation of every value in
// [0, 100), avoiding a division per digit when peeling two at a time.
var decimalPairs = buildDecimalPairs()

func buildDecimalPairs() [200]byte {
	var t [200]byte
	for i := 0; i < 100; i++ {
		t[i*2] = byte('0' + i/10)
		t[i*2+1] = byte('0' + i%10)
	}
	return t
}

// maxRendered bounds the longest possible rendering: a 64-bit value in
// binary-ish worst case is 20 decimal digits plus a sign, or 16 hex
// digits plus a "0x"-less prefix — 24 bytes covers both with room for a
// sign and is never exceeded regardless of padding (padding is capped at
// 31 by the 5-bit padded_length field).
const maxRendered = 24

// widthFromLog2 maps a segment's length_log2 attribute to a byte width,
// matching the ctu::log2_v encoding the original packs into integer_data.
func widthFromLog2(log2 uint) uint {
	return 1 << log2
}

// signExtend widens raw to a signed value of the given byte width before
// any decimal rendering, so a narrower-than-64-bit negative integer
// doesn't render as a huge unsigned one.
func signExtend(raw uint64, width uint) int64 {
	shift := (8 - width) * 8
	return int64(raw<<shift) >> shift
}

func maskToWidth(raw uint64, width uint) uint64 {
	if width >= 8 {
		return raw
	}
	return raw & (uint64(1)<<(width*8) - 1)
}

// Append renders value per attrs and appends the result to dst, returning
// the grown slice.
func Append(dst []byte, attrs segment.IntAttrs, value uint64) []byte {
	width := widthFromLog2(attrs.LengthLog2())

	var body [maxRendered]byte
	var n int
	var negative bool

	if attrs.IsHex() {
		n, negative = appendHexBody(body[:], maskToWidth(value, width), attrs.IsUppercase())
	} else if attrs.IsUnsigned() {
		n, negative = appendDecimalBody(body[:], maskToWidth(value, width))
	} else {
		signed := signExtend(value, width)
		if signed < 0 {
			negative = true
			n, _ = appendDecimalBody(body[:], uint64(-signed))
		} else {
			n, _ = appendDecimalBody(body[:], uint64(signed))
		}
	}

	rendered := body[:n]

	signCh := byte(0)
	if negative {
		signCh = '-'
	} else if attrs.ShowSign() {
		signCh = '+'
	}

	total := n
	if signCh != 0 {
		total++
	}

	padded := int(attrs.PaddedLength())
	if padded <= total {
		if signCh != 0 {
			dst = append(dst, signCh)
		}
		return append(dst, rendered...)
	}

	padCh := attrs.PaddingCodepoint()
	fillN := padded - total

	if attrs.IsLeftAligned() {
		if signCh != 0 {
			dst = append(dst, signCh)
		}
		dst = append(dst, rendered...)
		return appendRuneN(dst, padCh, fillN)
	}

	if signCh != 0 {
		dst = append(dst, signCh)
	}
	dst = appendRuneN(dst, padCh, fillN)
	return append(dst, rendered...)
}

func appendRuneN(dst []byte, r rune, n int) []byte {
	for i := 0; i < n; i++ {
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

// appendDecimalBody writes the unsigned decimal digits of v into dst and
// returns the count written. It peels two digits at a time from
// decimalPairs until fewer than 100 remain.
func appendDecimalBody(dst []byte, v uint64) (n int, _ bool) {
	if v == 0 {
		dst[0] = '0'
		return 1, false
	}

	var tmp [20]byte
	i := len(tmp)
	for v >= 100 {
		q := v / 100
		idx := (v - q*100) * 2
		i -= 2
		tmp[i] = decimalPairs[idx]
		tmp[i+1] = decimalPairs[idx+1]
		v = q
	}
	if v >= 10 {
		i -= 2
		tmp[i] = decimalPairs[v*2]
		tmp[i+1] = decimalPairs[v*2+1]
	} else {
		i--
		tmp[i] = byte('0' + v)
	}

	n = copy(dst, tmp[i:])
	return n, false
}

// appendHexBody writes the hex digits of v (minus leading zero nibbles)
// into dst. v==0 renders as a single "0" digit, matching %x.
func appendHexBody(dst []byte, v uint64, upper bool) (n int, _ bool) {
	table := lowerHexDigits
	if upper {
		table = upperHexDigits
	}
	if v == 0 {
		dst[0] = '0'
		return 1, false
	}
	nibbles := (bits.Len64(v) + 3) / 4
	for i := nibbles - 1; i >= 0; i-- {
		shift := uint(i) * 4
		dst[nibbles-1-i] = table[(v>>shift)&0xf]
	}
	return nibbles, false
}
