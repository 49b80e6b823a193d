// ════════════════════════════════════════════════════════════════════════════════════════════════
// FLOAT RENDERING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Float Segment Renderer
//
// Description:
//   Renders a float64 payload plus its packed attribute word
//   (segment.FloatAttrs) into ASCII. Unlike intfmt this package leans on
//   strconv.AppendFloat for the digit math — float formatting correctness
//   (rounding, shortest round-trip representation) is not something worth
//   reimplementing, only the verb and sign/padding plumbing around it is
//   specific to this format.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package floatfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/emberforge/emberlog/segment"
)

// Append renders value per attrs and appends the result to dst.
func Append(dst []byte, attrs segment.FloatAttrs, value float64) []byte {
	if math.IsNaN(value) {
		return appendSpecial(dst, attrs, "NaN", false)
	}
	if math.IsInf(value, 1) {
		return appendSpecial(dst, attrs, "Inf", false)
	}
	if math.IsInf(value, -1) {
		return appendSpecial(dst, attrs, "Inf", true)
	}

	verb, prec := verbAndPrecision(attrs)
	negative := math.Signbit(value)
	magnitude := math.Abs(value)

	bitSize := 64
	if attrs.LengthLog2() == 2 {
		bitSize = 32
	}
	body := strconv.AppendFloat(nil, magnitude, verb, prec, bitSize)
	body = forceDecimalPoint(body, attrs)
	if attrs.IsUppercase() {
		for i, c := range body {
			switch c {
			case 'a', 'b', 'c', 'd', 'e', 'f', 'x', 'p':
				body[i] = c - ('a' - 'A')
			}
		}
	}

	sign, padSign := signFor(attrs, negative)
	if sign != 0 {
		dst = append(dst, sign)
	} else if padSign {
		dst = append(dst, ' ')
	}
	return append(dst, body...)
}

// forceDecimalPoint implements the "#" flag's float behavior: when set,
// an integral-valued rendering still gets a trailing decimal point (e.g.
// "3" becomes "3.", "0x1p+10" becomes "0x1.p+10") instead of looking like
// an integer.
func forceDecimalPoint(body []byte, attrs segment.FloatAttrs) []byte {
	if !attrs.AlwaysShowDecimalPoint() {
		return body
	}
	for _, c := range body {
		if c == '.' {
			return body
		}
	}
	for i, c := range body {
		if c == 'e' || c == 'p' {
			out := make([]byte, 0, len(body)+1)
			out = append(out, body[:i]...)
			out = append(out, '.')
			return append(out, body[i:]...)
		}
	}
	return append(body, '.')
}

func appendSpecial(dst []byte, attrs segment.FloatAttrs, text string, negative bool) []byte {
	sign, padSign := signFor(attrs, negative)
	if sign != 0 {
		dst = append(dst, sign)
	} else if padSign {
		dst = append(dst, ' ')
	}
	if attrs.IsUppercase() {
		text = strings.ToUpper(text)
	}
	return append(dst, text...)
}

func signFor(attrs segment.FloatAttrs, negative bool) (sign byte, padSign bool) {
	if negative {
		return '-', false
	}
	switch attrs.SignHandling() {
	case segment.FloatSignShowAlways:
		return '+', false
	case segment.FloatSignPadIfPositive:
		return 0, true
	default:
		return 0, false
	}
}

// verbAndPrecision maps attrs' display style and precision to the verb
// and precision arguments strconv.AppendFloat expects. An unspecified
// precision passes -1 through, which asks strconv for the shortest
// representation that round-trips exactly.
func verbAndPrecision(attrs segment.FloatAttrs) (verb byte, prec int) {
	prec = -1
	if p, unspecified := attrs.Precision(); !unspecified {
		prec = int(p)
	}

	switch attrs.DisplayStyle() {
	case segment.FloatDisplayScientific:
		return 'e', prec
	case segment.FloatDisplayHexadecimal:
		return 'x', prec
	case segment.FloatDisplayAdaptive:
		return 'g', prec
	default:
		return 'f', prec
	}
}
