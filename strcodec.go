package flatjson

import "strings"

// decodeStop marks, for each input byte, whether the string scanner's
// fast-path run must stop and look closer: quote, backslash, and every
// control byte below 0x20 (which is illegal unescaped inside a JSON
// string).
var decodeStop = [256]bool{
	'"':  true,
	'\\': true,
}

func init() {
	for b := 0; b < 0x20; b++ {
		decodeStop[b] = true
	}
}

// hexNibble decodes a single ASCII hex digit. ok is false for anything
// else, which is a decode failure.
func hexNibble(b byte) (v uint16, ok bool) {
	switch {
	case b >= '0' && b <= '9':
		return uint16(b - '0'), true
	case b >= 'a' && b <= 'f':
		return uint16(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return uint16(b-'A') + 10, true
	default:
		return 0, false
	}
}

// High/low surrogate ranges for combining a \u escape pair into one rune.
const (
	surrogateHighLo = 0xD800
	surrogateHighHi = 0xDBFF
	surrogateLowLo  = 0xDC00
	surrogateLowHi  = 0xDFFF
)

// encodeEscape maps a byte to its short JSON escape letter, or 0 if the
// byte passes through unescaped, or 'u' if it must be emitted as \u00XX.
var encodeEscape = [256]byte{
	0x00: 'u', 0x01: 'u', 0x02: 'u', 0x03: 'u', 0x04: 'u', 0x05: 'u', 0x06: 'u', 0x07: 'u',
	0x08: 'b', 0x09: 't', 0x0A: 'n', 0x0B: 'u', 0x0C: 'f', 0x0D: 'r', 0x0E: 'u', 0x0F: 'u',
	0x10: 'u', 0x11: 'u', 0x12: 'u', 0x13: 'u', 0x14: 'u', 0x15: 'u', 0x16: 'u', 0x17: 'u',
	0x18: 'u', 0x19: 'u', 0x1A: 'u', 0x1B: 'u', 0x1C: 'u', 0x1D: 'u', 0x1E: 'u', 0x1F: 'u',
	'"':  '"',
	'\\': '\\',
}

const hexDigits = "0123456789abcdef"

// escapeStringInto appends the JSON-quoted form of s to out: a linear scan
// with a running start-of-unescaped-span index, copying through unescaped
// runs in one shot.
func escapeStringInto(out *strings.Builder, s string) {
	out.WriteByte('"')

	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		esc := encodeEscape[c]
		if esc == 0 {
			continue
		}
		if start < i {
			out.WriteString(s[start:i])
		}
		switch esc {
		case 'u':
			out.WriteString(`\u00`)
			out.WriteByte(hexDigits[c>>4])
			out.WriteByte(hexDigits[c&0xF])
		default:
			out.WriteByte('\\')
			out.WriteByte(esc)
		}
		start = i + 1
	}
	if start != len(s) {
		out.WriteString(s[start:])
	}
	out.WriteByte('"')
}
