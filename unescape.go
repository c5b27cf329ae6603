// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

import (
	"go4.org/mem"
)

// Unescape decodes the JSON string content named by tok, which must be a
// String or Key token, returning a read-only view of the decoded bytes.
//
// When the string contains no escape sequences, Unescape returns a view
// directly into in between the token's quotation marks, with no copying
// and no allocation. When escapes are present, Unescape writes the decoded
// bytes over the original escaped bytes in place — the decoded form is
// never longer than its escaped source — and returns a view of that
// shorter prefix. Either way the original input buffer is the only memory
// Unescape touches; it never allocates.
//
// \uXXXX escapes are left exactly as written, backslash and all; Unescape
// does not convert them to any multibyte encoding. Decoding them is the
// caller's responsibility. An incomplete escape at the end of the string
// is impossible here because the scanner already verified the string was
// properly closed.
func Unescape[Tok any, PT tokenSink[Tok]](in []byte, tok PT) mem.RO {
	lo, hi := tok.Start()+1, tok.End()-1 // strip the surrounding quotes
	raw := in[lo:hi]

	i := indexByte(raw, '\\')
	if i < 0 {
		return mem.B(raw)
	}

	w := i // write cursor; bytes before it are already in final form
	r := i // read cursor
	for r < len(raw) {
		if raw[r] != '\\' {
			raw[w] = raw[r]
			w++
			r++
			continue
		}
		r++ // skip backslash
		if r >= len(raw) {
			break // the scanner guarantees this cannot happen
		}
		switch raw[r] {
		case '"', '\\', '/':
			raw[w] = raw[r]
			w++
			r++
		case 'b':
			raw[w] = '\b'
			w++
			r++
		case 'f':
			raw[w] = '\f'
			w++
			r++
		case 'n':
			raw[w] = '\n'
			w++
			r++
		case 'r':
			raw[w] = '\r'
			w++
			r++
		case 't':
			raw[w] = '\t'
			w++
			r++
		case 'u':
			// Left untouched: \uXXXX is never converted to a multibyte
			// encoding here. Copy the backslash, the 'u', and its four
			// hex digits through exactly as written.
			raw[w] = '\\'
			raw[w+1] = raw[r]
			w += 2
			r++
			for j := 0; j < 4 && r < len(raw); j++ {
				raw[w] = raw[r]
				w++
				r++
			}
		default:
			// The scanner consumes the byte after a backslash unconditionally
			// without checking it against the set of valid JSON escapes, so
			// an ill-formed escape can reach here. Pass it through unchanged.
			raw[w] = raw[r]
			w++
			r++
		}
	}
	return mem.B(raw[:w])
}

// indexByte is a tiny local helper so Unescape does not need to import
// bytes just for this one call.
func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
