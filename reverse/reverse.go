// reverse.go — In-place UTF-8 aware range reversal
// ============================================================================
// RANGE REVERSAL CORE
// ============================================================================
//
// Reverse package implements the two-pass byte-range reversal at the heart
// of the worker stage. Pass one mirrors the raw bytes; pass two walks the
// mirrored range and re-reverses each multi-byte sequence so code points
// come out back-to-front while their encodings stay intact.
//
// Encoding model:
//   • Continuation byte: (b & 0xC0) == 0x80
//   • Lead byte of a multi-byte sequence: 0xC2 .. 0xF4
//   • ASCII bytes pass through pass two untouched
//
// Failure model:
//   • A continuation run not closed by a valid lead byte is malformed
//   • A non-ASCII byte with no continuation run behind it is malformed
//   • The error carries the range-relative offset of the offending run
//
// Performance:
//   • Zero allocation on the success path
//   • Single forward scan in pass two, no lookup tables
// ============================================================================

package reverse

import "linerev/utils"

// ============================================================================
// ERROR REPORTING
// ============================================================================

// MalformedError reports an invalid UTF-8 sequence found during pass two.
// Offset is the byte position relative to the start of the reversed range,
// measured in the range's original (pre-reversal) orientation.
type MalformedError struct {
	Offset int64
}

// Error implements the error interface without fmt.
func (e *MalformedError) Error() string {
	return "malformed utf-8 sequence at byte offset " + utils.Itoa(int(e.Offset))
}

// ============================================================================
// BYTE CLASSIFICATION
// ============================================================================

// isContinuation reports whether b is a UTF-8 continuation byte.
//
//go:nosplit
//go:inline
func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// isLead reports whether b can open a multi-byte UTF-8 sequence. 0xC0 and
// 0xC1 encode overlong forms and 0xF5+ exceed the Unicode range, so both
// ends are excluded.
//
//go:nosplit
//go:inline
func isLead(b byte) bool {
	return b >= 0xC2 && b <= 0xF4
}

// ============================================================================
// TWO-PASS REVERSAL
// ============================================================================

// flip mirrors buf[from:to] in place.
//
//go:nosplit
//go:inline
func flip(buf []byte, from, to int) {
	for i, j := from, to-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Range reverses buf[from:to] in place, preserving multi-byte UTF-8
// sequences. On a malformed sequence the range is left mirrored (the
// caller discards it on fault) and the returned error carries the byte
// offset of the bad run relative to from, in pre-reversal orientation.
//
//go:registerparams
func Range(buf []byte, from, to int) error {
	flip(buf, from, to)

	// After the mirror every multi-byte sequence appears with its
	// continuation bytes first and its lead byte last. Re-reverse each
	// such group to restore the encoding.
	for i := from; i < to; {
		if !isContinuation(buf[i]) {
			if buf[i] >= 0x80 {
				// A lead byte with no continuation bytes after it in the
				// original orientation, or a byte that never occurs in
				// UTF-8 (0xC0, 0xC1, 0xF5..0xFF).
				return &MalformedError{Offset: int64(to - 1 - i)}
			}
			i++
			continue
		}
		j := i
		for j < to && isContinuation(buf[j]) {
			j++
		}
		if j == to || !isLead(buf[j]) {
			// Report where the sequence sat before the mirror: mirrored
			// index m maps back to range offset to-1-m.
			return &MalformedError{Offset: int64(to - j)}
		}
		flip(buf, i, j+1)
		i = j + 1
	}
	return nil
}
