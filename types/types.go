// types.go — Shared pipeline records
// ============================================================================
// PIPELINE DATA CONTRACTS
// ============================================================================
//
// Types package defines the records circulated between the three pinned
// stages. A Job never owns memory: its segments view slices carved from
// the arena, and ownership transfers with the job index through the rings.
//
// Layout notes:
//   • Segment is a view triple (buffer, length, offset) over arena memory
//   • Job carries up to two segments: carry slot first, read slot second
//   • Records are padded to a cache line so adjacent jobs never false-share
//
// Ownership model:
//   • Exactly one stage observes a job at any time
//   • Ring handoff publishes all prior writes to the segment fields
// ============================================================================

package types

// ============================================================================
// SEGMENT VIEW
// ============================================================================

// Segment is a window into one arena slot. The semantic byte range is
// Buff[Off : Off+Len]; bytes outside the window are scratch space owned
// by whichever stage currently holds the enclosing job.
type Segment struct {
	// Buff aliases the arena slot backing this segment. The slice header
	// is fixed at startup; only Len and Off move during circulation.
	Buff []byte

	// Len is the number of semantic bytes in the window. Zero means the
	// segment contributes nothing to the output.
	Len int

	// Off is the index of the first semantic byte inside Buff. Nonzero
	// only after the carry protocol trims a completed prefix.
	Off int
}

// Bytes returns the semantic window of the segment.
//
//go:inline
func (s *Segment) Bytes() []byte {
	return s.Buff[s.Off : s.Off+s.Len]
}

// Reset clears the window without touching the backing slot.
//
//go:inline
func (s *Segment) Reset() {
	s.Len = 0
	s.Off = 0
}

// ============================================================================
// JOB RECORD
// ============================================================================

// Job is the unit of work circulated through the rings by index. Seg[0]
// is the carry slot (completed line spilled across a buffer boundary),
// Seg[1] is the read slot (bytes from the most recent read). The Writer
// emits Seg[0] before Seg[1] whenever both are non-empty.
//
//go:align 64
type Job struct {
	// Seg holds the carry view and the read view, in emission order.
	Seg [2]Segment

	// SegCount is the number of segments the Worker marked emittable.
	// Diagnostic only; the Writer trusts the Len fields.
	SegCount int8

	// EOF marks the final job of the stream. Set by the Reader on a
	// zero-length read; the Writer exits after draining it. A trimmed
	// job with zero remaining bytes is NOT end of stream.
	EOF bool

	// _ pads the record to two cache lines so neighboring jobs in the
	// job table never share a line.
	_ [128 - 2*(24+8+8) - 2]byte
}
