// worker.go — Stage 2: line reversal and the carry protocol
// ============================================================================
// WORKER STAGE
// ============================================================================
//
// The worker reverses every complete line it can see and spills the
// unterminated tail of each buffer into a private carry slot so lines
// spanning a buffer boundary come out whole. Three cases per job:
//
//   Case A — carry empty:
//     Reverse each complete line inside the read segment in place,
//     deposit the tail after the last terminator into the carry, trim
//     the segment to the completed prefix.
//
//   Case B — carry occupied, terminator present:
//     Append the completing prefix (terminator included) to the carry,
//     reverse the assembled line, swap the carry slot into the job's
//     first segment, then run Case A over the remainder.
//
//   Case C — carry occupied, no terminator:
//     A full read means the line keeps going past what the carry slot
//     can ever hold: fatal. A short or empty read marks end of stream:
//     fold the remainder into the carry, reverse the whole of it as
//     the unterminated final line, and ship it.
//
// The swap in Case B/C is the zero-copy trick: the worker trades its
// private slot for the job's idle one, so the completed line travels
// by pointer while the worker keeps a fresh slot for the next spill.
//
// Terminator handling: the reversal range ends before the '\n' and
// steps back once more when a '\r' precedes it, so CRLF endings are
// preserved verbatim.
// ============================================================================

package pipeline

import (
	"linerev/constants"
	"linerev/control"
	"linerev/reverse"
	"linerev/ring8"
	"linerev/types"
)

// carryState is the worker's private spill buffer between jobs.
type carryState struct {
	buf []byte // Capacity 2·B, swapped with job slots in Case B/C
	n   int    // Occupied prefix length
}

func (p *Pipeline) workerLoop() {
	defer p.wg.Done()
	ring8.Pin(p.core(constants.WorkerCore))

	carry := carryState{buf: p.ar.CarrySlot(p.ar.JobCount())}

	for {
		idx, ok := ring8.PopWait(p.workRing, p.workGate, control.Stopped)
		if !ok {
			return
		}
		job := &p.jobs[idx]

		if !p.process(job, &carry) {
			return // Fault already recorded and broadcast
		}

		sc := int8(0)
		if job.Seg[0].Len > 0 {
			sc++
		}
		if job.Seg[1].Len > 0 {
			sc++
		}
		job.SegCount = sc
		if sc == 2 {
			p.stats.TwoSegmentJobs++
		}

		eof := job.EOF
		if !ring8.PushWake(p.writeRing, p.writeGate, idx) {
			p.fail(control.QueueProtocol, errRingFull, -1)
			return
		}
		if eof {
			return
		}
	}
}

// process applies the carry protocol to one job. Returns false after
// recording a fault.
func (p *Pipeline) process(job *types.Job, carry *carryState) bool {
	seg := &job.Seg[1]
	buf := seg.Buff
	n := seg.Len

	if carry.n == 0 {
		return p.completeLines(job, carry, buf, 0, n)
	}

	// Carry occupied: the first terminator in this buffer (if any)
	// finishes the carried line.
	term := -1
	for i := 0; i < n; i++ {
		if buf[i] == '\n' {
			term = i
			break
		}
	}

	if term < 0 {
		if n == len(buf) {
			// Case C, fatal: a full buffer arrived and the line still
			// has no end, so more of it is certain to follow.
			p.fail(control.LineTooLong, errLineTooLong, -1)
			return false
		}
		// Case C, drain: a short or empty read marks the end of the
		// stream. Fold any final bytes into the carry and flush the
		// unterminated final line.
		if n > 0 {
			copy(carry.buf[carry.n:], buf[:n])
			carry.n += n
			seg.Len = 0
		}
		if err := reverse.Range(carry.buf, 0, carry.n); err != nil {
			me := err.(*reverse.MalformedError)
			p.fail(control.MalformedUTF8, err, me.Offset)
			return false
		}
		p.shipCarry(job, carry, carry.n)
		p.stats.LinesReversed++
		p.stats.CarryCompletions++
		return true
	}

	// Case B: assemble and reverse the spanning line.
	total := carry.n + term + 1
	copy(carry.buf[carry.n:], buf[:term+1])
	end := total - 1
	if end > 0 && carry.buf[end-1] == '\r' {
		end--
	}
	if err := reverse.Range(carry.buf, 0, end); err != nil {
		me := err.(*reverse.MalformedError)
		p.fail(control.MalformedUTF8, err, me.Offset)
		return false
	}
	p.shipCarry(job, carry, total)
	p.stats.LinesReversed++
	p.stats.CarryCompletions++

	return p.completeLines(job, carry, buf, term+1, n)
}

// shipCarry swaps the worker's carry slot into the job's first segment
// and adopts the job's idle slot as the new spill buffer.
//
//go:inline
func (p *Pipeline) shipCarry(job *types.Job, carry *carryState, length int) {
	job.Seg[0].Buff, carry.buf = carry.buf, job.Seg[0].Buff
	job.Seg[0].Off = 0
	job.Seg[0].Len = length
	carry.n = 0
}

// completeLines reverses every complete line in buf[from:n] in place,
// spills the unterminated tail into the carry, and trims the read
// segment to the completed window. Shared by Case A and the Case B
// remainder.
func (p *Pipeline) completeLines(job *types.Job, carry *carryState, buf []byte, from, n int) bool {
	done := from
	for i := from; i < n; i++ {
		if buf[i] != '\n' {
			continue
		}
		end := i
		if end > done && buf[end-1] == '\r' {
			end--
		}
		if err := reverse.Range(buf, done, end); err != nil {
			me := err.(*reverse.MalformedError)
			p.fail(control.MalformedUTF8, err, int64(done)+me.Offset)
			return false
		}
		p.stats.LinesReversed++
		done = i + 1
	}

	if tail := n - done; tail > 0 {
		copy(carry.buf, buf[done:n])
		carry.n = tail
	}

	seg := &job.Seg[1]
	seg.Off = from
	seg.Len = done - from
	return true
}
