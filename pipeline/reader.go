// reader.go — Stage 1: fill read slots from the source
// ============================================================================
// READER STAGE
// ============================================================================
//
// The reader is the only stage that touches the source. Its loop:
//
//   1. Pop a recycled job from the free ring (spin, then park)
//   2. Issue one read of exactly B bytes into the job's read slot
//   3. Mark the job EOF on a zero-length read
//   4. Hand the job to the worker and wake it if it was parked
//
// The EOF job still makes the full trip through the pipeline: the
// worker needs it to flush an unterminated final line, and the writer
// needs it to know the stream is complete.
// ============================================================================

package pipeline

import (
	"linerev/constants"
	"linerev/control"
	"linerev/ring8"
)

func (p *Pipeline) readerLoop() {
	defer p.wg.Done()
	ring8.Pin(p.core(constants.ReaderCore))

	for {
		idx, ok := ring8.PopWait(p.freeRing, p.freeGate, control.Stopped)
		if !ok {
			return // Fault elsewhere; nothing of ours is in flight
		}
		job := &p.jobs[idx]
		seg := &job.Seg[1]

		n, err := p.src.Read(seg.Buff)
		if err != nil {
			p.fail(control.IOFault, err, -1)
			return
		}
		eof := n == 0
		seg.Off = 0
		seg.Len = n
		job.EOF = eof
		if n > 0 {
			p.stats.BuffersRead++
		}

		// The job belongs to the worker once pushed; eof was captured
		// while we still owned it.
		if !ring8.PushWake(p.workRing, p.workGate, idx) {
			p.fail(control.QueueProtocol, errRingFull, -1)
			return
		}
		if eof {
			return
		}
	}
}
