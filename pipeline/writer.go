// writer.go — Stage 3: emit segments and recycle jobs
// ============================================================================
// WRITER STAGE
// ============================================================================
//
// The writer is the only stage that touches the sink. Per job:
//
//   1. Pop the next processed job (spin, then park)
//   2. Emit the live segments: carry first, read data second; both
//      through one writev submission when both are live
//   3. Reset the segments and recycle the index into the free ring
//   4. Exit after draining the EOF job, which is never recycled
//
// Output order is the ring order, which is read order: the reverser
// permutes bytes within lines, never lines within the stream.
// ============================================================================

package pipeline

import (
	"linerev/constants"
	"linerev/control"
	"linerev/ring8"
)

func (p *Pipeline) writerLoop() {
	defer p.wg.Done()
	ring8.Pin(p.core(constants.WriterCore))

	for {
		idx, ok := ring8.PopWait(p.writeRing, p.writeGate, control.Stopped)
		if !ok {
			return
		}
		job := &p.jobs[idx]

		a := job.Seg[0].Bytes()
		b := job.Seg[1].Bytes()
		var err error
		switch {
		case len(a) > 0 && len(b) > 0:
			err = p.sink.WritevAll(a, b)
		case len(a) > 0:
			err = p.sink.WriteAll(a)
		case len(b) > 0:
			err = p.sink.WriteAll(b)
		}
		if err != nil {
			p.fail(control.IOFault, err, -1)
			return
		}
		p.stats.BytesWritten += uint64(len(a) + len(b))

		eof := job.EOF
		job.Seg[0].Reset()
		job.Seg[1].Reset()
		job.SegCount = 0
		if eof {
			return // The EOF job retires with the pipeline
		}

		if !ring8.PushWake(p.freeRing, p.freeGate, idx) {
			p.fail(control.QueueProtocol, errRingFull, -1)
			return
		}
	}
}
