// pipeline.go — Three-stage pipeline assembly and lifecycle
// ============================================================================
// PIPELINE ORCHESTRATION
// ============================================================================
//
// Pipeline wires the three pinned stages to the job circulation loop:
//
//   q_free_to_read ──► Reader ──► q_ready_to_work ──► Worker
//        ▲                                              │
//        │                                              ▼
//        └────────────── Writer ◄──────────── q_ready_to_write
//
// Jobs are one-byte indices into a fixed job table; the table entries
// view arena slots. Exactly one stage observes a job at a time, and
// ring handoff publishes every write made while holding it.
//
// Lifecycle:
//   • New carves the arena, seeds every job into the free ring, and
//     binds each ring to its parking gate
//   • Run launches the stages on locked OS threads and joins them
//   • Clean termination rides an EOF-flagged job through all three
//     stages; faults raise the global stop flag and wake every gate
//
// Termination matrix:
//   • EOF: reader pushes the EOF job and exits; worker and writer
//     forward it and exit; the EOF job is never recycled
//   • Fault: the observing stage records it, wakes all gates, exits;
//     the remaining stages observe the stop flag and drain out
// ============================================================================

package pipeline

import (
	"sync"

	"linerev/arena"
	"linerev/config"
	"linerev/control"
	"linerev/ring8"
	"linerev/types"
)

// ============================================================================
// ENDPOINT CONTRACTS
// ============================================================================

// Source supplies input bytes with read(2) semantics: n==0 with a nil
// error is end of stream.
type Source interface {
	Read(p []byte) (int, error)
}

// Sink absorbs output bytes. WritevAll emits a before b in one
// vectored submission so a completed carry and the trimmed read data
// land adjacently without copying.
type Sink interface {
	WriteAll(p []byte) error
	WritevAll(a, b []byte) error
}

// ============================================================================
// RUN STATISTICS
// ============================================================================

// Stats counts pipeline activity. Each group is written by exactly one
// stage and padded apart from its neighbors; read only after Run joins.
type Stats struct {
	BuffersRead uint64 // Reader: non-empty read syscalls
	_           [56]byte

	LinesReversed    uint64 // Worker: completed lines through the reverser
	CarryCompletions uint64 // Worker: lines finished via the carry slot
	TwoSegmentJobs   uint64 // Worker: jobs forwarded with both segments live
	_                [40]byte

	BytesWritten uint64 // Writer: bytes pushed to the sink
	_            [56]byte
}

// ============================================================================
// PIPELINE STATE
// ============================================================================

// Pipeline owns every moving part of one run.
type Pipeline struct {
	cfg  config.Config
	src  Source
	sink Sink

	ar   *arena.Arena
	jobs []types.Job

	freeRing  *ring8.Ring // Writer -> Reader
	workRing  *ring8.Ring // Reader -> Worker
	writeRing *ring8.Ring // Worker -> Writer

	freeGate  *ring8.Gate
	workGate  *ring8.Gate
	writeGate *ring8.Gate

	stats Stats
	wg    sync.WaitGroup
}

// New assembles a pipeline over a validated configuration and the two
// endpoints. The free ring starts holding every job index, so the
// reader can begin immediately.
func New(cfg config.Config, src Source, sink Sink) *Pipeline {
	ar := arena.New(cfg.BufferSize, cfg.BufferCount, cfg.QueueCapacity)
	p := &Pipeline{
		cfg:       cfg,
		src:       src,
		sink:      sink,
		ar:        ar,
		jobs:      make([]types.Job, ar.JobCount()),
		freeRing:  ring8.New(ar.RingSlots(0)),
		workRing:  ring8.New(ar.RingSlots(1)),
		writeRing: ring8.New(ar.RingSlots(2)),
		freeGate:  ring8.NewGate(),
		workGate:  ring8.NewGate(),
		writeGate: ring8.NewGate(),
	}
	for i := range p.jobs {
		p.jobs[i].Seg[0].Buff = ar.CarrySlot(i)
		p.jobs[i].Seg[1].Buff = ar.ReadSlot(i)
		if !p.freeRing.Push(uint8(i)) {
			// Unreachable: capacity is validated against the job count.
			panic("pipeline: free ring cannot seed the job table")
		}
	}
	return p
}

// Stats exposes the run counters. Valid only after Run returns.
//
//go:inline
func (p *Pipeline) Stats() *Stats {
	return &p.stats
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Run launches the three stages and blocks until all of them exit.
// The fault record, if any, is available through control.Fault after
// Run returns.
func (p *Pipeline) Run() {
	p.wg.Add(3)
	go p.readerLoop()
	go p.workerLoop()
	go p.writerLoop()
	p.wg.Wait()
}

// WakeAll releases every parked stage. Called by failing stages after
// raising the stop flag, and by the signal path.
func (p *Pipeline) WakeAll() {
	p.freeGate.Wake()
	p.workGate.Wake()
	p.writeGate.Wake()
}

// fail records the fault, raises the stop flag, and unparks everyone.
//
//go:inline
func (p *Pipeline) fail(kind control.Kind, err error, offset int64) {
	control.Fail(kind, err, offset)
	p.WakeAll()
}

// core returns the affinity target for a stage, or -1 when pinning is
// disabled.
//
//go:inline
func (p *Pipeline) core(c int) int {
	if !p.cfg.Pin {
		return -1
	}
	return c
}
