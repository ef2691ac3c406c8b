// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global pipeline tunables
//
// Purpose:
//   - Defines the fixed sizing parameters of the three-stage reverser
//     pipeline: buffer geometry, queue capacity, and polling behavior.
//
// Notes:
//   - Defaults mirror the validated production configuration
//     (8 KiB buffers, 9 slots, 16-deep queues).
//   - Cache-friendly sizing with power-of-2 alignment where required
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Buffer Geometry ──────────────────────────────

const (
	// DefaultBufferSize is the byte capacity B of one read buffer. Every
	// read syscall requests exactly this many bytes. B bounds the length
	// of a line that is guaranteed to stream through the pipeline
	// (terminator included).
	DefaultBufferSize = 8192

	// MinBufferSize rejects degenerate buffer sizes at configuration time.
	MinBufferSize = 16

	// DefaultBufferCount is the total number of arena buffer slots.
	// Must be odd and >= 3: (count-1)/2 jobs, each holding one carry
	// slot and one read slot, plus one slot reserved as the Worker's
	// private carry backup.
	DefaultBufferCount = 9

	// CarrySlotFactor scales carry-slot capacity relative to B. Case A
	// deposits at most B trailing bytes and Case B appends a prefix of
	// at most B, so 2*B never overflows before the long-line check fires.
	CarrySlotFactor = 2
)

// ───────────────────────────── Queue Geometry ───────────────────────────────

const (
	// DefaultQueueCapacity is the slot count of each SPSC ring. Power of
	// two, >= 2, and strictly greater than the job count (the ring keeps
	// one slot open to distinguish full from empty).
	DefaultQueueCapacity = 16
)

// ───────────────────────────── Memory Layout ────────────────────────────────

const (
	// CacheLine is the destructive-interference stride used for arena
	// carving and for isolating producer/consumer cursors.
	CacheLine = 64
)

// ───────────────────────────── Stage Scheduling ─────────────────────────────

const (
	// SpinBudget is the number of failed ring polls a stage tolerates
	// before parking on its gate.
	SpinBudget = 224

	// ReaderCore, WorkerCore, WriterCore assign one physical core per
	// stage when pinning is enabled. Affinity is a performance lever,
	// never a correctness requirement.
	ReaderCore = 0
	WorkerCore = 1
	WriterCore = 2
)
