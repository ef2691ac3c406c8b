// ============================================================================
// LOCK-FREE SPSC JOB-INDEX RING
// ============================================================================
//
// Single-producer/single-consumer ring queue circulating one-byte job
// indices between two pinned pipeline stages.
//
// Core capabilities:
//   - Lock-free SPSC operation with wait-free push and pop
//   - One-byte payload: a job table index, never a pointer
//   - Power-of-2 sizing with bit masking for O(1) wrap
//   - Cache line isolation for producer/consumer cursor separation
//
// Cursor protocol:
//   - head: consumer read position, advanced only by Pop
//   - tail: producer write position, advanced only by Push
//   - Empty when head == tail; one slot stays open so a full ring is
//     tail+1 == head (mod capacity) and never aliases empty
//
// Memory ordering:
//   - Push: release store on tail publishes the slot write
//   - Pop: acquire load on tail observes the slot write
//   - SPSC discipline makes each cursor single-writer
//
// Safety model:
//   - ⚠️  SPSC discipline required: one producer, one consumer, ever
//   - Push returns false on full; the circulation protocol sizes rings
//     so that full is unreachable and a false return is a broken invariant
//
// Compiler optimizations:
//   - //go:nosplit for stack management elimination
//   - //go:inline for call overhead reduction
//   - //go:registerparams for register-based parameter passing
// ============================================================================

package ring8

import "sync/atomic"

// ============================================================================
// CORE DATA STRUCTURE
// ============================================================================

// Ring implements a cache-isolated SPSC ring of uint8 job indices.
//
// Memory layout (192 bytes + slots):
//   - Cache line 0: padding, keeps head off the previous object's line
//   - Cache line 1: head cursor (consumer)
//   - Cache line 2: tail cursor (producer)
//   - Cache line 3: mask and slot slice header (read-only after New)
//
//go:align 64
type Ring struct {
	_    [64]byte // Isolation from the preceding allocation
	head uint32   // Consumer cursor, wraps via mask

	_    [60]byte // Isolation between the two cursors
	tail uint32   // Producer cursor, wraps via mask

	_     [60]byte // Isolation between tail and the shared metadata
	mask  uint32   // Capacity - 1 for bit-mask wrap
	slots []byte   // Backing slot storage, one byte per index
}

// ============================================================================
// CONSTRUCTOR
// ============================================================================

// New wraps the provided slot storage as an SPSC ring. The storage is
// typically carved from the pipeline arena so rings and buffers share
// one allocation. len(slots) must be a power of two >= 2; one slot is
// kept open, so usable capacity is len(slots)-1.
//
//go:inline
func New(slots []byte) *Ring {
	n := len(slots)
	if n < 2 || n&(n-1) != 0 {
		panic("ring8: slot count must be >=2 and power of two")
	}
	return &Ring{
		mask:  uint32(n - 1),
		slots: slots,
	}
}

// ============================================================================
// PRODUCER OPERATIONS
// ============================================================================

// Push attempts to enqueue one job index.
//
// Algorithm:
//  1. Load tail (plain: producer is the only writer)
//  2. Load head with acquire to bound occupancy
//  3. Reject when advancing tail would alias the empty state
//  4. Write the slot, then publish with a release store on tail
//
// Returns false when the ring is full. Under the job circulation
// protocol the rings are sized so this never happens; callers treat a
// false return as a fatal protocol violation.
//
//go:nosplit
//go:inline
//go:registerparams
func (r *Ring) Push(idx uint8) bool {
	t := r.tail
	next := (t + 1) & r.mask
	if next == atomic.LoadUint32(&r.head) {
		return false // Full: one-slot gap reached
	}
	r.slots[t] = idx
	atomic.StoreUint32(&r.tail, next)
	return true
}

// ============================================================================
// CONSUMER OPERATIONS
// ============================================================================

// Pop attempts to dequeue the next job index.
//
// Algorithm:
//  1. Load head (plain: consumer is the only writer)
//  2. Load tail with acquire; equality means empty
//  3. Read the slot made visible by the producer's release store
//  4. Publish the new head with a release store
//
// Returns ok=false when the ring is empty.
//
//go:nosplit
//go:inline
//go:registerparams
func (r *Ring) Pop() (uint8, bool) {
	h := r.head
	if h == atomic.LoadUint32(&r.tail) {
		return 0, false // Empty: cursors coincide
	}
	idx := r.slots[h]
	atomic.StoreUint32(&r.head, (h+1)&r.mask)
	return idx, true
}

// ============================================================================
// OCCUPANCY INSPECTION
// ============================================================================

// Empty reports whether the ring currently holds no indices. Safe from
// either side; the answer is a snapshot.
//
//go:nosplit
//go:inline
func (r *Ring) Empty() bool {
	return atomic.LoadUint32(&r.head) == atomic.LoadUint32(&r.tail)
}

// Size returns the number of indices currently enqueued. Snapshot
// semantics, exact only when both stages are quiescent.
//
//go:nosplit
//go:inline
func (r *Ring) Size() int {
	h := atomic.LoadUint32(&r.head)
	t := atomic.LoadUint32(&r.tail)
	return int((t - h) & r.mask)
}

// Capacity returns the usable slot count (one below the storage size).
//
//go:inline
func (r *Ring) Capacity() int {
	return int(r.mask)
}
