// ============================================================================
// ADAPTIVE RING POLLING
// ============================================================================
//
// Wait helpers bind a ring to its gate: a bounded spin with CPU
// relaxation hints on the hot path, a condvar park on the cold path.
// The spin budget absorbs the common case where the peer stage is only
// a few hundred nanoseconds behind; the park bounds CPU burn when the
// peer stalls on a syscall.
// ============================================================================

package ring8

import "linerev/constants"

// ============================================================================
// CONSUMER SIDE
// ============================================================================

// PopWait dequeues the next job index, spinning up to the configured
// budget before parking on the gate. Returns ok=false only when stop
// reports true and the ring is empty; indices already enqueued are
// always drained first so an in-flight job is never stranded.
//
//go:registerparams
func PopWait(r *Ring, g *Gate, stop func() bool) (uint8, bool) {
	for {
		for spins := 0; spins < constants.SpinBudget; spins++ {
			if idx, ok := r.Pop(); ok {
				return idx, true
			}
			if stop() {
				// Final drain: a push racing the stop flag must not
				// be lost, so check the ring once more.
				if idx, ok := r.Pop(); ok {
					return idx, true
				}
				return 0, false
			}
			cpuRelax()
		}
		g.Sleep(func() bool { return !r.Empty() || stop() })
	}
}

// ============================================================================
// PRODUCER SIDE
// ============================================================================

// PushWake enqueues one job index and wakes the consumer gate when the
// ring was observed empty, matching the park predicate on the far side.
// Returns false when the ring is full; circulation sizes rings so that
// a false return is a protocol violation, not backpressure.
//
//go:nosplit
//go:inline
//go:registerparams
func PushWake(r *Ring, g *Gate, idx uint8) bool {
	wasEmpty := r.Empty()
	if !r.Push(idx) {
		return false
	}
	if wasEmpty {
		g.Wake()
	}
	return true
}
