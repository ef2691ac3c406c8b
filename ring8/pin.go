// ============================================================================
// STAGE THREAD PINNING
// ============================================================================
//
// Pin binds the calling goroutine to an OS thread and optionally to a
// physical core. Each pipeline stage calls it once at startup so the
// spin loops, the ring cursors, and the arena slots a stage touches
// stay resident in one core's cache hierarchy.
// ============================================================================

package ring8

import "runtime"

// Pin wires the calling goroutine to its OS thread and, when core >= 0,
// sets hard affinity to that core. A negative core keeps the thread
// migratable (the --no-pin path); the OS-thread lock is applied either
// way so the spin loops never share a thread with another stage.
func Pin(core int) {
	runtime.LockOSThread()
	if core >= 0 {
		setAffinity(core)
	}
}
