// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - Fallback Implementation
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Streaming Line Reverser
// Component: Cross-Platform Compatibility Layer
//
// Description:
//   Fallback for architectures without specialized spin-wait instructions, and for
//   builds with assembly or CGO disabled. Provides API compatibility; the empty body
//   inlines to nothing.
//
// Compilation Targets:
//   - Non-amd64/arm64 architectures
//   - Builds with the noasm or nocgo tags
//   - Builds with cgo disabled
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build (!amd64 && !arm64) || noasm || nocgo || !cgo

package ring8

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CPU RELAXATION FUNCTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// cpuRelax is a no-op on platforms without a pause/yield hint. The
// spin loop runs at full speed; correctness is unaffected.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func cpuRelax() {
}
