// arena.go — Single-allocation buffer arena for the pipeline
// ============================================================================
// MEMORY ARENA MANAGEMENT
// ============================================================================
//
// Arena carves every byte the pipeline touches out of one allocation:
// read slots, carry slots, and the ring slot regions. One allocation
// means one base pointer, zero steady-state GC pressure, and a layout
// where each region starts on a cache-line boundary.
//
// Region layout (in base-offset order):
//   • jobCount read slots, stride roundUp(B, 64)
//   • jobCount+1 carry slots, stride roundUp(2·B, 64)
//     (the extra slot is the worker's private carry backup)
//   • 3 ring slot regions, stride roundUp(queueCap, 64)
//
// Sizing rules:
//   • Carry slots hold 2·B bytes: a carry deposit of at most B plus a
//     completing prefix of at most B never overflows before the
//     long-line check fires
//   • The base pointer is manually aligned to the cache line, so every
//     stride-multiple offset is aligned too
//
// Ownership model:
//   • Slot slices are fixed at startup and aliased by segments
//   • The arena itself is immutable after New
// ============================================================================

package arena

import (
	"unsafe"

	"linerev/constants"
)

// ============================================================================
// LAYOUT GEOMETRY
// ============================================================================

// roundUp rounds n up to the next multiple of the cache line.
//
//go:inline
func roundUp(n int) int {
	return (n + constants.CacheLine - 1) &^ (constants.CacheLine - 1)
}

// Arena owns the pipeline's buffer memory and hands out region views.
type Arena struct {
	base []byte // Cache-line aligned window into the raw allocation

	bufSize  int // B: read-slot semantic capacity
	jobCount int // Circulating jobs: (bufferCount-1)/2

	queueCap int // Ring slot count, power of two

	readStride  int // roundUp(B)
	carryStride int // roundUp(CarrySlotFactor·B)
	ringStride  int // roundUp(queueCap)

	carryOff int // Base offset of the carry region
	ringOff  int // Base offset of the ring region
}

// ============================================================================
// CONSTRUCTOR
// ============================================================================

// New allocates and carves the arena. bufCount must be odd and >= 3,
// queueCap a power of two >= 2 with queueCap-1 >= jobCount so the free
// ring can hold every circulating job at once. Violations panic:
// configuration validates these bounds before the arena exists.
func New(bufSize, bufCount, queueCap int) *Arena {
	if bufSize < constants.MinBufferSize {
		panic("arena: buffer size below minimum")
	}
	if bufCount < 3 || bufCount%2 == 0 {
		panic("arena: buffer count must be odd and >= 3")
	}
	if queueCap < 2 || queueCap&(queueCap-1) != 0 {
		panic("arena: queue capacity must be a power of two >= 2")
	}
	jobCount := (bufCount - 1) / 2
	if queueCap-1 < jobCount {
		panic("arena: queue capacity cannot hold the job population")
	}
	if jobCount > 255 {
		panic("arena: job count exceeds the one-byte index range")
	}

	a := &Arena{
		bufSize:     bufSize,
		jobCount:    jobCount,
		queueCap:    queueCap,
		readStride:  roundUp(bufSize),
		carryStride: roundUp(constants.CarrySlotFactor * bufSize),
		ringStride:  roundUp(queueCap),
	}
	a.carryOff = jobCount * a.readStride
	a.ringOff = a.carryOff + (jobCount+1)*a.carryStride
	total := a.ringOff + 3*a.ringStride

	// Over-allocate one cache line and slide the window so base[0]
	// lands on a line boundary.
	raw := make([]byte, total+constants.CacheLine)
	shift := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) & uintptr(constants.CacheLine-1)); rem != 0 {
		shift = constants.CacheLine - rem
	}
	a.base = raw[shift : shift+total]
	return a
}

// ============================================================================
// REGION ACCESSORS
// ============================================================================

// JobCount returns the number of circulating jobs.
//
//go:inline
func (a *Arena) JobCount() int {
	return a.jobCount
}

// ReadSlot returns the i-th read slot, capacity exactly B.
//
//go:inline
func (a *Arena) ReadSlot(i int) []byte {
	off := i * a.readStride
	return a.base[off : off+a.bufSize : off+a.bufSize]
}

// CarrySlot returns the i-th carry slot, capacity 2·B. Index jobCount
// is the worker's private backup slot and never rides inside a job
// until the worker swaps it in.
//
//go:inline
func (a *Arena) CarrySlot(i int) []byte {
	off := a.carryOff + i*a.carryStride
	n := constants.CarrySlotFactor * a.bufSize
	return a.base[off : off+n : off+n]
}

// RingSlots returns the i-th ring slot region (i in 0..2), capacity
// exactly the configured queue slot count.
//
//go:inline
func (a *Arena) RingSlots(i int) []byte {
	off := a.ringOff + i*a.ringStride
	return a.base[off : off+a.queueCap : off+a.queueCap]
}
