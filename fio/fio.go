// fio.go — Raw file descriptor IO for the pipeline endpoints
// ============================================================================
// FILE IO LAYER
// ============================================================================
//
// Fio wraps the handful of syscalls the pipeline needs behind a thin
// descriptor type: open, single read, full write, vectored write, close.
// os.File is deliberately bypassed: its mutex, finalizer, and poller
// integration buy nothing on two descriptors owned by pinned threads,
// and the writev path needs the raw descriptor anyway.
//
// Semantics:
//   • Read follows read(2): n==0 with a nil error is end of file
//   • WriteAll and WritevAll loop until every byte is down or an
//     error other than EINTR surfaces
//   • Open, Read, WriteAll and WritevAll retry EINTR transparently;
//     Close does not
// ============================================================================

package fio

import "golang.org/x/sys/unix"

// OutputMode is the permission set for created output files.
const OutputMode = 0o644

// File is an owned file descriptor. Not safe for concurrent use; each
// pipeline endpoint is touched by exactly one stage.
type File struct {
	fd   int
	name string
}

// ============================================================================
// OPEN / CLOSE
// ============================================================================

// Open opens path read-only.
func Open(path string) (*File, error) {
	fd, err := retryOpen(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &File{fd: fd, name: path}, nil
}

// Create opens path for writing, creating it if absent and truncating
// it otherwise.
func Create(path string) (*File, error) {
	fd, err := retryOpen(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, OutputMode)
	if err != nil {
		return nil, err
	}
	return &File{fd: fd, name: path}, nil
}

func retryOpen(path string, flags int, mode uint32) (int, error) {
	for {
		fd, err := unix.Open(path, flags, mode)
		if err == unix.EINTR {
			continue
		}
		return fd, err
	}
}

// Name returns the path the descriptor was opened with.
//
//go:inline
func (f *File) Name() string {
	return f.name
}

// Close releases the descriptor. Idempotent: a second call is a no-op.
func (f *File) Close() error {
	if f.fd < 0 {
		return nil
	}
	err := unix.Close(f.fd)
	f.fd = -1
	return err
}

// ============================================================================
// READ PATH
// ============================================================================

// Read fills p with the next chunk of the file. Returns read(2)
// semantics: n==0 with nil error means end of file, never a retry hint.
//
//go:registerparams
func (f *File) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(f.fd, p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// ============================================================================
// WRITE PATH
// ============================================================================

// WriteAll pushes every byte of p to the descriptor, looping over
// short writes.
//
//go:registerparams
func (f *File) WriteAll(p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(f.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// WritevAll emits a then b through a single writev(2) per iteration,
// resuming across short writes. Two non-empty segments reach the file
// in order without an intermediate copy.
//
//go:registerparams
func (f *File) WritevAll(a, b []byte) error {
	for len(a) > 0 || len(b) > 0 {
		var iov [2][]byte
		k := 0
		if len(a) > 0 {
			iov[k] = a
			k++
		}
		if len(b) > 0 {
			iov[k] = b
			k++
		}
		n, err := unix.Writev(f.fd, iov[:k])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		// Consume the write front-to-back across both segments.
		if m := min(n, len(a)); m > 0 {
			a = a[m:]
			n -= m
		}
		if n > 0 {
			b = b[n:]
		}
	}
	return nil
}
