package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/sha3"

	"linerev/config"
	"linerev/control"
)

// ============================================================================
// IN-MEMORY ENDPOINTS
// ============================================================================

// memSource serves a byte slice with read(2) semantics.
type memSource struct {
	data []byte
	pos  int
}

func (s *memSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, nil // EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// memSink records everything written, plus the submission shapes.
type memSink struct {
	buf         []byte
	writevCalls int
	writeCalls  int
	failAt      int // Fail the n-th submission when >= 0
}

func (s *memSink) tick() error {
	if s.failAt == 0 {
		return errors.New("sink: injected write failure")
	}
	s.failAt--
	return nil
}

func (s *memSink) WriteAll(p []byte) error {
	if err := s.tick(); err != nil {
		return err
	}
	s.writeCalls++
	s.buf = append(s.buf, p...)
	return nil
}

func (s *memSink) WritevAll(a, b []byte) error {
	if err := s.tick(); err != nil {
		return err
	}
	s.writevCalls++
	s.buf = append(s.buf, a...)
	s.buf = append(s.buf, b...)
	return nil
}

// ============================================================================
// HARNESS
// ============================================================================

func testConfig(bufSize int) config.Config {
	return config.Config{
		BufferSize:    bufSize,
		BufferCount:   5,
		QueueCapacity: 8,
		Pin:           false,
	}
}

func run(t *testing.T, cfg config.Config, input []byte) (*memSink, *Stats, control.Kind) {
	t.Helper()
	control.Reset()
	t.Cleanup(control.Reset)
	sink := &memSink{failAt: -1}
	p := New(cfg, &memSource{data: input}, sink)
	p.Run()
	kind, _, _ := control.Fault()
	return sink, p.Stats(), kind
}

// reference reverses each line of in the way the pipeline should:
// runes back-to-front, terminators (LF or CRLF) kept in place.
func reference(in string) string {
	var out strings.Builder
	for len(in) > 0 {
		nl := strings.IndexByte(in, '\n')
		line, term := in, ""
		if nl >= 0 {
			line, term = in[:nl], "\n"
			in = in[nl+1:]
		} else {
			in = ""
		}
		if strings.HasSuffix(line, "\r") && term == "\n" {
			line, term = line[:len(line)-1], "\r\n"
		}
		runes := []rune(line)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		out.WriteString(string(runes))
		out.WriteString(term)
	}
	return out.String()
}

// ============================================================================
// CLEAN STREAMS
// ============================================================================

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"single_line", "hello world\n"},
		{"two_lines", "hello\nworld\n"},
		{"blank_lines", "\n\n\n"},
		{"crlf", "abc\r\ndef\r\n"},
		{"mixed_endings", "one\ntwo\r\nthree\n"},
		{"unterminated_final", "abc\ndef"},
		{"unterminated_only", "no terminator here"},
		{"multibyte", "héllo wörld\n日本語\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sink, _, kind := run(t, testConfig(64), []byte(c.in))
			if kind != control.None {
				t.Fatalf("fault %v on clean input", kind)
			}
			want := reference(c.in)
			if string(sink.buf) != want {
				t.Fatalf("output %q, want %q", sink.buf, want)
			}
		})
	}
}

func TestByteCountPreserved(t *testing.T) {
	in := "alpha\nbravo\r\ncharlie\nno-term"
	sink, stats, kind := run(t, testConfig(16), []byte(in))
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	if len(sink.buf) != len(in) {
		t.Fatalf("wrote %d bytes, read %d", len(sink.buf), len(in))
	}
	if stats.BytesWritten != uint64(len(in)) {
		t.Fatalf("BytesWritten %d, want %d", stats.BytesWritten, len(in))
	}
}

// ============================================================================
// BOUNDARY SPANNING
// ============================================================================

func TestSpanningLineSingleVectoredJob(t *testing.T) {
	// A 21-byte line against a 16-byte buffer: the first read leaves a
	// 16-byte tail in the carry, the second read completes it and
	// contributes its own trimmed lines. Exactly one job carries both
	// a completed spill and fresh data.
	in := "abcdefghijklmnopqrst\nxy\n"
	sink, stats, kind := run(t, testConfig(16), []byte(in))
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := "tsrqponmlkjihgfedcba\nyx\n"
	if string(sink.buf) != want {
		t.Fatalf("output %q, want %q", sink.buf, want)
	}
	if stats.TwoSegmentJobs != 1 {
		t.Fatalf("TwoSegmentJobs %d, want 1", stats.TwoSegmentJobs)
	}
	if stats.CarryCompletions != 1 {
		t.Fatalf("CarryCompletions %d, want 1", stats.CarryCompletions)
	}
	if sink.writevCalls != 1 {
		t.Fatalf("writev submissions %d, want 1", sink.writevCalls)
	}
}

func TestMultiByteAcrossBoundary(t *testing.T) {
	// Place a two-byte sequence on the 16-byte read boundary; the
	// carry reassembles the line before reversal so the sequence
	// survives intact.
	in := "aaaaaaaaaaaaaaa" + "é" + "bb\n" // 'é' spans bytes 15..16
	sink, _, kind := run(t, testConfig(16), []byte(in))
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := reference(in)
	if string(sink.buf) != want {
		t.Fatalf("output %q, want %q", sink.buf, want)
	}
}

func TestCarryFlushAtEOF(t *testing.T) {
	// The file ends exactly on a read boundary with an unterminated
	// tail in the carry: the EOF job ships the drained carry.
	in := "first\n0123456789" // exactly one 16-byte read
	sink, stats, kind := run(t, testConfig(16), []byte(in))
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := reference(in)
	if string(sink.buf) != want {
		t.Fatalf("output %q, want %q", sink.buf, want)
	}
	if stats.CarryCompletions != 1 {
		t.Fatalf("CarryCompletions %d, want 1", stats.CarryCompletions)
	}
}

func TestUnterminatedFinalLineSpansBuffers(t *testing.T) {
	// The final line starts inside the first read and ends mid-way
	// through a short second read with no terminator: the short read
	// folds into the carry and drains as one line.
	in := "first\n" + strings.Repeat("z", 14) + "abc" // reads: 16 + 7
	sink, stats, kind := run(t, testConfig(16), []byte(in))
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := reference(in)
	if string(sink.buf) != want {
		t.Fatalf("output %q, want %q", sink.buf, want)
	}
	if stats.CarryCompletions != 1 {
		t.Fatalf("CarryCompletions %d, want 1", stats.CarryCompletions)
	}
}

// ============================================================================
// FAULT PATHS
// ============================================================================

func TestMalformedUTF8Fault(t *testing.T) {
	in := []byte("ok\nbad\xFFline\nmore\n")
	_, _, kind := run(t, testConfig(64), in)
	if kind != control.MalformedUTF8 {
		t.Fatalf("fault %v, want MalformedUTF8", kind)
	}
	if kind.ExitCode() != 2 {
		t.Fatalf("exit code %d, want 2", kind.ExitCode())
	}
}

func TestLineTooLongFault(t *testing.T) {
	// 40 content bytes against a 16-byte buffer: the second full read
	// arrives with the carry occupied and no terminator in sight.
	in := []byte(strings.Repeat("x", 40) + "\n")
	_, _, kind := run(t, testConfig(16), in)
	if kind != control.LineTooLong {
		t.Fatalf("fault %v, want LineTooLong", kind)
	}
	if kind.ExitCode() != 3 {
		t.Fatalf("exit code %d, want 3", kind.ExitCode())
	}
}

func TestSinkFailureFault(t *testing.T) {
	control.Reset()
	t.Cleanup(control.Reset)
	sink := &memSink{failAt: 0}
	p := New(testConfig(16), &memSource{data: []byte("abc\ndef\n")}, sink)
	p.Run()
	kind, err, _ := control.Fault()
	if kind != control.IOFault {
		t.Fatalf("fault %v, want IOFault", kind)
	}
	if err == nil {
		t.Fatal("fault record carries no error")
	}
}

func TestSourceFailureFault(t *testing.T) {
	control.Reset()
	t.Cleanup(control.Reset)
	p := New(testConfig(16), failingSource{}, &memSink{failAt: -1})
	p.Run()
	kind, _, _ := control.Fault()
	if kind != control.IOFault {
		t.Fatalf("fault %v, want IOFault", kind)
	}
}

type failingSource struct{}

func (failingSource) Read(p []byte) (int, error) {
	return 0, errors.New("source: injected read failure")
}

// ============================================================================
// SUSTAINED CIRCULATION
// ============================================================================

func TestManyBuffersRecycle(t *testing.T) {
	// Far more data than the job population can hold at once forces
	// every index through the full circulation loop repeatedly.
	var in bytes.Buffer
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&in, "line-%04d\n", i)
	}
	sink, stats, kind := run(t, testConfig(16), in.Bytes())
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := reference(in.String())
	if string(sink.buf) != want {
		t.Fatalf("output mismatch: %d bytes vs %d", len(sink.buf), len(want))
	}
	if stats.LinesReversed != 500 {
		t.Fatalf("LinesReversed %d, want 500", stats.LinesReversed)
	}
}

func TestDigestStream(t *testing.T) {
	// Deterministic pseudo-random stream: line lengths and content
	// derive from a SHAKE stream, kept under the streamable maximum
	// for a 16-byte buffer so every boundary alignment gets hit.
	shake := sha3.NewShake256()
	shake.Write([]byte("reverser-stress-seed"))
	rnd := make([]byte, 4096)
	shake.Read(rnd)

	var in bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i := 0; i < len(rnd)-1; i += 2 {
		n := int(rnd[i]) % 15
		for j := 0; j < n; j++ {
			in.WriteByte(hexdigits[int(rnd[i+1]+byte(j))%16])
		}
		in.WriteByte('\n')
	}

	sink, _, kind := run(t, testConfig(16), in.Bytes())
	if kind != control.None {
		t.Fatalf("fault %v", kind)
	}
	want := reference(in.String())
	if string(sink.buf) != want {
		t.Fatal("digest stream round trip mismatch")
	}
}
