package main

import (
	"os"
	"path/filepath"
	"testing"

	"linerev/control"
)

func runFiles(t *testing.T, input string, extra ...string) (int, string, string) {
	t.Helper()
	control.Reset()
	t.Cleanup(control.Reset)
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	args := append(extra, inPath, outPath)
	code := run(args)
	data, _ := os.ReadFile(outPath)
	return code, string(data), outPath
}

func TestRunRoundTrip(t *testing.T) {
	code, out, _ := runFiles(t, "hello\nwörld\n")
	if code != 0 {
		t.Fatalf("exit code %d, want 0", code)
	}
	if out != "olleh\ndlröw\n" {
		t.Fatalf("output %q", out)
	}
}

func TestRunEmptyInput(t *testing.T) {
	code, out, _ := runFiles(t, "")
	if code != 0 {
		t.Fatalf("exit code %d, want 0", code)
	}
	if out != "" {
		t.Fatalf("output %q, want empty", out)
	}
}

func TestRunTunedGeometry(t *testing.T) {
	code, out, _ := runFiles(t, "abc\ndef\n",
		"--buffer-size", "16", "--buffer-count", "3", "--queue-capacity", "4", "--no-pin")
	if code != 0 {
		t.Fatalf("exit code %d, want 0", code)
	}
	if out != "cba\nfed\n" {
		t.Fatalf("output %q", out)
	}
}

func TestRunUsageErrors(t *testing.T) {
	control.Reset()
	t.Cleanup(control.Reset)
	if code := run(nil); code != 4 {
		t.Fatalf("no args: exit code %d, want 4", code)
	}
	control.Reset()
	if code := run([]string{"/nonexistent/in", filepath.Join(t.TempDir(), "out")}); code != 4 {
		t.Fatalf("missing input: exit code %d, want 4", code)
	}
}

func TestRunMalformedInput(t *testing.T) {
	code, _, _ := runFiles(t, "ok\nbad\xFF\n")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
}
