package utils

import (
	"fmt"
	"strconv"
	"testing"
)

func TestItoa(t *testing.T) {
	cases := []int{0, 1, -1, 9, 10, 42, -42, 999, 8192, -8192, 1<<31 - 1, -(1 << 31)}
	for _, n := range cases {
		t.Run(fmt.Sprintf("n_%d", n), func(t *testing.T) {
			if got, want := Itoa(n), strconv.Itoa(n); got != want {
				t.Fatalf("Itoa(%d): got %q, want %q", n, got, want)
			}
		})
	}
}

func TestB2sRoundTrip(t *testing.T) {
	if got := B2s(nil); got != "" {
		t.Fatalf("B2s(nil): got %q", got)
	}
	b := []byte("payload")
	if got := B2s(b); got != "payload" {
		t.Fatalf("B2s: got %q", got)
	}
}

func TestS2bRoundTrip(t *testing.T) {
	if got := S2b(""); got != nil {
		t.Fatalf("S2b(\"\"): got %v", got)
	}
	s := "payload"
	b := S2b(s)
	if string(b) != s {
		t.Fatalf("S2b: got %q", b)
	}
	if len(b) != len(s) || cap(b) != len(s) {
		t.Fatalf("S2b: len %d cap %d, want %d", len(b), cap(b), len(s))
	}
}
