// Package testkit provides testing helpers
package testkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var seamMu sync.Mutex

// Swap replaces a package level variable (usually a func seam) until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process wide lock for the rest of the test
// tests that swap shared seams or env call it so they never overlap
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle
// long haystacks (log output, response bodies) are written to a temp file instead of the failure message
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	if len(haystack) <= 512 {
		t.Fatalf("expected %q in\n%s", needle, haystack)
	}
	tmpfile := filepath.Join(t.TempDir(), "haystack.txt")
	_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
	t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
}

// MustDecode unmarshals a JSON body into T or fails the test
func MustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %T: %v\n%s", v, err, body)
	}
	return v
}

// Eventually polls cond every few milliseconds until it holds or within elapses
// background goroutines (writers, init) are observed this way rather than with fixed sleeps
func Eventually(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s", within)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
