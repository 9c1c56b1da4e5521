package strings

import (
	"testing"

	"moodmeter/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"*"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("nil input should yield default, got %v", got)
	}
	in := []string{"https://a.example"}
	if got := IfEmpty(in, def); got[0] != in[0] {
		t.Fatalf("non-empty input should be kept, got %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"sentiment": "/sentiment",
		"/ledger/":  "/ledger",
		"  /meta  ": "/meta",
		"//a/b//":   "/a/b",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestPreview(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly5", 8, "exactly5"},
		{"I absolutely love this!", 10, "I absolute…"},
		{"こんにちは世界", 5, "こんにちは…"},
		{"anything", 0, ""},
	}
	for _, c := range cases {
		if got := Preview(c.in, c.n); got != c.want {
			t.Fatalf("Preview(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

