package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrapf(src, ErrorCodeUnavailable, "classifier %s", "down")
	if want := "classifier down: root"; e3.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e3.Error(), want)
	}
	if stderrs.Unwrap(e3) != src {
		t.Fatal("Wrapf did not keep orig")
	}
	if _, ok := As(src); ok {
		t.Fatal("As() true for foreign error")
	}

	e4 := FieldErrf("text", "%s is required", "text")
	if w := WireFrom(e4); w.Field != "text" || w.Code != ErrorCodeValidation || w.Message != "text is required" {
		t.Fatalf("unexpected wire %+v", w)
	}
	if _, ok := As(fmt.Errorf("batch: %w", e4)); !ok {
		t.Fatal("As should see through wrapping")
	}
}

func TestIsCodeAndHTTP(t *testing.T) {
	err := fmt.Errorf("outer: %w", Unavailablef("not ready"))
	if !IsCode(err, ErrorCodeUnavailable) {
		t.Fatal("IsCode should see through fmt wrapping")
	}
	if IsCode(nil, ErrorCodeUnknown) {
		t.Fatal("nil error has no code")
	}
	status, w := HTTP(err)
	if status != http.StatusServiceUnavailable || w.Message != "not ready" {
		t.Fatalf("HTTP() = %d %+v", status, w)
	}
	if status, w := HTTP(nil); status != http.StatusOK || w != (Wire{}) {
		t.Fatalf("HTTP(nil) = %d %+v", status, w)
	}
	if w := WireFrom(stderrs.New("plain")); w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("WireFrom foreign = %+v", w)
	}
}

func TestFold(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{Newf(ErrorCodeTooManyRequests, "hf unexpected status 429"), ErrorCodeUnknown},
		{fmt.Errorf("post: %w", Unavailablef("model loading")), ErrorCodeUnavailable},
		{stderrs.New("plain"), ErrorCodeUnknown},
		{New(ErrorCodeDB, "x"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if got := Fold(c.err, ErrorCodeUnavailable); got != c.want {
			t.Fatalf("Fold(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestTrace(t *testing.T) {
	root := stderrs.New("connection refused")
	err := Wrap(fmt.Errorf("post inference: %w", root), ErrorCodeUnknown, "classification failed")

	got := Trace(err)
	want := []string{"classification failed", "post inference: connection refused", "connection refused"}
	if len(got) != len(want) {
		t.Fatalf("Trace = %q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Trace[%d] = %q want %q", i, got[i], want[i])
		}
	}

	joined := Trace(stderrs.Join(stderrs.New("a"), New(ErrorCodeDB, "b")))
	if len(joined) != 2 || joined[0] != "a" || joined[1] != "b" {
		t.Fatalf("Trace(join) = %q", joined)
	}
	if Trace(nil) != nil {
		t.Fatal("Trace(nil) should be nil")
	}
}
