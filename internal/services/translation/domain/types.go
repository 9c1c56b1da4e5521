package domain

// Reason explains a translation outcome
type Reason string

const (
	// ReasonOK means the translator returned non-blank text
	ReasonOK Reason = "ok"
	// ReasonTimeout means the per-call deadline expired first
	ReasonTimeout Reason = "timeout"
	// ReasonError covers any other translator failure
	ReasonError Reason = "error"
	// ReasonEmpty means the input or the translated text was blank
	ReasonEmpty Reason = "empty"
	// ReasonBreakerOpen means the circuit breaker refused the call
	ReasonBreakerOpen Reason = "breaker_open"
	// ReasonRateLimited means the local limiter or the upstream throttled the call
	ReasonRateLimited Reason = "rate_limited"
	// ReasonDisabled means no translation backend is configured
	ReasonDisabled Reason = "disabled"
	// ReasonCanceled means the request context ended before a result
	ReasonCanceled Reason = "canceled"
)

// Outcome is the result of one translation attempt
// Text is set only when Reason is ReasonOK
type Outcome struct {
	Text   string
	Reason Reason
	Err    error
}

// OK reports whether translated text is available
func (o Outcome) OK() bool { return o.Reason == ReasonOK }

// Failed builds a no-result outcome
func Failed(r Reason, err error) Outcome { return Outcome{Reason: r, Err: err} }
