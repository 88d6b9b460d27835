package generator

import "strings"

// Result is the outcome of a single generation call: either Generated text
// or a Failed reason. Callers decide what to send when a call fails.
type Result struct {
	text string
	err  error
}

// Generated returns a successful Result holding text.
func Generated(text string) Result {
	return Result{text: text}
}

// Failed returns a failed Result carrying reason.
func Failed(reason error) Result {
	if reason == nil {
		reason = ErrEmptyResponse
	}
	return Result{err: reason}
}

// OK reports whether generation succeeded.
func (r Result) OK() bool {
	return r.err == nil
}

// Text returns the generated text, empty for a failed Result.
func (r Result) Text() string {
	return r.text
}

// Err returns the failure reason, nil for a successful Result.
func (r Result) Err() error {
	return r.err
}

// Or returns the generated text, or fallback if the call failed or produced
// only whitespace.
func (r Result) Or(fallback string) string {
	if r.err != nil || strings.TrimSpace(r.text) == "" {
		return fallback
	}
	return r.text
}
