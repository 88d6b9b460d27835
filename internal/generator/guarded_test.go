package generator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/resilience"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	results []Result
	calls   int
}

func (s *scriptedGenerator) Generate(context.Context, string, int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.results[min(s.calls, len(s.results)-1)]
	s.calls++
	return res
}

func guardedConfig(maxFailures, attempts int) config.GeneratorConfig {
	return config.GeneratorConfig{
		Breaker: config.BreakerConfig{MaxFailures: maxFailures, ResetTimeout: time.Hour},
		Retry:   config.RetryConfig{Attempts: attempts, Backoff: time.Millisecond},
	}
}

func TestGuardedRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	inner := &scriptedGenerator{results: []Result{
		Failed(&StatusError{StatusCode: http.StatusServiceUnavailable, Message: "Model is loading"}),
		Generated("Jumping jacks"),
	}}
	g := NewGuarded(inner, guardedConfig(0, 3), quietLogger())

	res := g.Generate(context.Background(), "prompt", 10)
	if !res.OK() || res.Text() != "Jumping jacks" {
		t.Fatalf("Generate() = (%q, %v), want success after retry", res.Text(), res.Err())
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestGuardedDoesNotRetryPermanentFailures(t *testing.T) {
	t.Parallel()

	inner := &scriptedGenerator{results: []Result{
		Failed(&StatusError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}),
	}}
	g := NewGuarded(inner, guardedConfig(0, 3), quietLogger())

	if res := g.Generate(context.Background(), "prompt", 10); res.OK() {
		t.Fatal("Generate() succeeded, want failure")
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestGuardedOpensCircuit(t *testing.T) {
	t.Parallel()

	inner := &scriptedGenerator{results: []Result{Failed(errors.New("connection refused"))}}
	g := NewGuarded(inner, guardedConfig(2, 1), quietLogger())

	for i := 0; i < 2; i++ {
		if res := g.Generate(context.Background(), "prompt", 10); res.OK() {
			t.Fatalf("Generate() #%d succeeded, want failure", i+1)
		}
	}

	res := g.Generate(context.Background(), "prompt", 10)
	if !errors.Is(res.Err(), resilience.ErrCircuitOpen) {
		t.Errorf("Generate() on open circuit error = %v, want ErrCircuitOpen", res.Err())
	}
	if got := res.Or("fallback"); got != "fallback" {
		t.Errorf("Or() = %q, want fallback", got)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{&StatusError{StatusCode: http.StatusServiceUnavailable}, true},
		{&StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{&StatusError{StatusCode: http.StatusBadGateway}, true},
		{&StatusError{StatusCode: http.StatusBadRequest}, false},
		{context.DeadlineExceeded, true},
		{ErrUnrecognizedResponse, false},
		{ErrEmptyResponse, false},
	}
	for _, tt := range tests {
		if got := Transient(tt.err); got != tt.want {
			t.Errorf("Transient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewWrapsWhenGuardEnabled(t *testing.T) {
	t.Parallel()

	cfg := guardedConfig(3, 1)
	cfg.Provider = "huggingface"
	cfg.Endpoint = "http://localhost"
	cfg.Token = "key"
	cfg.Timeout = time.Second

	g, err := New(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := g.(*Guarded); !ok {
		t.Errorf("New() = %T, want *Guarded", g)
	}
}
