package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retriable bool
		unknown   bool
	}{
		{"network transient", NewNetworkError("submit", errors.New("reset")), true, false},
		{"network fatal", NewFatalNetworkError("encode", errors.New("bad json")), false, false},
		{"version conflict", &VersionConflictError{ObjectID: "0x1", Expected: 5}, true, false},
		{"execution", &ExecutionError{Code: "EOrderNotFound", Msg: "gone"}, false, false},
		{"timeout", &TimeoutError{Op: "submit", Err: context.DeadlineExceeded}, false, true},
		{"config", &ConfigError{Field: "env", Err: errors.New("bad")}, false, false},
		{"plain", errors.New("whatever"), false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetriable(tc.err); got != tc.retriable {
				t.Errorf("IsRetriable = %v, want %v", got, tc.retriable)
			}
			if got := IsOutcomeUnknown(tc.err); got != tc.unknown {
				t.Errorf("IsOutcomeUnknown = %v, want %v", got, tc.unknown)
			}
		})
	}
}

func TestErrorClassification_Wrapped(t *testing.T) {
	// Classification must survive fmt.Errorf wrapping.
	wrapped := fmt.Errorf("lane mm-main: %w", &VersionConflictError{ObjectID: "0x1"})
	if !IsRetriable(wrapped) {
		t.Error("wrapped conflict should stay retriable")
	}

	deep := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w",
		&TimeoutError{Op: "submit", Err: context.DeadlineExceeded}))
	if !IsOutcomeUnknown(deep) {
		t.Error("wrapped timeout should stay unknown-outcome")
	}
	if !errors.Is(deep, context.DeadlineExceeded) {
		t.Error("timeout should unwrap to its cause")
	}
}

func TestOrderHelpers(t *testing.T) {
	o := &Order{QtyRaw: 1000, FilledRaw: 400, Status: OrderStatusPartiallyFilled}
	if !o.IsOpen() {
		t.Error("partially filled order is open")
	}
	if o.RemainingRaw() != 600 {
		t.Errorf("Expected 600 remaining, got %d", o.RemainingRaw())
	}

	o.FilledRaw = 1200 // Over-filled reports never go negative
	if o.RemainingRaw() != 0 {
		t.Errorf("Expected 0 remaining, got %d", o.RemainingRaw())
	}

	o.Status = OrderStatusCancelled
	if o.IsOpen() {
		t.Error("cancelled order is not open")
	}
}

func TestCoinScalar(t *testing.T) {
	if s := (CoinMetadata{Decimals: 6}).Scalar(); s != 1_000_000 {
		t.Errorf("Expected 1e6, got %d", s)
	}
	if s := (CoinMetadata{Decimals: 0}).Scalar(); s != 1 {
		t.Errorf("Expected 1, got %d", s)
	}
}
