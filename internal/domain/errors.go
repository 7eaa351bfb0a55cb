package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// UnknownOutcomeError marks failures where the chain may or may not have
// applied the mutation. Blind retry of such an operation is unsafe; callers
// must re-query chain state instead.
type UnknownOutcomeError interface {
	error
	OutcomeUnknown() bool
}

// IsOutcomeUnknown checks whether the effect of the operation is undetermined.
func IsOutcomeUnknown(err error) bool {
	var ue UnknownOutcomeError
	if errors.As(err, &ue) {
		return ue.OutcomeUnknown()
	}
	return false
}

// NetworkError represents an RPC-layer error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "submit", "query_object")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// VersionConflictError means the chain observed an object version other than
// the one the plan was built from: some other actor mutated the object. The
// sequencer refetches and rebuilds, so it is retriable.
type VersionConflictError struct {
	ObjectID string
	Expected uint64
	Actual   uint64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: built against %d, chain at %d",
		e.ObjectID, e.Expected, e.Actual)
}

func (e *VersionConflictError) IsRetriable() bool {
	return true
}

// ExecutionError means the chain deterministically rejected the transaction
// (e.g. order not found on cancel). Never retried.
type ExecutionError struct {
	Code string // Chain abort code or status, e.g. "EOrderNotFound"
	Msg  string
}

func (e *ExecutionError) Error() string {
	return "chain execution error [" + e.Code + "]: " + e.Msg
}

func (e *ExecutionError) IsRetriable() bool {
	return false
}

// TimeoutError means the round-trip timed out after submission: the outcome
// is unknown, distinct from a definite failure. Not retriable on its own.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return "timeout during " + e.Op + ": " + e.Err.Error()
}

func (e *TimeoutError) IsRetriable() bool {
	return false
}

func (e *TimeoutError) OutcomeUnknown() bool {
	return true
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnknownCoin is returned when a coin symbol is not in the registry. Not retriable.
	ErrUnknownCoin = errors.New("unknown coin")

	// ErrUnknownPool is returned when a pool pair is not in the registry. Not retriable.
	ErrUnknownPool = errors.New("unknown pool")

	// ErrUnknownManager is returned when a balance manager name is not registered. Not retriable.
	ErrUnknownManager = errors.New("unknown balance manager")

	// ErrPrecisionLoss is returned when a human amount cannot be represented
	// exactly at the coin's decimal precision. Rounding is never applied.
	ErrPrecisionLoss = errors.New("amount not representable at coin precision")

	// ErrTickAlignment is returned when a price is not a multiple of the pool tick size.
	ErrTickAlignment = errors.New("price not aligned to tick size")

	// ErrLotAlignment is returned when a quantity is not a multiple of the pool lot size.
	ErrLotAlignment = errors.New("quantity not aligned to lot size")

	// ErrBelowMinimumSize is returned when a quantity is below the pool minimum order size.
	ErrBelowMinimumSize = errors.New("quantity below minimum order size")

	// ErrInsufficientBalance is the optimistic local rejection of a withdrawal
	// exceeding a fresh cached balance. The chain remains authoritative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrRetriesExhausted wraps the terminal error after the bounded retry budget is spent.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")

	// ErrSequencerClosed is returned for submissions after Close.
	ErrSequencerClosed = errors.New("sequencer closed")
)
