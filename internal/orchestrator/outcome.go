package orchestrator

import (
	"errors"
	"net/http"
	"strings"

	"invoices/internal/api"
)

// Phase is the lifecycle stage of a handler operation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureKind separates answers the service gave from answers it never gave.
type FailureKind int

const (
	// KindApplication is a non-2xx response.
	KindApplication FailureKind = iota + 1
	// KindTransport is a failure to reach the service or to read its response.
	KindTransport
)

func (k FailureKind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure describes why an operation did not succeed.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Detail     string
	Details    []string
	Err        error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Detail
}

// Unwrap returns the underlying error for error unwrapping.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result of the most recently applied operation of a handler.
type Outcome[T any] struct {
	Phase   Phase
	Payload T
	Failure *Failure
}

// Pending returns an outcome for an operation in flight.
func Pending[T any]() Outcome[T] {
	return Outcome[T]{Phase: PhasePending}
}

// Succeeded returns a successful outcome carrying v.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Phase: PhaseSucceeded, Payload: v}
}

// Failed returns a failed outcome.
func Failed[T any](f *Failure) Outcome[T] {
	return Outcome[T]{Phase: PhaseFailed, Failure: f}
}

// Marker is the numeric status the views branch on: 200 after success, 400 after the
// service rejected the request, 0 otherwise.
func (o Outcome[T]) Marker() int {
	switch {
	case o.Phase == PhaseSucceeded:
		return http.StatusOK
	case o.Phase == PhaseFailed && o.Failure != nil && o.Failure.Kind == KindApplication:
		return http.StatusBadRequest
	default:
		return 0
	}
}

// Err returns the failure as an error, or nil.
func (o Outcome[T]) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}

func classify(err error) *Failure {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = strings.TrimSpace(apiErr.Body)
		}
		if detail == "" {
			detail = http.StatusText(apiErr.StatusCode)
		}
		return &Failure{
			Kind:       KindApplication,
			StatusCode: apiErr.StatusCode,
			Detail:     detail,
			Details:    apiErr.Details,
			Err:        err,
		}
	}
	return &Failure{Kind: KindTransport, Detail: err.Error(), Err: err}
}

// sequencer numbers the requests of one operation. With fencing on, only the response
// to the latest issued request is accepted; otherwise every response is.
type sequencer struct {
	fencing bool
	issued  uint64
}

func (s *sequencer) next() uint64 {
	s.issued++
	return s.issued
}

func (s *sequencer) accept(n uint64) bool {
	return !s.fencing || n == s.issued
}
