package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// ErrorKindProviderUnavailable means no wallet provider could be reached
	ErrorKindProviderUnavailable ErrorKind = "ProviderUnavailable"
	// ErrorKindUserRejected means the wallet prompt was declined
	ErrorKindUserRejected ErrorKind = "UserRejected"
	// ErrorKindValidationFailure means the action was not attempted
	ErrorKindValidationFailure ErrorKind = "ValidationFailure"
	// ErrorKindCallFailure covers reverts, network errors and malformed responses
	ErrorKindCallFailure ErrorKind = "CallFailure"
)

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrUserRejected        = errors.New("user rejected the request")
)

// ActionError is returned from every dispatcher and signing-flow operation.
type ActionError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func NewActionError(kind ErrorKind, op string, err error) *ActionError {
	return &ActionError{Kind: kind, Op: op, Err: err}
}

// ClassifyError wraps err in an ActionError, deriving the kind from the
// wrapped sentinels. Anything unrecognised is a CallFailure.
func ClassifyError(op string, err error) *ActionError {
	if err == nil {
		return nil
	}
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return NewActionError(actionErr.Kind, op, err)
	}
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return NewActionError(ErrorKindProviderUnavailable, op, err)
	case errors.Is(err, ErrUserRejected):
		return NewActionError(ErrorKindUserRejected, op, err)
	default:
		return NewActionError(ErrorKindCallFailure, op, err)
	}
}

// KindOf returns the kind of the outermost ActionError in err's chain, or an
// empty kind when there is none.
func KindOf(err error) ErrorKind {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Kind
	}
	return ""
}
