package club

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a workflow entity.
// Every entity starts pending and moves to exactly one terminal status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusAccepted Status = "accepted"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Kind names a status-bearing entity.
type Kind string

const (
	KindProposal   Kind = "team proposal"
	KindAssignment Kind = "team assignment"
	KindLink       Kind = "link request"
	KindPromotion  Kind = "promotion request"
)

// Verdict is the decision taken on a pending entity.
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictAccept  Verdict = "accept"
	VerdictReject  Verdict = "reject"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalid         = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrNotPending      = errors.New("not pending")
	ErrInvalidDecision = errors.New("invalid decision")
)

// Error carries a client-facing detail message alongside a sentinel code.
type Error struct {
	Code   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Code
}

func newError(code error, format string, args ...any) error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error  { return newError(ErrNotFound, format, args...) }
func Forbidden(format string, args ...any) error { return newError(ErrForbidden, format, args...) }
func Invalid(format string, args ...any) error   { return newError(ErrInvalid, format, args...) }
func Conflict(format string, args ...any) error  { return newError(ErrConflict, format, args...) }

// NotPending builds the error returned when a decision targets an already decided entity.
func NotPending(kind Kind) error {
	return newError(ErrNotPending, "%s is not pending", capitalize(string(kind)))
}

// Transition returns the terminal status a verdict leads to from the current status.
func Transition(kind Kind, current Status, v Verdict) (Status, error) {
	if current != StatusPending {
		return current, NotPending(kind)
	}
	switch v {
	case VerdictReject:
		return StatusRejected, nil
	case VerdictApprove:
		if kind == KindProposal || kind == KindPromotion {
			return StatusApproved, nil
		}
	case VerdictAccept:
		if kind == KindAssignment || kind == KindLink {
			return StatusAccepted, nil
		}
	}
	return current, newError(ErrInvalidDecision, "cannot %s a %s", v, kind)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
