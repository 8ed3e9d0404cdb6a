package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")

	ErrMissingFields      = errors.New("missing required fields")
	ErrNameTaken          = errors.New("name already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoSuchTrain        = errors.New("no such train")
	ErrTrainExists        = errors.New("train already exists")
	ErrNoSeatsAvailable   = errors.New("no seats available")
	ErrSeatOverflow       = errors.New("seat count already at capacity")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrForbidden          = errors.New("ticket belongs to another user")
	ErrStorage            = errors.New("storage unavailable")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindStorage       ErrorKind = "storage"
	KindInvalidConfig ErrorKind = "invalid_config"
)

// Code is the stable error identifier reported to callers of the boundary operations.
type Code string

const (
	CodeMissingFields      Code = "missing_fields"
	CodeNameTaken          Code = "name_taken"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeInvalidUser        Code = "invalid_user"
	CodeInvalidTrain       Code = "invalid_train"
	CodeNotFound           Code = "not_found"
	CodeNoSeatsAvailable   Code = "no_seats_available"
	CodeTicketNotFound     Code = "ticket_not_found"
	CodeForbidden          Code = "forbidden"
	CodeTrainExists        Code = "train_exists"
	CodeSeatOverflow       Code = "seat_overflow"
	CodeInvalidConfig      Code = "invalid_config"
	CodeStorageUnavailable Code = "storage_unavailable"
	CodeInternal           Code = "internal"
)

// OpError wraps an underlying error with operation context and a kind.
// Code optionally overrides the code derived from the wrapped sentinel.
type OpError struct {
	Op   string
	Kind ErrorKind
	Code Code
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError, or "" if there is none.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// CodeOf maps err to the code reported at the boundary.
// An explicit OpError.Code wins over the sentinel mapping.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var oe *OpError
	if errors.As(err, &oe) && oe.Code != "" {
		return oe.Code
	}

	switch {
	case errors.Is(err, ErrMissingFields):
		return CodeMissingFields
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrNoSeatsAvailable):
		return CodeNoSeatsAvailable
	case errors.Is(err, ErrTicketNotFound):
		return CodeTicketNotFound
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrTrainExists):
		return CodeTrainExists
	case errors.Is(err, ErrSeatOverflow):
		return CodeSeatOverflow
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrNoSuchTrain),
		errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidConfig):
		return CodeInvalidConfig
	case errors.Is(err, ErrStorage), IsKind(err, KindStorage):
		return CodeStorageUnavailable
	default:
		return CodeInternal
	}
}

// StorageError wraps an I/O failure so that it classifies as storage_unavailable.
func StorageError(op, path string, err error) error {
	return &OpError{
		Op:   op,
		Kind: KindStorage,
		Path: path,
		Err:  fmt.Errorf("%w: %w", ErrStorage, err),
	}
}
