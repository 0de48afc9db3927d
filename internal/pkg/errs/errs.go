package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrCollaborator  = errors.New("collaborator error")
	ErrDuplicatePath = errors.New("duplicate storage path")
)

// Error carries a kind, the failing operation and an optional cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is lets errors.Is(err, errs.ErrValidation) match on the kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: msg}
}

// Collaborator wraps a failure of an external dependency (generator, storage, queue, database).
func Collaborator(op string, err error) error {
	return &Error{Kind: ErrCollaborator, Op: op, Err: err}
}

func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsCollaborator(err error) bool { return errors.Is(err, ErrCollaborator) }
func IsDuplicatePath(err error) bool {
	return errors.Is(err, ErrDuplicatePath)
}
