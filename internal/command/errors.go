package command

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks wiring mistakes: duplicate handlers, unknown
	// command types, missing undo support.
	ErrConfiguration = errors.New("command configuration error")
	// ErrArgument marks absent commands or collaborators.
	ErrArgument = errors.New("invalid argument")
	// ErrEmptyHistory is returned by pop, undo and redo on an empty stack.
	ErrEmptyHistory = errors.New("history is empty")

	ErrNilCommand      = fmt.Errorf("%w: command is nil", ErrArgument)
	ErrUndoUnsupported = fmt.Errorf("%w: handler does not support undo", ErrConfiguration)
)

// Op names the handler phase that failed.
type Op string

const (
	OpValidate Op = "validate"
	OpExecute  Op = "execute"
	OpUndo     Op = "undo"
)

// HandlerError wraps a fault raised by handler logic.
type HandlerError struct {
	Op      Op
	Command string
	Err     error
}

func (e *HandlerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "command " + e.Command + " " + string(e.Op) + " failed: " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsHandlerError reports whether err carries a handler fault.
func IsHandlerError(err error) bool {
	var he *HandlerError
	return errors.As(err, &he)
}
