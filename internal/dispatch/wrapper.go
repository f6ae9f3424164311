package dispatch

import (
	"context"
	"fmt"

	"github.com/kyson/cmdkit/internal/command"
)

// invoker is the non-generic surface every registered handler is stored behind.
type invoker interface {
	validate(ctx context.Context, cmd command.Command) (bool, error)
	execute(ctx context.Context, cmd command.Command) error
	undo(ctx context.Context, cmd command.Command) error
}

// wrapper closes over a typed handler and downcasts incoming commands.
type wrapper[C command.Command] struct {
	inner  command.Handler[C]
	undoer command.UndoableHandler[C] // nil without undo support
}

func (w *wrapper[C]) cast(cmd command.Command) (C, error) {
	c, ok := cmd.(C)
	if !ok {
		return c, fmt.Errorf("%w: handler for %T cannot accept %T", command.ErrConfiguration, c, cmd)
	}
	return c, nil
}

func (w *wrapper[C]) validate(ctx context.Context, cmd command.Command) (ok bool, err error) {
	c, err := w.cast(cmd)
	if err != nil {
		return false, err
	}
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, &command.HandlerError{Op: command.OpValidate, Command: cmd.CommandName(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return w.inner.Validate(ctx, c), nil
}

func (w *wrapper[C]) execute(ctx context.Context, cmd command.Command) error {
	c, err := w.cast(cmd)
	if err != nil {
		return err
	}
	return guard(command.OpExecute, cmd.CommandName(), func() error {
		return w.inner.Execute(ctx, c)
	})
}

func (w *wrapper[C]) undo(ctx context.Context, cmd command.Command) error {
	c, err := w.cast(cmd)
	if err != nil {
		return err
	}
	if w.undoer == nil {
		return fmt.Errorf("%w: %T", command.ErrUndoUnsupported, c)
	}
	return guard(command.OpUndo, cmd.CommandName(), func() error {
		return w.undoer.Undo(ctx, c)
	})
}

// guard turns every handler fault and panic into *command.HandlerError.
func guard(op command.Op, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &command.HandlerError{Op: op, Command: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if ferr := fn(); ferr != nil {
		return &command.HandlerError{Op: op, Command: name, Err: ferr}
	}
	return nil
}
