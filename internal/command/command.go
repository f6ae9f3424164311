// Package command defines the contracts shared by commands, handlers and the
// managers that run them.
package command

import (
	"context"
	"reflect"
)

// Command is an intent value. Dispatch keys on its concrete type; the name is
// only used for logs and serialized history.
type Command interface {
	CommandName() string
}

// Handler holds the business logic for exactly one command type.
//
// Validate reports whether cmd is applicable right now. A false result is an
// ordinary rejection, not a fault.
type Handler[C Command] interface {
	Validate(ctx context.Context, cmd C) bool
	Execute(ctx context.Context, cmd C) error
}

// UndoableHandler is a Handler that can also reverse its own execution.
type UndoableHandler[C Command] interface {
	Handler[C]
	Undo(ctx context.Context, cmd C) error
}

// Funcs lets plain functions satisfy Handler and UndoableHandler.
// A nil ValidateFn accepts every command.
type Funcs[C Command] struct {
	ValidateFn func(ctx context.Context, cmd C) bool
	ExecuteFn  func(ctx context.Context, cmd C) error
	UndoFn     func(ctx context.Context, cmd C) error
}

func (f Funcs[C]) Validate(ctx context.Context, cmd C) bool {
	if f.ValidateFn == nil {
		return true
	}
	return f.ValidateFn(ctx, cmd)
}

func (f Funcs[C]) Execute(ctx context.Context, cmd C) error {
	if f.ExecuteFn == nil {
		return nil
	}
	return f.ExecuteFn(ctx, cmd)
}

// Undo fails with ErrUndoUnsupported when no UndoFn was supplied.
func (f Funcs[C]) Undo(ctx context.Context, cmd C) error {
	if f.UndoFn == nil {
		return ErrUndoUnsupported
	}
	return f.UndoFn(ctx, cmd)
}

// SupportsUndo reports whether an UndoFn was supplied.
func (f Funcs[C]) SupportsUndo() bool { return f.UndoFn != nil }

// UndoProber is implemented by handlers whose undo capability is only known
// at run time. Registration consults it before enabling Undo.
type UndoProber interface {
	SupportsUndo() bool
}

var (
	_ Handler[Command]         = Funcs[Command]{}
	_ UndoableHandler[Command] = Funcs[Command]{}
	_ UndoProber               = Funcs[Command]{}
)

// IsNil reports whether cmd is absent, including a typed nil pointer.
func IsNil(cmd Command) bool {
	if cmd == nil {
		return true
	}
	v := reflect.ValueOf(cmd)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
