// Package manager orchestrates validate, execute and record for commands and
// owns the undo/redo timeline.
package manager

import (
	"context"

	"github.com/kyson/cmdkit/internal/command"
)

// Executor is the dispatcher surface the plain Manager needs.
type Executor interface {
	Validate(ctx context.Context, cmd command.Command) (bool, error)
	Execute(ctx context.Context, cmd command.Command) error
}

// UndoableExecutor adds undo support.
type UndoableExecutor interface {
	Executor
	Undo(ctx context.Context, cmd command.Command) error
}

// Logger is the leveled logging contract managers write to.
type Logger interface {
	Verbose(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warning(msg string, args ...any)
	Error(msg string, err error, args ...any)
	Fatal(msg string, err error, args ...any)
}

// Serializer renders commands. The format belongs to the implementation.
type Serializer interface {
	Serialize(cmd command.Command) (string, error)
	SerializeAll(cmds []command.Command) (string, error)
}

type nopLogger struct{}

func (nopLogger) Verbose(string, ...any)      {}
func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Info(string, ...any)         {}
func (nopLogger) Warning(string, ...any)      {}
func (nopLogger) Error(string, error, ...any) {}
func (nopLogger) Fatal(string, error, ...any) {}
