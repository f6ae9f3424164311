// Package logger owns the process-wide slog setup and adapts slog to the
// leveled logger the command managers expect.
package logger

import (
	"context"
	"log/slog"
)

const (
	LevelVerbose = slog.Level(-8)
	LevelFatal   = slog.Level(12)
)

// Leveled adapts a *slog.Logger to manager.Logger.
// Fatal only logs; it never exits the process.
type Leveled struct {
	l *slog.Logger
}

// NewLeveled wraps l. A nil l uses the process logger.
func NewLeveled(l *slog.Logger) *Leveled {
	if l == nil {
		l = get()
	}
	return &Leveled{l: l}
}

// Nop discards everything.
func Nop() *Leveled {
	return &Leveled{l: slog.New(slog.DiscardHandler)}
}

func (x *Leveled) Verbose(msg string, args ...any) {
	x.l.Log(context.Background(), LevelVerbose, msg, args...)
}

func (x *Leveled) Debug(msg string, args ...any)   { x.l.Debug(msg, args...) }
func (x *Leveled) Info(msg string, args ...any)    { x.l.Info(msg, args...) }
func (x *Leveled) Warning(msg string, args ...any) { x.l.Warn(msg, args...) }

func (x *Leveled) Error(msg string, err error, args ...any) {
	x.l.Error(msg, withCause(err, args)...)
}

func (x *Leveled) Fatal(msg string, err error, args ...any) {
	x.l.Log(context.Background(), LevelFatal, msg, withCause(err, args)...)
}

func withCause(err error, args []any) []any {
	if err == nil {
		return args
	}
	return append([]any{"error", err}, args...)
}
