package manager

import (
	"context"
	"fmt"

	"github.com/kyson/cmdkit/internal/command"
	"github.com/kyson/cmdkit/internal/history"
	"github.com/kyson/cmdkit/internal/queue"
)

// Undoable is a Manager with an undo stack and a redo stack.
//
// Execute, Undo and Redo are not serialized against one another. Callers that
// need a strict order across them must provide it.
type Undoable struct {
	dispatcher UndoableExecutor
	undo       history.Recorder
	redo       history.Recorder
	log        Logger
	queue      *queue.Queue
}

// NewUndoable builds an Undoable manager and starts its queue worker.
func NewUndoable(d UndoableExecutor, undo, redo history.Recorder, opts ...Option) (*Undoable, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: dispatcher is nil", command.ErrArgument)
	}
	if undo == nil || redo == nil {
		return nil, fmt.Errorf("%w: undo and redo recorders are required", command.ErrArgument)
	}
	o := buildOptions(opts)
	u := &Undoable{dispatcher: d, undo: undo, redo: redo, log: o.logger}
	u.queue = queue.New(o.ctx, u.runQueued)
	return u, nil
}

// Execute runs cmd and records it on the undo stack. A successful execution
// forks the timeline, so the redo stack is cleared.
func (u *Undoable) Execute(ctx context.Context, cmd command.Command) error {
	ok, err := run(ctx, u.dispatcher, u.log, cmd)
	if err != nil || !ok {
		return err
	}
	u.undo.Push(cmd)
	u.redo.Clear()
	return nil
}

// Undo reverses the most recent command. It returns command.ErrEmptyHistory
// when there is nothing to undo. A failing handler leaves the command on the
// undo stack and is only logged.
func (u *Undoable) Undo(ctx context.Context) error {
	cmd, err := u.undo.Pop()
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	name := cmd.CommandName()

	if err := u.dispatcher.Undo(ctx, cmd); err != nil {
		u.undo.Push(cmd)
		if surfaces(err) {
			return err
		}
		u.log.Error("command undo failed", err, "command", name)
		return nil
	}
	u.redo.Push(cmd)
	u.log.Debug("command undone", "command", name)
	return nil
}

// Redo re-executes the most recently undone command. It returns
// command.ErrEmptyHistory when there is nothing to redo. A failing handler
// leaves the command on the redo stack and is only logged.
func (u *Undoable) Redo(ctx context.Context) error {
	cmd, err := u.redo.Pop()
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	name := cmd.CommandName()

	if err := u.dispatcher.Execute(ctx, cmd); err != nil {
		u.redo.Push(cmd)
		if surfaces(err) {
			return err
		}
		u.log.Error("command redo failed", err, "command", name)
		return nil
	}
	u.undo.Push(cmd)
	u.log.Debug("command redone", "command", name)
	return nil
}

// QueueCommand hands cmd to the background worker. Queued commands go
// through Execute, so they clear the redo stack too.
func (u *Undoable) QueueCommand(cmd command.Command) error {
	return u.queue.Push(cmd)
}

func (u *Undoable) CanUndo() bool     { return u.undo.Count() > 0 }
func (u *Undoable) CanRedo() bool     { return u.redo.Count() > 0 }
func (u *Undoable) UndoCount() int    { return u.undo.Count() }
func (u *Undoable) RedoCount() int    { return u.redo.Count() }
func (u *Undoable) HistoryCount() int { return u.undo.Count() }
func (u *Undoable) Pending() int      { return u.queue.Len() }

// LastExecuted returns the command Undo would reverse next.
func (u *Undoable) LastExecuted() (command.Command, bool) { return u.undo.Peek() }

// History returns the undo stack, oldest first.
func (u *Undoable) History() []command.Command { return u.undo.InOrder() }

// SerializeHistory renders the undo stack, oldest first. Undone commands
// waiting on the redo stack are not included.
func (u *Undoable) SerializeHistory(s Serializer) (string, error) {
	return serializeHistory(s, u.undo)
}

// Close drains already queued commands and stops the worker.
func (u *Undoable) Close() error { return u.queue.Close() }

func (u *Undoable) runQueued(ctx context.Context, cmd command.Command) {
	if err := u.Execute(ctx, cmd); err != nil {
		u.log.Error("queued command failed", err, "command", cmd.CommandName())
	}
}
