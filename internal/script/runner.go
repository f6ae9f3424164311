package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyson/cmdkit/internal/board"
	"github.com/kyson/cmdkit/internal/command"
	"github.com/kyson/cmdkit/internal/dispatch"
	"github.com/kyson/cmdkit/internal/history"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/manager"
)

// Options tunes a Runner.
type Options struct {
	Logger manager.Logger
	// UndoLimit caps the undo stack. Zero keeps everything.
	UndoLimit int
	// Strict turns undo/redo on an empty history into an error instead of a
	// skipped step.
	Strict bool
}

// Report summarizes a run.
type Report struct {
	Steps   int
	Skipped int
}

// Runner replays steps on its own board.
type Runner struct {
	board  *board.Board
	mgr    *manager.Undoable
	log    manager.Logger
	strict bool
}

// NewRunner builds a board from spec and an undoable manager in front of it.
func NewRunner(spec BoardSpec, opts Options) (*Runner, error) {
	b, err := board.New(spec.Rows, spec.Cols, spec.Line)
	if err != nil {
		return nil, err
	}
	d := dispatch.New()
	if err := board.Register(d, b); err != nil {
		return nil, err
	}
	var mopts []manager.Option
	if opts.Logger != nil {
		mopts = append(mopts, manager.WithLogger(opts.Logger))
	}
	limit := history.WithLimit(opts.UndoLimit)
	m, err := manager.NewUndoable(d, history.NewMemory(limit), history.NewMemory(limit), mopts...)
	if err != nil {
		return nil, err
	}
	var log manager.Logger = logger.Nop()
	if opts.Logger != nil {
		log = opts.Logger
	}
	return &Runner{board: b, mgr: m, log: log, strict: opts.Strict}, nil
}

func (r *Runner) Board() *board.Board        { return r.board }
func (r *Runner) Manager() *manager.Undoable { return r.mgr }

// Close stops the manager's queue worker.
func (r *Runner) Close() error { return r.mgr.Close() }

// Run applies steps in order and stops at the first error.
func (r *Runner) Run(ctx context.Context, steps []Step) (Report, error) {
	var rep Report
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		skipped, err := r.Apply(ctx, s)
		if err != nil {
			return rep, fmt.Errorf("step %d (line %d): %w", i+1, s.Line, err)
		}
		rep.Steps++
		if skipped {
			rep.Skipped++
		}
	}
	return rep, nil
}

// Apply runs one step. skipped reports an undo or redo that found nothing to
// do.
func (r *Runner) Apply(ctx context.Context, s Step) (skipped bool, err error) {
	switch s.Action {
	case ActionUndo:
		return r.history(r.mgr.Undo(ctx))
	case ActionRedo:
		return r.history(r.mgr.Redo(ctx))
	}
	cmd, err := s.Command(r.board.Turn())
	if err != nil {
		return false, err
	}
	r.log.Verbose("script step", "action", string(s.Action), "command", cmd.CommandName())
	return false, r.mgr.Execute(ctx, cmd)
}

func (r *Runner) history(err error) (bool, error) {
	if errors.Is(err, command.ErrEmptyHistory) && !r.strict {
		r.log.Warning("script step skipped", "reason", err.Error())
		return true, nil
	}
	return false, err
}
