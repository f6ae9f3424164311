package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyson/cmdkit/internal/command"
	"github.com/kyson/cmdkit/internal/history"
	"github.com/kyson/cmdkit/internal/queue"
)

// ErrQueueClosed is returned by QueueCommand after Close.
var ErrQueueClosed = queue.ErrClosed

// Manager validates, executes and records commands in a single history.
//
// Direct Execute calls are not serialized against each other; only queued
// commands are.
type Manager struct {
	dispatcher Executor
	history    history.Recorder
	log        Logger
	queue      *queue.Queue
}

// New builds a Manager and starts its queue worker. Call Close to stop it.
func New(d Executor, h history.Recorder, opts ...Option) (*Manager, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: dispatcher is nil", command.ErrArgument)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: history recorder is nil", command.ErrArgument)
	}
	o := buildOptions(opts)
	m := &Manager{dispatcher: d, history: h, log: o.logger}
	m.queue = queue.New(o.ctx, m.runQueued)
	return m, nil
}

// Execute runs cmd through validate and execute and records it on success.
// Rejections and handler faults are logged, not returned; only configuration
// and argument errors reach the caller.
func (m *Manager) Execute(ctx context.Context, cmd command.Command) error {
	ok, err := run(ctx, m.dispatcher, m.log, cmd)
	if err != nil || !ok {
		return err
	}
	m.history.Push(cmd)
	return nil
}

// QueueCommand hands cmd to the background worker and returns immediately.
func (m *Manager) QueueCommand(cmd command.Command) error {
	return m.queue.Push(cmd)
}

// Pending returns how many queued commands have not started yet.
func (m *Manager) Pending() int { return m.queue.Len() }

// HistoryCount returns the number of recorded commands.
func (m *Manager) HistoryCount() int { return m.history.Count() }

// History returns the recorded commands, oldest first.
func (m *Manager) History() []command.Command { return m.history.InOrder() }

// SerializeHistory renders the history, oldest first, with s.
func (m *Manager) SerializeHistory(s Serializer) (string, error) {
	return serializeHistory(s, m.history)
}

// Close drains already queued commands and stops the worker.
func (m *Manager) Close() error { return m.queue.Close() }

func (m *Manager) runQueued(ctx context.Context, cmd command.Command) {
	if err := m.Execute(ctx, cmd); err != nil {
		m.log.Error("queued command failed", err, "command", cmd.CommandName())
	}
}

// run performs validate then execute. ok is true only when the command
// executed successfully and should be recorded.
func run(ctx context.Context, d Executor, log Logger, cmd command.Command) (ok bool, err error) {
	if command.IsNil(cmd) {
		return false, command.ErrNilCommand
	}
	name := cmd.CommandName()

	valid, err := d.Validate(ctx, cmd)
	if err != nil {
		if surfaces(err) {
			return false, err
		}
		log.Error("command validation errored", err, "command", name)
		return false, nil
	}
	if !valid {
		log.Warning("command validation failed", "command", name)
		return false, nil
	}

	if err := d.Execute(ctx, cmd); err != nil {
		if surfaces(err) {
			return false, err
		}
		log.Error("command execution failed", err, "command", name)
		return false, nil
	}
	log.Debug("command executed", "command", name)
	return true, nil
}

// surfaces reports whether err must reach the caller instead of the log.
func surfaces(err error) bool {
	if command.IsHandlerError(err) {
		return false
	}
	return errors.Is(err, command.ErrConfiguration) || errors.Is(err, command.ErrArgument)
}

func serializeHistory(s Serializer, h history.Recorder) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: serializer is nil", command.ErrArgument)
	}
	out, err := s.SerializeAll(h.InOrder())
	if err != nil {
		return "", fmt.Errorf("serialize history: %w", err)
	}
	return out, nil
}
