package manager_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kyson/cmdkit/internal/command"
	"github.com/kyson/cmdkit/internal/dispatch"
	"github.com/kyson/cmdkit/internal/history"
	"github.com/kyson/cmdkit/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newUndoable(t *testing.T, h *testHandler) (*manager.Undoable, *recordingLogger) {
	t.Helper()
	d := dispatch.New()
	require.NoError(t, dispatch.Register[*testCommand](d, h))
	log := &recordingLogger{}
	m, err := manager.NewUndoable(d, history.NewMemory(), history.NewMemory(), manager.WithLogger(log))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, log
}

func TestNewUndoable_RequiresCollaborators(t *testing.T) {
	_, err := manager.NewUndoable(nil, history.NewMemory(), history.NewMemory())
	assert.ErrorIs(t, err, command.ErrArgument)

	_, err = manager.NewUndoable(dispatch.New(), nil, history.NewMemory())
	assert.ErrorIs(t, err, command.ErrArgument)
}

func TestUndoable_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newUndoable(t, &testHandler{})
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "Test message", State: s}))
	assert.Equal(t, "Test message", s.get())

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, "", s.get())

	err := m.Undo(ctx)
	assert.ErrorIs(t, err, command.ErrEmptyHistory)
	assert.Equal(t, "", s.get())

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, "Test message", s.get())

	assert.ErrorIs(t, m.Redo(ctx), command.ErrEmptyHistory)

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "Test message 2", State: s}))
	assert.Equal(t, "Test message 2", s.get())
	assert.Zero(t, m.RedoCount())
	assert.Equal(t, 2, m.UndoCount())
}

func TestUndoable_FreshExecuteInvalidatesRedo(t *testing.T) {
	ctx := context.Background()
	m, _ := newUndoable(t, &testHandler{})
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "first", State: s}))
	require.NoError(t, m.Undo(ctx))
	require.True(t, m.CanRedo())

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "fork", State: s}))

	assert.False(t, m.CanRedo())
	assert.ErrorIs(t, m.Redo(ctx), command.ErrEmptyHistory)
	assert.Equal(t, "fork", s.get())
}

func TestUndoable_RejectedExecuteKeepsRedo(t *testing.T) {
	ctx := context.Background()
	h := &testHandler{}
	m, _ := newUndoable(t, h)
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "first", State: s}))
	require.NoError(t, m.Undo(ctx))

	h.reject = true
	require.NoError(t, m.Execute(ctx, &testCommand{Message: "rejected", State: s}))
	assert.Equal(t, 1, m.RedoCount())
}

func TestUndoable_CountsAndFlags(t *testing.T) {
	ctx := context.Background()
	m, _ := newUndoable(t, &testHandler{})
	s := &state{}

	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Execute(ctx, &testCommand{Message: fmt.Sprint(i), State: s}))
	}
	require.NoError(t, m.Undo(ctx))

	assert.True(t, m.CanUndo())
	assert.True(t, m.CanRedo())
	assert.Equal(t, 2, m.UndoCount())
	assert.Equal(t, 1, m.RedoCount())
	assert.Equal(t, 2, m.HistoryCount())

	last, ok := m.LastExecuted()
	require.True(t, ok)
	assert.Equal(t, "1", last.(*testCommand).Message)
}

func TestUndoable_UndoFaultRestoresCommand(t *testing.T) {
	ctx := context.Background()
	h := &testHandler{}
	m, log := newUndoable(t, h)
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "a", State: s}))
	require.NoError(t, m.Execute(ctx, &testCommand{Message: "b", State: s}))
	require.NoError(t, m.Undo(ctx))
	before, redoBefore := m.UndoCount(), m.RedoCount()

	h.undoFault = errBoom
	require.NoError(t, m.Undo(ctx))

	assert.Equal(t, before, m.UndoCount())
	assert.Equal(t, redoBefore, m.RedoCount())
	last, _ := m.LastExecuted()
	assert.Equal(t, "a", last.(*testCommand).Message)
	entry := log.last()
	assert.Equal(t, "command undo failed", entry.msg)
	assert.ErrorIs(t, entry.err, errBoom)

	h.undoFault = nil
	require.NoError(t, m.Undo(ctx))
	assert.Zero(t, m.UndoCount())
	assert.Equal(t, 2, m.RedoCount())
}

func TestUndoable_RedoFaultRestoresCommand(t *testing.T) {
	ctx := context.Background()
	h := &testHandler{}
	m, log := newUndoable(t, h)
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "a", State: s}))
	require.NoError(t, m.Undo(ctx))

	h.execFault = errBoom
	require.NoError(t, m.Redo(ctx))

	assert.Equal(t, 1, m.RedoCount())
	assert.Zero(t, m.UndoCount())
	assert.Equal(t, "command redo failed", log.last().msg)
}

func TestUndoable_FaultsWrappingSentinelAreIsolated(t *testing.T) {
	ctx := context.Background()
	h := &testHandler{}
	m, log := newUndoable(t, h)
	s := &state{}
	fault := fmt.Errorf("nested dispatch: %w", command.ErrConfiguration)

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "a", State: s}))

	h.undoFault = fault
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, "command undo failed", log.last().msg)

	h.undoFault = nil
	require.NoError(t, m.Undo(ctx))
	require.Equal(t, 1, m.RedoCount())

	h.execFault = fault
	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, 1, m.RedoCount())
	assert.Zero(t, m.UndoCount())
	assert.Equal(t, "command redo failed", log.last().msg)
	assert.ErrorIs(t, log.last().err, fault)
}

func TestUndoable_UndoWithoutCapabilitySurfaces(t *testing.T) {
	ctx := context.Background()
	d := dispatch.New()
	require.NoError(t, dispatch.Register[*testCommand](d, command.Funcs[*testCommand]{}))
	m, err := manager.NewUndoable(d, history.NewMemory(), history.NewMemory())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Execute(ctx, &testCommand{}))
	err = m.Undo(ctx)

	assert.ErrorIs(t, err, command.ErrConfiguration)
	assert.Equal(t, 1, m.UndoCount())
	assert.Zero(t, m.RedoCount())
}

func TestUndoable_QueuedExecuteClearsRedo(t *testing.T) {
	ctx := context.Background()
	m, _ := newUndoable(t, &testHandler{})
	s := &state{}

	require.NoError(t, m.Execute(ctx, &testCommand{Message: "a", State: s}))
	require.NoError(t, m.Undo(ctx))
	require.Equal(t, 1, m.RedoCount())

	require.NoError(t, m.QueueCommand(&testCommand{Message: "queued", State: s}))

	assert.Eventually(t, func() bool {
		return m.UndoCount() == 1 && m.RedoCount() == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "queued", s.get())
}

type countingCommand struct{ id string }

func (countingCommand) CommandName() string { return "Tests::Counting" }

func TestUndoable_QueueLiveness(t *testing.T) {
	const producers, perProducer = 10, 100

	var (
		mu    sync.Mutex
		calls = make(map[string]int)
	)
	d := dispatch.New()
	require.NoError(t, dispatch.Register[countingCommand](d, command.Funcs[countingCommand]{
		ExecuteFn: func(_ context.Context, c countingCommand) error {
			time.Sleep(10 * time.Microsecond)
			mu.Lock()
			calls[c.id]++
			mu.Unlock()
			return nil
		},
		UndoFn: func(context.Context, countingCommand) error { return nil },
	}))
	m, err := manager.NewUndoable(d, history.NewMemory(), history.NewMemory())
	require.NoError(t, err)
	defer m.Close()

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				if err := m.QueueCommand(countingCommand{id: fmt.Sprintf("%d-%d", p, i)}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Eventually(t, func() bool {
		return m.UndoCount() == producers*perProducer
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, calls, producers*perProducer)
	for id, n := range calls {
		assert.Equal(t, 1, n, "command %s executed %d times", id, n)
	}
}

func TestUndoable_SerializeHistoryUsesUndoStack(t *testing.T) {
	ctx := context.Background()
	m, _ := newUndoable(t, &testHandler{})
	s := &state{}

	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, m.Execute(ctx, &testCommand{Message: msg, State: s}))
	}
	require.NoError(t, m.Undo(ctx))

	out, err := m.SerializeHistory(namesSerializer{})
	require.NoError(t, err)
	assert.Equal(t, "a,b", out)
}
