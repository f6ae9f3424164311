package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kyson/cmdkit/internal/command"
	"github.com/stretchr/testify/assert"
)

type note struct{ text string }

func (note) CommandName() string { return "test.note" }

func TestHandlerError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("dispatch: %w", &command.HandlerError{Op: command.OpUndo, Command: "test.note", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.True(t, command.IsHandlerError(err))
	assert.Contains(t, err.Error(), "command test.note undo failed: boom")
	assert.False(t, command.IsHandlerError(cause))
}

func TestSentinels(t *testing.T) {
	assert.ErrorIs(t, command.ErrNilCommand, command.ErrArgument)
	assert.ErrorIs(t, command.ErrUndoUnsupported, command.ErrConfiguration)
	assert.NotErrorIs(t, command.ErrEmptyHistory, command.ErrConfiguration)
}

func TestFuncs_Defaults(t *testing.T) {
	ctx := context.Background()
	var f command.Funcs[note]

	assert.True(t, f.Validate(ctx, note{}))
	assert.NoError(t, f.Execute(ctx, note{}))
	assert.ErrorIs(t, f.Undo(ctx, note{}), command.ErrConfiguration)

	var got string
	f = command.Funcs[note]{
		ValidateFn: func(_ context.Context, n note) bool { return n.text != "" },
		ExecuteFn:  func(_ context.Context, n note) error { got = n.text; return nil },
		UndoFn:     func(context.Context, note) error { got = ""; return nil },
	}
	assert.False(t, f.Validate(ctx, note{}))
	assert.NoError(t, f.Execute(ctx, note{text: "hi"}))
	assert.Equal(t, "hi", got)
	assert.NoError(t, f.Undo(ctx, note{text: "hi"}))
	assert.Empty(t, got)
}

type pointerNote struct{}

func (*pointerNote) CommandName() string { return "test.pointer" }

func TestIsNil(t *testing.T) {
	var typed *pointerNote

	assert.True(t, command.IsNil(nil))
	assert.True(t, command.IsNil(typed))
	assert.False(t, command.IsNil(&pointerNote{}))
	assert.False(t, command.IsNil(note{}))
}
