package manager_test

import (
	"context"
	"errors"
	"sync"

	"github.com/kyson/cmdkit/internal/command"
)

type state struct {
	mu    sync.Mutex
	Value string
}

func (s *state) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Value
}

func (s *state) set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Value = v
}

type testCommand struct {
	Message string
	State   *state
}

func (*testCommand) CommandName() string { return "BoardGame::Tests::Test" }

// testHandler mirrors a handler that sets and clears a shared value.
type testHandler struct {
	reject    bool
	execFault error
	undoFault error
}

func (h *testHandler) Validate(context.Context, *testCommand) bool { return !h.reject }

func (h *testHandler) Execute(_ context.Context, cmd *testCommand) error {
	if h.execFault != nil {
		return h.execFault
	}
	cmd.State.set(cmd.Message)
	return nil
}

func (h *testHandler) Undo(_ context.Context, cmd *testCommand) error {
	if h.undoFault != nil {
		return h.undoFault
	}
	cmd.State.set("")
	return nil
}

var errBoom = errors.New("boom")

type logEntry struct {
	level string
	msg   string
	err   error
}

// recordingLogger captures Warning and Error calls.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, err: err})
}

func (l *recordingLogger) Verbose(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any)   {}
func (l *recordingLogger) Info(string, ...any)    {}
func (l *recordingLogger) Warning(msg string, _ ...any) {
	l.add("warning", msg, nil)
}
func (l *recordingLogger) Error(msg string, err error, _ ...any) {
	l.add("error", msg, err)
}
func (l *recordingLogger) Fatal(msg string, err error, _ ...any) {
	l.add("fatal", msg, err)
}

func (l *recordingLogger) levels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.level+": "+e.msg)
	}
	return out
}

func (l *recordingLogger) last() logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return logEntry{}
	}
	return l.entries[len(l.entries)-1]
}

type namesSerializer struct{}

func (namesSerializer) Serialize(cmd command.Command) (string, error) {
	return cmd.CommandName(), nil
}

func (namesSerializer) SerializeAll(cmds []command.Command) (string, error) {
	out := ""
	for i, c := range cmds {
		if i > 0 {
			out += ","
		}
		out += c.(*testCommand).Message
	}
	return out, nil
}
