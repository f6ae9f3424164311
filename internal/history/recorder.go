// Package history stores executed commands as a stack while keeping a
// chronological view for export.
package history

import (
	"sync"

	"github.com/kyson/cmdkit/internal/command"
)

// Recorder is an ordered command history: LIFO for Push/Pop, oldest-first for
// InOrder.
type Recorder interface {
	Push(cmd command.Command)
	Pop() (command.Command, error)
	Peek() (command.Command, bool)
	Clear()
	Count() int
	InOrder() []command.Command
}

// Option configures a Memory recorder.
type Option func(*Memory)

// WithLimit caps the recorder at n entries; pushing past the cap drops the
// oldest entry. n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.limit = n
		}
	}
}

// Memory is an in-memory Recorder safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	items []command.Command
	limit int
}

// NewMemory returns an empty in-memory recorder.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Push(cmd command.Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, cmd)
	if m.limit > 0 && len(m.items) > m.limit {
		drop := len(m.items) - m.limit
		clear(m.items[:drop])
		m.items = m.items[drop:]
	}
}

// Pop removes and returns the most recent command.
func (m *Memory) Pop() (command.Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.items)
	if n == 0 {
		return nil, command.ErrEmptyHistory
	}
	cmd := m.items[n-1]
	m.items[n-1] = nil
	m.items = m.items[:n-1]
	return cmd, nil
}

// Peek returns the most recent command without removing it.
func (m *Memory) Peek() (command.Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil, false
	}
	return m.items[len(m.items)-1], true
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// InOrder returns a copy of the history, oldest first.
func (m *Memory) InOrder() []command.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]command.Command, len(m.items))
	copy(out, m.items)
	return out
}

var _ Recorder = (*Memory)(nil)
