// Package monitor is the interactive terminal view of a running session.
package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kyson/cmdkit/internal/ipc"
)

// DefaultPollInterval is how often the view refreshes the session status.
const DefaultPollInterval = 500 * time.Millisecond

// Cell is a cursor position on the board.
type Cell struct {
	Row, Col int
}

// Model BubbleTea 模型
type Model struct {
	sender    ipc.CommandSender
	interval  time.Duration
	connState ConnectionStateMachine

	sessionID string
	rows      int
	cols      int
	board     []string
	turn      string
	winner    string
	undo      int
	redo      int
	pending   int
	last      string

	cursor   Cell
	moveFrom *Cell

	notice    string
	noticeErr bool
	lastErr   error
}

// NewModel builds a model that talks to the session through sender.
func NewModel(sender ipc.CommandSender) Model {
	return Model{sender: sender, interval: DefaultPollInterval}
}

// WithInterval overrides the poll interval.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

// Init BubbleTea 初始化
func (m Model) Init() tea.Cmd {
	return cmdFetchStatus(m.sender, true)
}

func (m *Model) ConnState() ConnState { return m.connState.State }
func (m *Model) Board() []string      { return m.board }
func (m *Model) Turn() string         { return m.turn }
func (m *Model) Winner() string       { return m.winner }
func (m *Model) Cursor() Cell         { return m.cursor }
func (m *Model) Notice() string       { return m.notice }
func (m *Model) LastError() error     { return m.lastErr }

// MoveFrom returns the selected source cell of a pending move.
func (m *Model) MoveFrom() (Cell, bool) {
	if m.moveFrom == nil {
		return Cell{}, false
	}
	return *m.moveFrom, true
}
