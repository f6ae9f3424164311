package monitor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kyson/cmdkit/internal/ipc"
)

// Update BubbleTea 更新逻辑
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case statusMsg:
		return m.handleStatus(msg)
	case statusTickMsg:
		return m, cmdFetchStatus(m.sender, true)
	case actionMsg:
		return m.handleAction(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Row = clamp(m.cursor.Row-1, m.rows)
	case "down", "j":
		m.cursor.Row = clamp(m.cursor.Row+1, m.rows)
	case "left", "h":
		m.cursor.Col = clamp(m.cursor.Col-1, m.cols)
	case "right", "l":
		m.cursor.Col = clamp(m.cursor.Col+1, m.cols)
	case "esc":
		m.moveFrom = nil
		m.notice = ""
	}

	if !m.connState.State.IsConnected() {
		return m, nil
	}

	switch msg.String() {
	case "enter", " ":
		return m, cmdSend(m.sender, ipc.MsgPlace, map[string]any{"row": m.cursor.Row, "col": m.cursor.Col})
	case "m":
		if m.moveFrom == nil {
			from := m.cursor
			m.moveFrom = &from
			m.setNotice(fmt.Sprintf("moving from (%d,%d): pick a target and press m", from.Row, from.Col), false)
			return m, nil
		}
		from := *m.moveFrom
		m.moveFrom = nil
		return m, cmdSend(m.sender, ipc.MsgMove, map[string]any{
			"from": []int{from.Row, from.Col},
			"to":   []int{m.cursor.Row, m.cursor.Col},
		})
	case "u":
		return m, cmdSend(m.sender, ipc.MsgUndo, nil)
	case "r":
		return m, cmdSend(m.sender, ipc.MsgRedo, nil)
	case "x":
		return m, cmdSend(m.sender, ipc.MsgResign, nil)
	}
	return m, nil
}

func (m Model) handleStatus(msg statusMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastErr = msg.Err
		m.connState.OnDisconnected()
		return m, m.nextPoll(msg)
	}
	m.lastErr = nil
	m.connState.OnConnected()

	d := msg.Data
	m.sessionID, _ = d["session"].(string)
	m.rows, _ = asInt(d["rows"])
	m.cols, _ = asInt(d["cols"])
	m.board = asStrings(d["board"])
	m.turn, _ = d["turn"].(string)
	m.winner, _ = d["winner"].(string)
	m.undo, _ = asInt(d["undo"])
	m.redo, _ = asInt(d["redo"])
	m.pending, _ = asInt(d["pending"])
	m.last, _ = d["last"].(string)

	m.cursor.Row = clamp(m.cursor.Row, m.rows)
	m.cursor.Col = clamp(m.cursor.Col, m.cols)
	return m, m.nextPoll(msg)
}

func (m Model) nextPoll(msg statusMsg) tea.Cmd {
	if !msg.Polled {
		return nil
	}
	return cmdPollAfter(m.interval)
}

func (m Model) handleAction(msg actionMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.setNotice(msg.Err.Error(), true)
	} else {
		m.setNotice(msg.Name+" ok", false)
	}
	return m, cmdFetchStatus(m.sender, false)
}

func (m *Model) setNotice(s string, isErr bool) {
	m.notice = s
	m.noticeErr = isErr
}

func clamp(v, size int) int {
	if size <= 0 || v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

func asInt(val any) (int, bool) {
	switch v := val.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func asStrings(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
