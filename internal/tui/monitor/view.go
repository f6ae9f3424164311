package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ============================================================================
// 视图渲染
// ============================================================================

// 颜色定义 - 使用柔和色调
var (
	colorGreen   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#50FA7B"})
	colorYellow  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B08800", Dark: "#F1FA8C"})
	colorRed     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF6E6E"})
	colorCyan    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#8BE9FD"})
	colorMagenta = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8700AF", Dark: "#BD93F9"})
	colorWhite   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#F8F8F2"})
	colorDim     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"})
)

// 样式定义
var (
	mainBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(28)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#626262"})

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)
)

const title = " cmdkit monitor "

// View BubbleTea 视图接口
func (m Model) View() string {
	if !m.connState.State.IsConnected() {
		return renderWaiting(m)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		renderBoard(m),
		"  ",
		renderStatusCard(m),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m),
		"",
		body,
		"",
		renderNotice(m),
		renderHelpBar(),
	)
	return mainBoxStyle.Render(content)
}

// renderWaiting 连接中界面
func renderWaiting(m Model) string {
	line := colorCyan.Render("⟳ Waiting for the session server...")
	if m.connState.IsReconnecting() {
		line = colorYellow.Render(fmt.Sprintf("🔄 Session lost, reconnecting... (attempt %d)", m.connState.Failures))
	}
	lines := []string{titleStyle.Render(title), "", line, ""}
	if m.lastErr != nil {
		lines = append(lines, colorDim.Render(m.lastErr.Error()), "")
	}
	lines = append(lines, colorDim.Render("Start one with `cmdkit serve`. Press q to quit"))
	return mainBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func renderHeader(m Model) string {
	dot := colorGreen.Render("⏺") + " " + colorDim.Render("Connected")
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(title), " ", dot)
}

// renderBoard draws the grid with row and column indexes. The cursor cell is
// reversed and a pending move source is yellow.
func renderBoard(m Model) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < m.cols; c++ {
		sb.WriteString(colorDim.Render(fmt.Sprintf(" %d", c)))
	}
	sb.WriteByte('\n')

	from, moving := m.MoveFrom()
	for r, row := range m.board {
		sb.WriteString(colorDim.Render(fmt.Sprintf("%2d ", r)))
		for c, ch := range row {
			cell := styleMark(string(ch))
			switch {
			case r == m.cursor.Row && c == m.cursor.Col:
				cell = cursorStyle.Render(string(ch))
			case moving && r == from.Row && c == from.Col:
				cell = colorYellow.Render(string(ch))
			}
			sb.WriteString(" " + cell)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func styleMark(s string) string {
	switch s {
	case "X":
		return colorCyan.Render(s)
	case "O":
		return colorMagenta.Render(s)
	}
	return colorDim.Render(s)
}

func renderStatusCard(m Model) string {
	state := fmt.Sprintf("%s %s", colorDim.Render("Turn:"), styleMark(m.turn))
	if m.winner != "" {
		state = fmt.Sprintf("%s %s", colorDim.Render("Winner:"), colorGreen.Render(m.winner))
	}
	last := m.last
	if last == "" {
		last = "-"
	}
	id := m.sessionID
	if len(id) > 8 {
		id = id[:8]
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		colorMagenta.Render("Session"),
		colorDim.Render(strings.Repeat("─", 26)),
		fmt.Sprintf("%s %s", colorDim.Render("ID:"), colorWhite.Render(id)),
		state,
		fmt.Sprintf("%s %s", colorDim.Render("Undo/Redo:"), colorWhite.Render(fmt.Sprintf("%d/%d", m.undo, m.redo))),
		fmt.Sprintf("%s %s", colorDim.Render("Queued:"), colorWhite.Render(fmt.Sprint(m.pending))),
		fmt.Sprintf("%s %s", colorDim.Render("Last:"), colorWhite.Render(last)),
	)
	return cardStyle.Render(content)
}

func renderNotice(m Model) string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return colorRed.Render("✗ " + m.notice)
	}
	return colorGreen.Render("✓ " + m.notice)
}

// renderHelpBar 帮助栏
func renderHelpBar() string {
	keys := []struct{ key, desc string }{
		{"←↑↓→", "cursor"},
		{"enter", "place"},
		{"m", "move"},
		{"u", "undo"},
		{"r", "redo"},
		{"x", "resign"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keyStyle.Render(k.key) + " " + helpStyle.Render(k.desc)
	}
	return strings.Join(parts, "  ")
}
