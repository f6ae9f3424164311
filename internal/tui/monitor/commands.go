package monitor

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kyson/cmdkit/internal/ipc"
)

// ============================================================================
// 异步命令定义
// 所有与 session 交互的操作都封装为 tea.Cmd
// ============================================================================

const requestTimeout = 2 * time.Second

// cmdFetchStatus asks the session for its status.
func cmdFetchStatus(sender ipc.CommandSender, polled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := sender.Send(ctx, ipc.CommandMessage{Name: ipc.MsgStatus})
		if err == nil && !resp.OK() {
			err = errors.New(resp.Error)
		}
		if err != nil {
			return statusMsg{Err: err, Polled: polled}
		}
		return statusMsg{Data: resp.Data, Polled: polled}
	}
}

// cmdPollAfter 延迟触发下一次轮询
func cmdPollAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// cmdSend sends one game command to the session.
func cmdSend(sender ipc.CommandSender, name string, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := sender.Send(ctx, ipc.CommandMessage{Name: name, Payload: payload})
		if err == nil && !resp.OK() {
			err = errors.New(resp.Error)
		}
		return actionMsg{Name: name, Err: err}
	}
}
