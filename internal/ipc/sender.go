package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// CommandSender delivers command messages to the session server.
type CommandSender interface {
	Send(ctx context.Context, cmd CommandMessage) (CommandResult, error)
}

// UnixSender dials the unix socket each time Send is invoked.
type UnixSender struct {
	Socket  string
	Timeout time.Duration
}

// NewUnixSender returns a CommandSender that talks over a unix socket.
func NewUnixSender(socket string) *UnixSender {
	return &UnixSender{Socket: socket, Timeout: 2 * time.Second}
}

func (s *UnixSender) Send(ctx context.Context, cmd CommandMessage) (CommandResult, error) {
	if s == nil || s.Socket == "" {
		return CommandResult{}, fmt.Errorf("ipc: invalid unix sender")
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "unix", s.Socket)
	if err != nil {
		return CommandResult{}, fmt.Errorf("ipc: connect failed: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(s.Timeout)); err != nil {
		return CommandResult{}, err
	}
	if err := json.NewEncoder(conn).Encode(cmd); err != nil {
		return CommandResult{}, fmt.Errorf("ipc: encode command: %w", err)
	}

	var resp CommandResult
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return CommandResult{}, fmt.Errorf("ipc: decode response: %w", err)
	}
	return resp, nil
}

// FakeSender lets CLI tests inject deterministic responses and inspect what
// was sent.
type FakeSender struct {
	Response CommandResult
	Err      error

	mu   sync.Mutex
	sent []CommandMessage
}

func (f *FakeSender) Send(_ context.Context, cmd CommandMessage) (CommandResult, error) {
	f.mu.Lock()
	f.sent = append(f.sent, cmd)
	f.mu.Unlock()
	if f.Err != nil {
		return CommandResult{}, f.Err
	}
	return f.Response, nil
}

// Sent returns the messages passed to Send so far.
func (f *FakeSender) Sent() []CommandMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CommandMessage(nil), f.sent...)
}
