package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/kyson/cmdkit/internal/env"
	"github.com/kyson/cmdkit/internal/ipc"
)

var ErrSessionUnavailable = errors.New("session server unavailable (tip: run `cmdkit serve`)")

var commandSenderFactory = defaultCommandSenderFactory

func defaultCommandSenderFactory() ipc.CommandSender {
	return ipc.NewUnixSender(env.Get().SocketFile)
}

// SetCommandSenderFactory lets tests replace the command sender.
func SetCommandSenderFactory(factory func() ipc.CommandSender) {
	if factory == nil {
		commandSenderFactory = defaultCommandSenderFactory
		return
	}
	commandSenderFactory = factory
}

// ResetCommandSenderFactory restores the default sender.
func ResetCommandSenderFactory() {
	commandSenderFactory = defaultCommandSenderFactory
}

// dispatchToSession sends a message to the session server, returning
// ErrSessionUnavailable when the socket is unreachable.
func dispatchToSession(ctx context.Context, name string, payload map[string]any) (ipc.CommandResult, error) {
	return dispatchMessage(ctx, ipc.CommandMessage{Name: name, Payload: payload})
}

func dispatchMessage(ctx context.Context, msg ipc.CommandMessage) (ipc.CommandResult, error) {
	name := msg.Name
	sender := commandSenderFactory()
	resp, err := sender.Send(ctx, msg)
	if err != nil {
		if isSessionUnavailable(err) {
			return ipc.CommandResult{}, ErrSessionUnavailable
		}
		return ipc.CommandResult{}, fmt.Errorf("ipc send failed: %w", err)
	}
	if resp.Status == "" {
		resp.Status = ipc.StatusOK
	}
	if !resp.OK() {
		if resp.Error != "" {
			return resp, fmt.Errorf("%s: %s", name, resp.Error)
		}
		return resp, fmt.Errorf("%s: session responded with status %s", name, resp.Status)
	}
	return resp, nil
}

func isSessionUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	if strings.Contains(err.Error(), "connect failed") || strings.Contains(err.Error(), "no such file or directory") {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
