package ipc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message names understood by the session server.
const (
	MsgPlace   = "place"
	MsgMove    = "move"
	MsgResign  = "resign"
	MsgUndo    = "undo"
	MsgRedo    = "redo"
	MsgHistory = "history"
	MsgStatus  = "status"
)

// MetaQueue set to true in CommandMessage.Meta asks the session to queue a
// board command instead of running it before replying.
const MetaQueue = "queue"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CommandMessage is a single CLI request sent to the session server.
type CommandMessage struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Decode copies the payload into v through JSON.
func (m CommandMessage) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	raw, err := json.Marshal(m.Payload)
	if err != nil {
		return fmt.Errorf("ipc: encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("ipc: decode %s payload: %w", m.Name, err)
	}
	return nil
}

// CommandResult is the server's reply to one CommandMessage.
type CommandResult struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// OK reports whether the server accepted the message.
func (r CommandResult) OK() bool { return r.Status == StatusOK }

// Errorf builds an error result.
func Errorf(format string, args ...any) CommandResult {
	return CommandResult{Status: StatusError, Error: fmt.Sprintf(format, args...)}
}

// CommandHandler processes CommandMessages on the server side.
type CommandHandler interface {
	Handle(ctx context.Context, cmd CommandMessage) CommandResult
}

// HandlerFunc lets a function satisfy CommandHandler.
type HandlerFunc func(ctx context.Context, cmd CommandMessage) CommandResult

// Handle calls the wrapped function.
func (f HandlerFunc) Handle(ctx context.Context, cmd CommandMessage) CommandResult {
	if f == nil {
		return Errorf("handler func nil")
	}
	return f(ctx, cmd)
}
