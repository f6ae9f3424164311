// Package codec renders command history as JSON or YAML.
//
// Every command is wrapped in an envelope carrying its name and its exported
// fields as payload.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/kyson/cmdkit/internal/command"
)

// Envelope is the serialized form of one command.
type Envelope struct {
	Name    string         `json:"name" yaml:"name"`
	Payload map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Payloader lets a command choose its own serialized payload.
type Payloader interface {
	Payload() map[string]any
}

// Wrap builds the envelope for cmd. Commands without a Payload method are
// converted through their JSON representation.
func Wrap(cmd command.Command) (Envelope, error) {
	if command.IsNil(cmd) {
		return Envelope{}, command.ErrNilCommand
	}
	env := Envelope{Name: cmd.CommandName()}
	if p, ok := cmd.(Payloader); ok {
		env.Payload = p.Payload()
		return env, nil
	}
	raw, err := json.Marshal(cmd)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", env.Name, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// not an object (e.g. a named int); keep the raw value
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return Envelope{}, fmt.Errorf("decode %s payload: %w", env.Name, err)
		}
		payload = map[string]any{"value": v}
	}
	if len(payload) > 0 {
		env.Payload = payload
	}
	return env, nil
}

// WrapAll wraps cmds, preserving order.
func WrapAll(cmds []command.Command) ([]Envelope, error) {
	out := make([]Envelope, 0, len(cmds))
	for i, cmd := range cmds {
		env, err := Wrap(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		out = append(out, env)
	}
	return out, nil
}
