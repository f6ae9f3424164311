package codec

import (
	"encoding/json"

	"github.com/kyson/cmdkit/internal/command"
)

// JSON serializes envelopes with encoding/json.
type JSON struct {
	Indent string
}

func (j JSON) Serialize(cmd command.Command) (string, error) {
	env, err := Wrap(cmd)
	if err != nil {
		return "", err
	}
	return j.marshal(env)
}

func (j JSON) SerializeAll(cmds []command.Command) (string, error) {
	envs, err := WrapAll(cmds)
	if err != nil {
		return "", err
	}
	return j.marshal(envs)
}

func (j JSON) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if j.Indent != "" {
		data, err = json.MarshalIndent(v, "", j.Indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
