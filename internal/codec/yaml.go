package codec

import (
	"bytes"

	"github.com/kyson/cmdkit/internal/command"
	"gopkg.in/yaml.v3"
)

// YAML serializes envelopes with yaml.v3.
type YAML struct{}

func (YAML) Serialize(cmd command.Command) (string, error) {
	env, err := Wrap(cmd)
	if err != nil {
		return "", err
	}
	return marshalYAML(env)
}

func (YAML) SerializeAll(cmds []command.Command) (string, error) {
	envs, err := WrapAll(cmds)
	if err != nil {
		return "", err
	}
	return marshalYAML(envs)
}

func marshalYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
