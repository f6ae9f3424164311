package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/kyson/cmdkit/internal/codec"
	"github.com/kyson/cmdkit/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type say struct {
	Message string `json:"message"`
	secret  string
}

func (say) CommandName() string { return "test.say" }

type counter int

func (counter) CommandName() string { return "test.counter" }

type custom struct{}

func (custom) CommandName() string     { return "test.custom" }
func (custom) Payload() map[string]any { return map[string]any{"k": "v"} }

func TestJSON_Serialize(t *testing.T) {
	out, err := codec.JSON{}.Serialize(say{Message: "hi", secret: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"test.say","payload":{"message":"hi"}}`, out)
}

func TestJSON_SerializeAllKeepsOrder(t *testing.T) {
	cmds := []command.Command{say{Message: "a"}, counter(7), custom{}, say{Message: "b"}}

	out, err := codec.JSON{Indent: "  "}.SerializeAll(cmds)
	require.NoError(t, err)

	var envs []codec.Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &envs))
	require.Len(t, envs, 4)
	assert.Equal(t, "test.say", envs[0].Name)
	assert.Equal(t, "a", envs[0].Payload["message"])
	assert.Equal(t, float64(7), envs[1].Payload["value"])
	assert.Equal(t, "v", envs[2].Payload["k"])
	assert.Equal(t, "b", envs[3].Payload["message"])
}

func TestJSON_EmptyHistory(t *testing.T) {
	out, err := codec.JSON{}.SerializeAll(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestYAML_SerializeAll(t *testing.T) {
	out, err := codec.YAML{}.SerializeAll([]command.Command{say{Message: "a"}, custom{}})
	require.NoError(t, err)

	var envs []codec.Envelope
	require.NoError(t, yaml.Unmarshal([]byte(out), &envs))
	require.Len(t, envs, 2)
	assert.Equal(t, "test.say", envs[0].Name)
	assert.Equal(t, "a", envs[0].Payload["message"])
	assert.Equal(t, "test.custom", envs[1].Name)
}

func TestYAML_Serialize(t *testing.T) {
	out, err := codec.YAML{}.Serialize(custom{})
	require.NoError(t, err)
	assert.Equal(t, "name: test.custom\npayload:\n  k: v\n", out)
}

func TestSerialize_NilCommand(t *testing.T) {
	_, err := codec.JSON{}.Serialize(nil)
	assert.ErrorIs(t, err, command.ErrArgument)

	_, err = codec.YAML{}.SerializeAll([]command.Command{say{}, nil})
	assert.ErrorIs(t, err, command.ErrArgument)
}

func TestForFormat(t *testing.T) {
	s, err := codec.ForFormat("")
	require.NoError(t, err)
	assert.IsType(t, codec.JSON{}, s)

	s, err = codec.ForFormat("YAML")
	require.NoError(t, err)
	assert.IsType(t, codec.YAML{}, s)

	_, err = codec.ForFormat("xml")
	assert.Error(t, err)
}
