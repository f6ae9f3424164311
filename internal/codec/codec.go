package codec

import (
	"fmt"
	"strings"

	"github.com/kyson/cmdkit/internal/manager"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ForFormat returns the serializer registered under name.
func ForFormat(name string) (manager.Serializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return JSON{Indent: "  "}, nil
	case FormatYAML, "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown history format %q", name)
	}
}

var (
	_ manager.Serializer = JSON{}
	_ manager.Serializer = YAML{}
)
