package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/kyson/cmdkit/internal/version.Tag=...".
var (
	Tag    = "dev"
	Commit = "none"
	Date   = "unknown"
)

type Info struct{}

func (i *Info) String() string {
	return fmt.Sprintf("cmdkit %s (%s) built at %s", Tag, Commit, Date)
}

// Map is the version as key/value pairs for structured output.
func (i *Info) Map() map[string]string {
	return map[string]string{
		"tag":    Tag,
		"commit": Commit,
		"date":   Date,
		"go":     runtime.Version(),
	}
}
