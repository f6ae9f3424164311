package config_test

import (
	"os"
	"testing"

	"github.com/kyson/cmdkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"CMDKIT_DEBUG", "CMDKIT_HOME", "CMDKIT_LOG_FILE", "CMDKIT_FORMAT", "CMDKIT_UNDO_LIMIT"}

// unsetAll clears every CMDKIT_ variable for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)

	s, err := config.Load()
	require.NoError(t, err)
	assert.False(t, s.Debug)
	assert.Empty(t, s.Home)
	assert.Equal(t, "json", s.Format)
	assert.Zero(t, s.UndoLimit)
}

func TestLoad_FromEnv(t *testing.T) {
	unsetAll(t)
	t.Setenv("CMDKIT_DEBUG", "true")
	t.Setenv("CMDKIT_HOME", "/tmp/cmdkit-home")
	t.Setenv("CMDKIT_FORMAT", "yaml")
	t.Setenv("CMDKIT_UNDO_LIMIT", "25")

	s, err := config.Load()
	require.NoError(t, err)
	assert.True(t, s.Debug)
	assert.Equal(t, "/tmp/cmdkit-home", s.Home)
	assert.Equal(t, "yaml", s.Format)
	assert.Equal(t, 25, s.UndoLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad bool", key: "CMDKIT_DEBUG", val: "maybe"},
		{name: "negative limit", key: "CMDKIT_UNDO_LIMIT", val: "-1"},
		{name: "unknown format", key: "CMDKIT_FORMAT", val: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(tt.key, tt.val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
