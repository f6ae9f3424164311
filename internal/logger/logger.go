package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Config controls Setup.
type Config struct {
	Debug    bool
	FilePath string // empty writes to stdout
}

var (
	instance *slog.Logger
	once     sync.Once
)

// Setup 初始化全局 logger，只生效一次
func Setup(cfg Config) {
	once.Do(func() {
		ops := &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelInfo,
		}
		if cfg.Debug {
			ops.Level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(openWriter(cfg.FilePath), ops)
		instance = slog.New(handler)
		slog.SetDefault(instance)
	})
}

func openWriter(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return os.Stdout
	}
	return f
}

// Get returns the process logger, setting up a stdout logger on first use.
func Get() *slog.Logger { return get() }

func get() *slog.Logger {
	if instance == nil {
		Setup(Config{})
	}
	return instance
}

func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
func Debug(msg string, args ...any) { get().Debug(msg, args...) }
