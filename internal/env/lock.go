package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

var (
	ErrSessionRunning    = errors.New("session server already running")
	ErrSessionNotRunning = errors.New("session server not running")
)

// SessionLock is an exclusive flock held by a running session server.
type SessionLock struct {
	file *os.File
	path string
}

// AcquireLock takes the lock at path without blocking.
// It fails with ErrSessionRunning when another process holds it.
func AcquireLock(path string) (*SessionLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrSessionRunning, path)
	}
	return &SessionLock{file: f, path: path}, nil
}

// CheckLock returns nil when some process holds the lock at path, and
// ErrSessionNotRunning otherwise.
func CheckLock(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if os.IsNotExist(err) {
		return ErrSessionNotRunning
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		// 获取锁失败，说明正在运行
		return nil
	}
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	return ErrSessionNotRunning
}

// Release drops the lock. The file stays so CheckLock can find it.
func (l *SessionLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}
