// Package env resolves the cmdkit home directory and the files that live in it.
package env

import (
	"os"
	"path/filepath"
	"sync"
)

// HomeEnv overrides the home directory when no --home flag is given.
const HomeEnv = "CMDKIT_HOME"

// Paths 定义了应用所有的关键路径
type Paths struct {
	HomeDir    string // 主目录
	LogFile    string // cmdkit.log
	SocketFile string // session server socket
	LockFile   string // held while a session server runs
	ScriptDir  string // default place for play scripts
}

var (
	current Paths
	once    sync.Once
)

// DefaultHome is injected with ldflags by distro packages.
var DefaultHome string

// Get returns the paths resolved by Init. Before Init it is the zero value.
func Get() Paths {
	return current
}

// Init resolves the home directory once per process and creates it.
// Precedence: flagHome, $CMDKIT_HOME, DefaultHome, ~/.cmdkit.
func Init(flagHome string) error {
	var err error
	once.Do(func() {
		var home string
		home, err = resolveHome(flagHome)
		if err != nil {
			return
		}
		if err = os.MkdirAll(home, 0o755); err != nil {
			return
		}
		current = For(home)
	})
	return err
}

// For lays out the paths under home without touching the filesystem.
func For(home string) Paths {
	return Paths{
		HomeDir:    home,
		LogFile:    filepath.Join(home, "cmdkit.log"),
		SocketFile: filepath.Join(home, "cmdkit.sock"),
		LockFile:   filepath.Join(home, "cmdkit.lock"),
		ScriptDir:  filepath.Join(home, "scripts"),
	}
}

func resolveHome(flagHome string) (string, error) {
	home := flagHome
	if home == "" {
		home = os.Getenv(HomeEnv)
	}
	if home == "" {
		home = DefaultHome
	}
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = filepath.Join(userHome, ".cmdkit")
	}
	// 转换成绝对路径，避免后续逻辑混乱
	return filepath.Abs(home)
}

// ResetForTest 重置环境单例状态
// ⚠️ 仅供测试使用，生产代码禁止调用
func ResetForTest() {
	current = Paths{}
	once = sync.Once{}
}
