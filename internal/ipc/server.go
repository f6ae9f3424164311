package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const unixSocketPerm = 0o600

// ServerOptions control Serve behavior.
type ServerOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Ready receives one value once the socket is listening.
	Ready  chan<- struct{}
	Logger *slog.Logger
}

func (o *ServerOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Serve listens on a unix socket and answers one CommandMessage per
// connection until ctx is cancelled.
func Serve(ctx context.Context, socketPath string, handler CommandHandler, opts *ServerOptions) error {
	if handler == nil {
		return fmt.Errorf("ipc: handler is required")
	}
	log := opts.logger()

	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("ipc: prepare socket: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("ipc: create socket dir: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("ipc: listen error: %w", err)
	}
	if err := os.Chmod(socketPath, unixSocketPerm); err != nil {
		_ = listener.Close()
		return fmt.Errorf("ipc: chmod socket: %w", err)
	}
	if opts != nil && opts.Ready != nil {
		select {
		case opts.Ready <- struct{}{}:
		default:
		}
	}
	log.Info("session server listening", "socket", socketPath)

	var wg sync.WaitGroup
	connCtx, connCancel := context.WithCancel(ctx)
	defer func() {
		connCancel()
		listener.Close()
		wg.Wait()
		_ = os.Remove(socketPath)
	}()

	// 监听 context 取消，主动关闭 listener
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Info("session server stopped", "socket", socketPath)
				return nil
			default:
				return fmt.Errorf("ipc: accept error: %w", err)
			}
		}
		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			serveConn(connCtx, c, handler, opts, log)
		}(conn)
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler CommandHandler, opts *ServerOptions, log *slog.Logger) {
	defer conn.Close()
	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	if opts != nil {
		if opts.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(opts.ReadTimeout))
		}
		if opts.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
		}
	}

	var msg CommandMessage
	if err := decoder.Decode(&msg); err != nil {
		log.Warn("ipc decode failed", "error", err)
		_ = encoder.Encode(Errorf("decode error: %v", err))
		return
	}

	resp := handle(ctx, handler, msg, log)
	if resp.Status == "" {
		resp.Status = StatusOK
	}
	if err := encoder.Encode(resp); err != nil {
		log.Warn("ipc reply failed", "message", msg.Name, "error", err)
	}
}

func handle(ctx context.Context, handler CommandHandler, msg CommandMessage, log *slog.Logger) (resp CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("ipc handler panicked", "message", msg.Name, "panic", r)
			resp = Errorf("internal error handling %q", msg.Name)
		}
	}()
	log.Debug("ipc message", "message", msg.Name)
	return handler.Handle(ctx, msg)
}
