// Package session hosts one board game behind the IPC server. Every request
// runs under a single lock so CLI clients see a consistent board and history.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kyson/cmdkit/internal/board"
	"github.com/kyson/cmdkit/internal/codec"
	"github.com/kyson/cmdkit/internal/command"
	"github.com/kyson/cmdkit/internal/dispatch"
	"github.com/kyson/cmdkit/internal/env"
	"github.com/kyson/cmdkit/internal/history"
	"github.com/kyson/cmdkit/internal/ipc"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/manager"
)

// Options configures a Session.
type Options struct {
	Rows, Cols, Line int
	UndoLimit        int
	// Format is the default history format, json or yaml.
	Format string
	Logger *slog.Logger
}

// Session owns a board, its dispatcher and an undoable manager.
type Session struct {
	mu      sync.Mutex
	id      string
	started time.Time
	format  string
	log     *slog.Logger

	board      *board.Board
	dispatcher *dispatch.Dispatcher
	mgr        *manager.Undoable
}

// New builds a session with a fresh board.
func New(opts Options) (*Session, error) {
	if opts.Rows == 0 {
		opts.Rows = 3
	}
	if opts.Cols == 0 {
		opts.Cols = 3
	}
	if _, err := codec.ForFormat(opts.Format); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	b, err := board.New(opts.Rows, opts.Cols, opts.Line)
	if err != nil {
		return nil, err
	}
	d := dispatch.New()
	if err := board.Register(d, b); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	limit := history.WithLimit(opts.UndoLimit)
	mgr, err := manager.NewUndoable(d, history.NewMemory(limit), history.NewMemory(limit),
		manager.WithLogger(logger.NewLeveled(log.With("session", id))))
	if err != nil {
		return nil, err
	}
	return &Session{
		id:         id,
		started:    time.Now(),
		format:     opts.Format,
		log:        log,
		board:      b,
		dispatcher: d,
		mgr:        mgr,
	}, nil
}

// ID is the random identifier reported by status.
func (s *Session) ID() string { return s.id }

// Board exposes the game board for inspection.
func (s *Session) Board() *board.Board { return s.board }

// Close stops the manager's queue worker.
func (s *Session) Close() error { return s.mgr.Close() }

// Serve takes the session lock and answers IPC requests on paths.SocketFile
// until ctx is cancelled.
func (s *Session) Serve(ctx context.Context, paths env.Paths) error {
	lock, err := env.AcquireLock(paths.LockFile)
	if err != nil {
		return err
	}
	defer lock.Release()

	s.log.Info("session started", "session", s.id, "socket", paths.SocketFile)
	defer s.log.Info("session shutting down", "session", s.id)
	return ipc.Serve(ctx, paths.SocketFile, s, &ipc.ServerOptions{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Logger:       s.log,
	})
}

// Handle routes one CLI message.
func (s *Session) Handle(ctx context.Context, msg ipc.CommandMessage) ipc.CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Name {
	case ipc.MsgPlace:
		return s.handlePlace(ctx, msg)
	case ipc.MsgMove:
		return s.handleMove(ctx, msg)
	case ipc.MsgResign:
		return s.handleResign(ctx, msg)
	case ipc.MsgUndo:
		return s.handleHistoryStep(s.mgr.Undo(ctx))
	case ipc.MsgRedo:
		return s.handleHistoryStep(s.mgr.Redo(ctx))
	case ipc.MsgHistory:
		return s.handleHistory(msg)
	case ipc.MsgStatus:
		return s.handleStatus()
	default:
		return ipc.Errorf("unknown command: %s", msg.Name)
	}
}

type placePayload struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Mark string `json:"mark"`
}

type movePayload struct {
	From []int  `json:"from"`
	To   []int  `json:"to"`
	Mark string `json:"mark"`
}

type resignPayload struct {
	Player string `json:"player"`
}

type historyPayload struct {
	Format string `json:"format"`
}

func (s *Session) handlePlace(ctx context.Context, msg ipc.CommandMessage) ipc.CommandResult {
	var p placePayload
	if err := msg.Decode(&p); err != nil {
		return ipc.Errorf("%v", err)
	}
	m, err := s.markOrTurn(p.Mark)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	return s.submit(ctx, msg, board.Place{Mark: m, At: board.Cell{Row: p.Row, Col: p.Col}})
}

func (s *Session) handleMove(ctx context.Context, msg ipc.CommandMessage) ipc.CommandResult {
	var p movePayload
	if err := msg.Decode(&p); err != nil {
		return ipc.Errorf("%v", err)
	}
	from, err := cell("from", p.From)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	to, err := cell("to", p.To)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	m, err := s.markOrTurn(p.Mark)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	return s.submit(ctx, msg, board.Move{Mark: m, From: from, To: to})
}

func (s *Session) handleResign(ctx context.Context, msg ipc.CommandMessage) ipc.CommandResult {
	var p resignPayload
	if err := msg.Decode(&p); err != nil {
		return ipc.Errorf("%v", err)
	}
	m, err := s.markOrTurn(p.Player)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	return s.submit(ctx, msg, board.Resign{Player: m})
}

// submit runs cmd now, or hands it to the manager's worker when the message
// carries the queue flag. Queued commands are validated on the worker, so a
// rejection only shows up in the log.
func (s *Session) submit(ctx context.Context, msg ipc.CommandMessage, cmd command.Command) ipc.CommandResult {
	if queued, _ := msg.Meta[ipc.MetaQueue].(bool); !queued {
		return s.apply(ctx, cmd)
	}
	if err := s.mgr.QueueCommand(cmd); err != nil {
		return ipc.Errorf("%v", err)
	}
	data := s.state()
	data["queued"] = cmd.CommandName()
	data["pending"] = s.mgr.Pending()
	return ipc.CommandResult{Status: ipc.StatusOK, Data: data}
}

// apply checks cmd against the board first so the client can be told about
// a rejected move; the manager itself treats rejection as a silent no-op.
func (s *Session) apply(ctx context.Context, cmd command.Command) ipc.CommandResult {
	ok, err := s.dispatcher.Validate(ctx, cmd)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	if !ok {
		return ipc.Errorf("%s rejected: %+v", cmd.CommandName(), cmd)
	}
	if err := s.mgr.Execute(ctx, cmd); err != nil {
		return ipc.Errorf("%v", err)
	}
	return ipc.CommandResult{Status: ipc.StatusOK, Data: s.state()}
}

func (s *Session) handleHistoryStep(err error) ipc.CommandResult {
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	return ipc.CommandResult{Status: ipc.StatusOK, Data: s.state()}
}

func (s *Session) handleHistory(msg ipc.CommandMessage) ipc.CommandResult {
	var p historyPayload
	if err := msg.Decode(&p); err != nil {
		return ipc.Errorf("%v", err)
	}
	format := p.Format
	if format == "" {
		format = s.format
	}
	ser, err := codec.ForFormat(format)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	out, err := s.mgr.SerializeHistory(ser)
	if err != nil {
		return ipc.Errorf("serialize history: %v", err)
	}
	return ipc.CommandResult{Status: ipc.StatusOK, Data: map[string]any{
		"count":   s.mgr.HistoryCount(),
		"history": out,
	}}
}

func (s *Session) handleStatus() ipc.CommandResult {
	data := s.state()
	data["rows"] = s.board.Rows()
	data["cols"] = s.board.Cols()
	data["uptime"] = time.Since(s.started).Round(time.Second).String()
	data["handlers"] = s.dispatcher.Names()
	data["pending"] = s.mgr.Pending()
	if last, ok := s.mgr.LastExecuted(); ok {
		data["last"] = fmt.Sprintf("%s %+v", last.CommandName(), last)
	}
	return ipc.CommandResult{Status: ipc.StatusOK, Data: data}
}

func (s *Session) state() map[string]any {
	return map[string]any{
		"session": s.id,
		"turn":    string(s.board.Turn()),
		"winner":  string(s.board.Winner()),
		"board":   s.board.Snapshot(),
		"undo":    s.mgr.UndoCount(),
		"redo":    s.mgr.RedoCount(),
	}
}

func (s *Session) markOrTurn(v string) (board.Mark, error) {
	if v == "" {
		return s.board.Turn(), nil
	}
	return board.ParseMark(v)
}

func cell(field string, pos []int) (board.Cell, error) {
	if len(pos) != 2 {
		return board.Cell{}, fmt.Errorf("%s: expected [row, col], got %v", field, pos)
	}
	return board.Cell{Row: pos[0], Col: pos[1]}, nil
}
