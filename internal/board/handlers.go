package board

import (
	"context"
	"fmt"

	"github.com/kyson/cmdkit/internal/dispatch"
)

// Register binds the board handlers for b into d.
func Register(d *dispatch.Dispatcher, b *Board) error {
	if err := dispatch.Register[Place](d, &placeHandler{b: b}); err != nil {
		return err
	}
	if err := dispatch.Register[Move](d, &moveHandler{b: b}); err != nil {
		return err
	}
	return dispatch.Register[Resign](d, &resignHandler{b: b})
}

type placeHandler struct{ b *Board }

func (h *placeHandler) Validate(_ context.Context, cmd Place) bool {
	b := h.b
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.winner() == Empty &&
		cmd.Mark == b.turn &&
		b.inside(cmd.At) &&
		b.cells[cmd.At.Row][cmd.At.Col] == Empty
}

func (h *placeHandler) Execute(_ context.Context, cmd Place) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inside(cmd.At) {
		return fmt.Errorf("cell %s is off the board", cmd.At)
	}
	if cur := b.cells[cmd.At.Row][cmd.At.Col]; cur != Empty {
		return fmt.Errorf("cell %s is taken by %s", cmd.At, cur)
	}
	b.cells[cmd.At.Row][cmd.At.Col] = cmd.Mark
	b.turn = cmd.Mark.Opponent()
	return nil
}

func (h *placeHandler) Undo(_ context.Context, cmd Place) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inside(cmd.At) || b.cells[cmd.At.Row][cmd.At.Col] != cmd.Mark {
		return fmt.Errorf("cell %s does not hold %s", cmd.At, cmd.Mark)
	}
	b.cells[cmd.At.Row][cmd.At.Col] = Empty
	b.turn = cmd.Mark
	return nil
}

type moveHandler struct{ b *Board }

func (h *moveHandler) Validate(_ context.Context, cmd Move) bool {
	b := h.b
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.winner() == Empty &&
		cmd.Mark == b.turn &&
		cmd.From != cmd.To &&
		b.inside(cmd.From) && b.inside(cmd.To) &&
		b.cells[cmd.From.Row][cmd.From.Col] == cmd.Mark &&
		b.cells[cmd.To.Row][cmd.To.Col] == Empty
}

func (h *moveHandler) Execute(_ context.Context, cmd Move) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slide(cmd.Mark, cmd.From, cmd.To, cmd.Mark.Opponent())
}

func (h *moveHandler) Undo(_ context.Context, cmd Move) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slide(cmd.Mark, cmd.To, cmd.From, cmd.Mark)
}

// slide moves m from one cell to another and hands the turn to next.
// Callers hold b.mu.
func (b *Board) slide(m Mark, from, to Cell, next Mark) error {
	if !b.inside(from) || !b.inside(to) {
		return fmt.Errorf("move %s->%s leaves the board", from, to)
	}
	if b.cells[from.Row][from.Col] != m {
		return fmt.Errorf("cell %s does not hold %s", from, m)
	}
	if b.cells[to.Row][to.Col] != Empty {
		return fmt.Errorf("cell %s is taken", to)
	}
	b.cells[from.Row][from.Col] = Empty
	b.cells[to.Row][to.Col] = m
	b.turn = next
	return nil
}

type resignHandler struct{ b *Board }

func (h *resignHandler) Validate(_ context.Context, cmd Resign) bool {
	b := h.b
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cmd.Player.Valid() && b.winner() == Empty
}

func (h *resignHandler) Execute(_ context.Context, cmd Resign) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resigned = cmd.Player
	return nil
}

func (h *resignHandler) Undo(_ context.Context, cmd Resign) error {
	b := h.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resigned != cmd.Player {
		return fmt.Errorf("%s has not resigned", cmd.Player)
	}
	b.resigned = Empty
	return nil
}
