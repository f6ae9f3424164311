// Package board is a small turn-based grid game used to drive the command
// engine: two players alternate placing and moving marks until one of them
// lines up enough marks or resigns.
package board

import (
	"fmt"
	"strings"
	"sync"
)

// Mark identifies a player, and what occupies a cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Opponent returns the other player.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

// Valid reports whether m is a player mark.
func (m Mark) Valid() bool { return m == X || m == O }

// ParseMark accepts x/X/o/O.
func ParseMark(s string) (Mark, error) {
	m := Mark(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return Empty, fmt.Errorf("unknown mark %q", s)
	}
	return m, nil
}

// Cell addresses one square.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Board holds game state. Handlers mutate it; everything else reads it.
type Board struct {
	mu       sync.RWMutex
	rows     int
	cols     int
	line     int
	cells    [][]Mark
	turn     Mark
	resigned Mark
}

// New returns an empty board. line is how many marks in a row win; zero
// means min(rows, cols). X moves first.
func New(rows, cols, line int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("board size must be positive, got %dx%d", rows, cols)
	}
	if line <= 0 {
		line = min(rows, cols)
	}
	if line > max(rows, cols) {
		return nil, fmt.Errorf("winning line %d does not fit a %dx%d board", line, rows, cols)
	}
	cells := make([][]Mark, rows)
	for r := range cells {
		cells[r] = make([]Mark, cols)
	}
	return &Board{rows: rows, cols: cols, line: line, cells: cells, turn: X}, nil
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Turn returns the player expected to move next.
func (b *Board) Turn() Mark {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.turn
}

// At returns the mark in c, or Empty when c is off the board.
func (b *Board) At(c Cell) Mark {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.inside(c) {
		return Empty
	}
	return b.cells[c.Row][c.Col]
}

// Inside reports whether c is on the board.
func (b *Board) Inside(c Cell) bool { return b.inside(c) }

func (b *Board) inside(c Cell) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.cols
}

// Winner returns the winning player, or Empty while the game is open.
func (b *Board) Winner() Mark {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.winner()
}

// Over reports whether the game has ended.
func (b *Board) Over() bool { return b.Winner() != Empty }

func (b *Board) winner() Mark {
	if b.resigned != Empty {
		return b.resigned.Opponent()
	}
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			m := b.cells[r][c]
			if m == Empty {
				continue
			}
			for _, d := range dirs {
				if b.runLength(r, c, d[0], d[1], m) >= b.line {
					return m
				}
			}
		}
	}
	return Empty
}

func (b *Board) runLength(r, c, dr, dc int, m Mark) int {
	n := 0
	for b.inside(Cell{r, c}) && b.cells[r][c] == m {
		n++
		r += dr
		c += dc
	}
	return n
}

// Rows of the board as strings, '.' for empty cells.
func (b *Board) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, b.rows)
	for r, row := range b.cells {
		var sb strings.Builder
		for _, m := range row {
			if m == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(m))
		}
		out[r] = sb.String()
	}
	return out
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.cols; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	for r, row := range b.Snapshot() {
		fmt.Fprintf(&sb, "%2d", r)
		for _, ch := range row {
			fmt.Fprintf(&sb, " %c", ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
