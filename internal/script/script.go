// Package script loads YAML play scripts and replays them against a board
// through an undoable manager.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/kyson/cmdkit/internal/board"
	"github.com/kyson/cmdkit/internal/command"
	"gopkg.in/yaml.v3"
)

// Script is a board setup followed by an ordered list of steps.
type Script struct {
	Board BoardSpec `yaml:"board"`
	Steps []Step    `yaml:"steps"`
}

// BoardSpec sizes the board. Zero values default to a 3x3 board.
type BoardSpec struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
	Line int `yaml:"line"`
}

// Action names what a step does.
type Action string

const (
	ActionPlace  Action = "place"
	ActionMove   Action = "move"
	ActionResign Action = "resign"
	ActionUndo   Action = "undo"
	ActionRedo   Action = "redo"
)

// Step is one line of a script. An empty Mark resolves to the player whose
// turn it is when the step runs.
type Step struct {
	Action Action
	Mark   board.Mark
	At     board.Cell
	From   board.Cell
	To     board.Cell
	Line   int
}

type placeStep struct {
	Mark string `yaml:"mark"`
	Row  int    `yaml:"row"`
	Col  int    `yaml:"col"`
}

type moveStep struct {
	Mark string `yaml:"mark"`
	From []int  `yaml:"from"`
	To   []int  `yaml:"to"`
}

type resignStep struct {
	Player string `yaml:"player"`
}

// UnmarshalYAML accepts either a bare action ("undo") or a single-key
// mapping ("place: {mark: X, row: 0, col: 0}").
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		a := Action(strings.ToLower(node.Value))
		if a != ActionUndo && a != ActionRedo {
			return fmt.Errorf("line %d: action %q needs arguments", node.Line, a)
		}
		s.Action = a
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: step must have exactly one action", node.Line)
		}
		if err := s.decode(Action(strings.ToLower(node.Content[0].Value)), node.Content[1]); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		return nil
	default:
		return fmt.Errorf("line %d: step must be a string or a mapping", node.Line)
	}
}

func (s *Step) decode(a Action, body *yaml.Node) error {
	var err error
	switch a {
	case ActionUndo, ActionRedo:
	case ActionPlace:
		var p placeStep
		if err = body.Decode(&p); err != nil {
			return err
		}
		s.At = board.Cell{Row: p.Row, Col: p.Col}
		s.Mark, err = optionalMark(p.Mark)
	case ActionMove:
		var mv moveStep
		if err = body.Decode(&mv); err != nil {
			return err
		}
		if s.From, err = toCell(mv.From); err != nil {
			return fmt.Errorf("from: %w", err)
		}
		if s.To, err = toCell(mv.To); err != nil {
			return fmt.Errorf("to: %w", err)
		}
		s.Mark, err = optionalMark(mv.Mark)
	case ActionResign:
		var r resignStep
		if err = body.Decode(&r); err != nil {
			return err
		}
		s.Mark, err = optionalMark(r.Player)
	default:
		return fmt.Errorf("unknown action %q", a)
	}
	if err != nil {
		return err
	}
	s.Action = a
	return nil
}

// Command builds the board command for a place, move or resign step. turn
// fills in a missing mark.
func (s Step) Command(turn board.Mark) (command.Command, error) {
	m := s.Mark
	if m == board.Empty {
		m = turn
	}
	switch s.Action {
	case ActionPlace:
		return board.Place{Mark: m, At: s.At}, nil
	case ActionMove:
		return board.Move{Mark: m, From: s.From, To: s.To}, nil
	case ActionResign:
		return board.Resign{Player: m}, nil
	}
	return nil, fmt.Errorf("%s step carries no command", s.Action)
}

func optionalMark(v string) (board.Mark, error) {
	if strings.TrimSpace(v) == "" {
		return board.Empty, nil
	}
	return board.ParseMark(v)
}

func toCell(pos []int) (board.Cell, error) {
	if len(pos) != 2 {
		return board.Cell{}, fmt.Errorf("expected [row, col], got %v", pos)
	}
	return board.Cell{Row: pos[0], Col: pos[1]}, nil
}

// Parse decodes a script from YAML.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.Board.Rows == 0 {
		s.Board.Rows = 3
	}
	if s.Board.Cols == 0 {
		s.Board.Cols = 3
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}
