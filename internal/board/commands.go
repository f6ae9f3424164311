package board

// Place puts Mark on an empty cell.
type Place struct {
	Mark Mark `json:"mark" yaml:"mark"`
	At   Cell `json:"at" yaml:"at"`
}

func (Place) CommandName() string { return "board.place" }

// Move slides one of Mark's pieces to an empty cell.
type Move struct {
	Mark Mark `json:"mark" yaml:"mark"`
	From Cell `json:"from" yaml:"from"`
	To   Cell `json:"to" yaml:"to"`
}

func (Move) CommandName() string { return "board.move" }

// Resign ends the game in favor of Player's opponent.
type Resign struct {
	Player Mark `json:"player" yaml:"player"`
}

func (Resign) CommandName() string { return "board.resign" }
