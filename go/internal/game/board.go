package game

import (
	"strings"

	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// Evaluation is the per-letter guess feedback.
type Evaluation string

const (
	EvalUnset   Evaluation = ""
	EvalCorrect Evaluation = "correct"
	EvalPresent Evaluation = "present"
	EvalAbsent  Evaluation = "absent"
)

// Cell is one letter slot of a row.
type Cell struct {
	Letter     string     `json:"letter"`
	Evaluation Evaluation `json:"evaluation"`
}

// Row is an ordered, fixed-size sequence of cells. Rows are treated as values:
// every update builds a new slice.
type Row []Cell

// Board is an ordered sequence of rows.
type Board []Row

// NewRow returns size empty cells.
func NewRow(size int) Row {
	return make(Row, size)
}

// NewBoard returns size rows of size empty cells.
func NewBoard(size int) Board {
	board := make(Board, size)
	for i := range board {
		board[i] = NewRow(size)
	}
	return board
}

// WithRow returns a copy of the board with row i replaced. Untouched rows are
// shared since rows are never mutated in place.
func (b Board) WithRow(i int, row Row) Board {
	if i < 0 || i >= len(b) {
		return b
	}
	next := make(Board, len(b))
	copy(next, b)
	next[i] = row
	return next
}

// Word concatenates the row letters.
func (r Row) Word() string {
	var sb strings.Builder
	for _, c := range r {
		sb.WriteString(c.Letter)
	}
	return sb.String()
}

// Full reports whether every cell holds a letter.
func (r Row) Full() bool {
	for _, c := range r {
		if c.Letter == "" {
			return false
		}
	}
	return len(r) > 0
}

// firstEmpty returns the index of the first empty cell or -1.
func (r Row) firstEmpty() int {
	for i, c := range r {
		if c.Letter == "" {
			return i
		}
	}
	return -1
}

// withLetter places a letter at the first empty cell.
func (r Row) withLetter(letter string) (Row, bool) {
	i := r.firstEmpty()
	if i < 0 {
		return r, false
	}
	next := make(Row, len(r))
	copy(next, r)
	next[i] = Cell{Letter: letter}
	return next, true
}

// withoutLast clears the last filled cell, skipping the locked index.
func (r Row) withoutLast(locked int) (Row, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if i == locked || r[i].Letter == "" {
			continue
		}
		next := make(Row, len(r))
		copy(next, r)
		next[i] = Cell{}
		return next, true
	}
	return r, false
}

// entryCol is the column the next letter goes to, clamped to the last column
// once the row is full.
func (r Row) entryCol() int {
	if i := r.firstEmpty(); i >= 0 {
		return i
	}
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// rowFromLetters builds an evaluated row of the given size. Missing letters
// stay unset and extra letters are dropped.
func rowFromLetters(size int, letters []protocol.LetterResult) Row {
	row := NewRow(size)
	for i := 0; i < size && i < len(letters); i++ {
		row[i] = Cell{
			Letter:     letters[i].Value,
			Evaluation: Evaluation(letters[i].Status),
		}
	}
	return row
}
