package game

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// NormalizeLetter upper-cases a single letter using Turkish casing rules.
// It returns "" for anything that is not exactly one letter.
func NormalizeLetter(key string) string {
	if utf8.RuneCountInString(key) != 1 {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(key)
	if !unicode.IsLetter(r) {
		return ""
	}
	return strings.ToUpperSpecial(unicode.TurkishCase, key)
}

// KeyPress types a letter into the secret draft or the active guess row.
func (s Session) KeyPress(key string) Session {
	letter := NormalizeLetter(key)
	if letter == "" {
		return s
	}

	if s.editingSecret() {
		draft, ok := s.Draft.withLetter(letter)
		if !ok {
			return s
		}
		next := s
		next.Draft = draft
		next.Error = false
		return next
	}

	if !s.editingGuess() {
		return s
	}
	row, ok := s.Board[s.Cursor.Row].withLetter(letter)
	if !ok {
		return s
	}
	next := s
	next.Board = s.Board.WithRow(s.Cursor.Row, row)
	next.Cursor.Col = row.entryCol()
	next.Error = false
	return next
}

// DeleteLetter clears the last typed letter. The hint letter cannot be
// deleted.
func (s Session) DeleteLetter() Session {
	if s.editingSecret() {
		locked := -1
		if s.Hint != nil {
			locked = s.Hint.Index
		}
		draft, ok := s.Draft.withoutLast(locked)
		if !ok {
			return s
		}
		next := s
		next.Draft = draft
		next.Error = false
		return next
	}

	if !s.editingGuess() {
		return s
	}
	row, ok := s.Board[s.Cursor.Row].withoutLast(-1)
	if !ok {
		return s
	}
	next := s
	next.Board = s.Board.WithRow(s.Cursor.Row, row)
	next.Cursor.Col = row.entryCol()
	next.Error = false
	return next
}

// Enter submits the secret draft or the active guess row. Incomplete rows are
// ignored.
func (s Session) Enter() (Session, []protocol.Intent) {
	if s.editingSecret() {
		return s.SubmitSecret()
	}
	if !s.editingGuess() {
		return s, nil
	}
	row := s.Board[s.Cursor.Row]
	if !row.Full() {
		return s, nil
	}
	next := s
	next.AwaitingVerdict = true
	next.Error = false
	return next, []protocol.Intent{protocol.SubmitGuess(row.Word())}
}

// ActiveRow returns the row currently receiving input, if any.
func (s Session) ActiveRow() (Row, bool) {
	if !s.Playing() || s.Cursor.Row >= len(s.Board) {
		return nil, false
	}
	return s.Board[s.Cursor.Row], true
}

func (s Session) editingGuess() bool {
	return s.Playing() &&
		!s.AwaitingVerdict &&
		!s.Revealing &&
		!s.Exhausted &&
		s.Cursor.Row < len(s.Board)
}
