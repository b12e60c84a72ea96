package game

import (
	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// Status is the duel lifecycle state.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusRequestPending   Status = "request_pending"
	StatusAccepted         Status = "accepted"
	StatusWordConfirming   Status = "word_confirming"
	StatusInProgress       Status = "in_progress"
	StatusOpponentFinished Status = "opponent_finished"
	StatusResolved         Status = "resolved"
)

// Outcome is set once a session is Resolved.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// Direction tells whether a duel request was received or sent.
type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

// Player identifies a user in a duel.
type Player struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}

// DuelRequest is the single outstanding request. Outgoing requests have no
// game id because the server only tells the recipient.
type DuelRequest struct {
	Direction Direction `json:"direction"`
	From      *Player   `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	GameID    string    `json:"game_id,omitempty"`
}

// Hint is the revealed letter of the hint channel.
type Hint struct {
	Letter string `json:"letter"`
	Index  int    `json:"index"`
}

// Results is the final duel summary.
type Results struct {
	Winner           string `json:"winner"`
	PlayerWord       string `json:"player_word"`
	OtherPlayerWord  string `json:"other_player_word"`
	PlayerScore      int    `json:"player_score"`
	OtherPlayerScore int    `json:"other_player_score"`
}

// Cursor is the active input position on the own board.
type Cursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Session is the local view of one duel. Every transition is a method with a
// value receiver that returns the next Session plus the intents to send, so a
// Session value is never modified after it is published.
type Session struct {
	Status   Status       `json:"status"`
	Outcome  Outcome      `json:"outcome,omitempty"`
	GameID   string       `json:"game_id,omitempty"`
	Opponent *Player      `json:"opponent,omitempty"`
	Request  *DuelRequest `json:"request,omitempty"`
	Hint     *Hint        `json:"hint,omitempty"`
	RoomSize int          `json:"room_size,omitempty"`

	// Secret word entry during the confirmation phase.
	Draft         Row  `json:"draft,omitempty"`
	WordConfirmed bool `json:"word_confirmed"`

	Board         Board  `json:"board,omitempty"`
	OpponentBoard Board  `json:"opponent_board,omitempty"`
	Cursor        Cursor `json:"cursor"`

	// AwaitingVerdict is set between submitting a row and the server verdict.
	AwaitingVerdict bool `json:"awaiting_verdict"`
	// Revealing is set while an evaluated own row is shown before the cursor
	// moves on.
	Revealing bool `json:"revealing"`
	// Exhausted is set once the last row has been evaluated.
	Exhausted bool `json:"exhausted"`

	Waiting bool `json:"waiting"`
	Error   bool `json:"error"`

	// Attempt increases on every entry into Accepted so observers can tell a
	// retried confirmation phase from the previous one.
	Attempt int `json:"attempt"`

	Results *Results `json:"results,omitempty"`
}

// Idle returns an empty session.
func Idle() Session {
	return Session{Status: StatusIdle}
}

// Active reports whether a duel has been accepted and not yet resolved.
func (s Session) Active() bool {
	switch s.Status {
	case StatusAccepted, StatusWordConfirming, StatusInProgress, StatusOpponentFinished:
		return true
	}
	return false
}

// Playing reports whether guess rows are being played.
func (s Session) Playing() bool {
	return s.Status == StatusInProgress || s.Status == StatusOpponentFinished
}

// ReceiveRequest stores an inbound duel request. A pending inbound request is
// replaced and rejected on the server; while a duel is running the new request
// is rejected immediately. On the results screen it is ignored.
func (s Session) ReceiveRequest(from Player, gameID string) (Session, []protocol.Intent) {
	request := &DuelRequest{Direction: Incoming, From: &from, GameID: gameID}

	switch s.Status {
	case StatusIdle:
		next := s
		next.Status = StatusRequestPending
		next.Request = request
		next.Waiting = false
		return next, nil

	case StatusRequestPending:
		var intents []protocol.Intent
		if prev := s.Request; prev != nil && prev.Direction == Incoming && prev.GameID != "" && prev.GameID != gameID {
			intents = append(intents, protocol.RejectDuel(prev.GameID))
		}
		next := s
		next.Request = request
		next.Waiting = false
		return next, intents

	case StatusResolved:
		return s, nil

	default:
		return s, []protocol.Intent{protocol.RejectDuel(gameID)}
	}
}

// SendRequest challenges another user.
func (s Session) SendRequest(uid string) (Session, []protocol.Intent) {
	if s.Status != StatusIdle || uid == "" {
		return s, nil
	}
	next := s
	next.Status = StatusRequestPending
	next.Request = &DuelRequest{Direction: Outgoing, To: uid}
	next.Waiting = true
	return next, []protocol.Intent{protocol.RequestDuel(uid)}
}

// Accept answers the pending inbound request. The session stays pending until
// the server confirms with GAME_ACCEPTED.
func (s Session) Accept() (Session, []protocol.Intent) {
	if s.Status != StatusRequestPending || s.Request == nil || s.Request.Direction != Incoming || s.Waiting {
		return s, nil
	}
	next := s
	next.Waiting = true
	return next, []protocol.Intent{protocol.AcceptDuel(s.Request.GameID)}
}

// Reject declines the pending inbound request and returns to Idle.
func (s Session) Reject() (Session, []protocol.Intent) {
	if s.Status != StatusRequestPending || s.Request == nil || s.Request.Direction != Incoming {
		return s, nil
	}
	return Idle(), []protocol.Intent{protocol.RejectDuel(s.Request.GameID)}
}

// Rejected applies a server rejection of the pending request.
func (s Session) Rejected(gameID string) Session {
	if s.Status != StatusRequestPending {
		return s
	}
	if s.Request != nil && s.Request.GameID != "" && gameID != "" && s.Request.GameID != gameID {
		return s
	}
	return Idle()
}

// Accepted starts the confirmation phase of a duel. Both boards are seeded
// with roomSize rows of roomSize empty cells.
func (s Session) Accepted(gameID string, opponent Player, hint *Hint, roomSize int) Session {
	if s.Status != StatusRequestPending || roomSize <= 0 {
		return s
	}
	next := Session{
		Status:        StatusAccepted,
		GameID:        gameID,
		Opponent:      &opponent,
		RoomSize:      roomSize,
		Board:         NewBoard(roomSize),
		OpponentBoard: NewBoard(roomSize),
		Draft:         NewRow(roomSize),
		Attempt:       s.Attempt + 1,
	}
	if hint != nil && hint.Index >= 0 && hint.Index < roomSize {
		h := *hint
		next.Hint = &h
		next.Draft[h.Index] = Cell{Letter: h.Letter}
	}
	return next
}

// SubmitSecret commits the drafted secret word.
func (s Session) SubmitSecret() (Session, []protocol.Intent) {
	if !s.editingSecret() || !s.Draft.Full() {
		return s, nil
	}
	next := s
	next.Status = StatusWordConfirming
	next.Waiting = true
	next.Error = false
	return next, []protocol.Intent{protocol.ConfirmWord(s.GameID, s.Draft.Word())}
}

// WordAccepted records that the server stored the secret word and is waiting
// for the opponent.
func (s Session) WordAccepted(gameID string) Session {
	if s.Status != StatusWordConfirming || !s.sameGame(gameID) {
		return s
	}
	next := s
	next.WordConfirmed = true
	return next
}

// TryAgain re-enters Accepted after the confirmation countdown expired while
// the opponent had not confirmed either.
func (s Session) TryAgain() Session {
	if s.Status != StatusWordConfirming && s.Status != StatusAccepted {
		return s
	}
	next := s
	next.Status = StatusAccepted
	next.WordConfirmed = false
	next.Waiting = false
	next.Attempt++
	return next
}

// Start moves into the guessing phase once both words are confirmed.
func (s Session) Start(gameID string) Session {
	if s.Status != StatusWordConfirming || !s.sameGame(gameID) {
		return s
	}
	next := s
	next.Status = StatusInProgress
	next.Board = NewBoard(s.RoomSize)
	next.OpponentBoard = NewBoard(s.RoomSize)
	next.Cursor = Cursor{}
	next.Waiting = false
	next.Error = false
	next.AwaitingVerdict = false
	next.Revealing = false
	next.Exhausted = false
	return next
}

// CheckWord applies a server verdict. An invalid verdict only raises the error
// flag. A valid verdict without a row evaluates the own active row and starts
// the reveal; with a row it updates the opponent board.
func (s Session) CheckWord(valid bool, row *int, letters []protocol.LetterResult) Session {
	switch {
	case s.Status == StatusWordConfirming:
		if valid {
			return s
		}
		next := s
		next.Error = true
		next.Waiting = false
		return next

	case s.Playing():
		if !valid {
			if row != nil {
				return s
			}
			next := s
			next.Error = true
			next.AwaitingVerdict = false
			return next
		}
		if row != nil {
			return s.opponentRow(*row, letters)
		}
		return s.ownRow(letters)
	}
	return s
}

// RandomWord applies an evaluation of a word played by the server on behalf
// of the local player.
func (s Session) RandomWord(letters []protocol.LetterResult) Session {
	if !s.Playing() {
		return s
	}
	return s.ownRow(letters)
}

func (s Session) ownRow(letters []protocol.LetterResult) Session {
	if s.Revealing || s.Exhausted {
		return s
	}
	next := s
	next.Board = s.Board.WithRow(s.Cursor.Row, rowFromLetters(s.RoomSize, letters))
	next.Revealing = true
	next.AwaitingVerdict = false
	next.Error = false
	return next
}

func (s Session) opponentRow(row int, letters []protocol.LetterResult) Session {
	if row < 0 || row >= len(s.OpponentBoard) {
		return s
	}
	next := s
	next.OpponentBoard = s.OpponentBoard.WithRow(row, rowFromLetters(s.RoomSize, letters))
	return next
}

// FinishReveal moves the cursor to the next row once the reveal delay of an
// evaluated row has passed.
func (s Session) FinishReveal() Session {
	if !s.Playing() || !s.Revealing {
		return s
	}
	next := s
	next.Revealing = false
	if s.Cursor.Row < s.RoomSize-1 {
		next.Cursor = Cursor{Row: s.Cursor.Row + 1, Col: 0}
	} else {
		next.Exhausted = true
	}
	return next
}

// OpponentFinished records that the opponent solved or used all guesses.
func (s Session) OpponentFinished() Session {
	if s.Status != StatusInProgress {
		return s
	}
	next := s
	next.Status = StatusOpponentFinished
	return next
}

// Resolve ends the duel with the final results.
func (s Session) Resolve(outcome Outcome, results Results) Session {
	if !s.Active() {
		return s
	}
	next := s
	next.Status = StatusResolved
	next.Outcome = outcome
	next.Results = &results
	next.Waiting = false
	next.AwaitingVerdict = false
	next.Revealing = false
	return next
}

// ReturnToRooms discards the session when the user goes back to the room
// directory.
func (s Session) ReturnToRooms() Session {
	return Idle()
}

// editingSecret reports whether the secret-word draft accepts input: before
// the first submission, or after the server refused the submitted word.
func (s Session) editingSecret() bool {
	switch s.Status {
	case StatusAccepted:
		return true
	case StatusWordConfirming:
		return !s.Waiting && !s.WordConfirmed
	}
	return false
}

func (s Session) sameGame(gameID string) bool {
	return gameID == "" || s.GameID == "" || gameID == s.GameID
}
