package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/store"
)

var marks = map[game.Evaluation]string{
	game.EvalUnset:   " ",
	game.EvalCorrect: "+",
	game.EvalPresent: "~",
	game.EvalAbsent:  "-",
}

// render prints a plain-text view of the snapshot.
func render(w io.Writer, snap store.Snapshot) {
	user := "-"
	if snap.User != nil {
		user = snap.User.DisplayName
	}
	fmt.Fprintf(w, "user %s | socket %s | channel %s room %d\n",
		user, snap.Socket.State, orDash(string(snap.Channel.Channel)), snap.Channel.RoomSize)

	members := snap.Channel.Members()
	if len(members) > 0 {
		names := make([]string, 0, len(members))
		for _, m := range members {
			names = append(names, fmt.Sprintf("%s(%s,%s)", m.DisplayName, m.UID, m.Status))
		}
		fmt.Fprintf(w, "room: %s\n", strings.Join(names, " "))
	}

	s := snap.Game
	fmt.Fprintf(w, "game %s", s.Status)
	if s.Opponent != nil {
		fmt.Fprintf(w, " vs %s", s.Opponent.DisplayName)
	}
	if s.Request != nil {
		fmt.Fprintf(w, " | request %s %s", s.Request.Direction, s.Request.GameID)
	}
	if snap.Countdown.Phase != "" {
		fmt.Fprintf(w, " | %s %ds", snap.Countdown.Phase, snap.Countdown.SecondsRemaining)
	}
	if s.Error {
		fmt.Fprint(w, " | rejected word")
	}
	fmt.Fprintln(w)

	switch s.Status {
	case game.StatusAccepted, game.StatusWordConfirming:
		fmt.Fprintf(w, "secret [%s]\n", renderRow(s.Draft))
	case game.StatusInProgress, game.StatusOpponentFinished, game.StatusResolved:
		_, editing := s.ActiveRow()
		for i := range s.Board {
			cursor := " "
			if editing && i == s.Cursor.Row {
				cursor = ">"
			}
			fmt.Fprintf(w, "%s [%s]   [%s]\n", cursor, renderRow(s.Board[i]), renderMarks(s.OpponentBoard, i))
		}
	}

	if s.Results != nil {
		fmt.Fprintf(w, "%s: %s %d - %d %s\n", s.Outcome,
			s.Results.PlayerWord, s.Results.PlayerScore, s.Results.OtherPlayerScore, s.Results.OtherPlayerWord)
	}
}

func renderRow(row game.Row) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		letter := cell.Letter
		if letter == "" {
			letter = "_"
		}
		cells[i] = letter + marks[cell.Evaluation]
	}
	return strings.Join(cells, " ")
}

func renderMarks(board game.Board, i int) string {
	if i >= len(board) {
		return ""
	}
	cells := make([]string, len(board[i]))
	for j, cell := range board[i] {
		cells[j] = marks[cell.Evaluation]
	}
	return strings.Join(cells, "")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
