package game

import (
	"testing"

	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letters(statuses ...protocol.LetterStatus) []protocol.LetterResult {
	out := make([]protocol.LetterResult, len(statuses))
	for i, st := range statuses {
		out[i] = protocol.LetterResult{Value: string(rune('A' + i)), Status: st}
	}
	return out
}

func intPtr(v int) *int { return &v }

// pendingSession returns a session holding an inbound request for g1.
func pendingSession() Session {
	s, _ := Idle().ReceiveRequest(Player{UID: "u2", DisplayName: "bob"}, "g1")
	return s
}

func playingSession(t *testing.T, size int) Session {
	t.Helper()
	s := pendingSession().Accepted("g1", Player{UID: "u2", DisplayName: "bob"}, nil, size)
	for i := 0; i < size; i++ {
		s = s.KeyPress("k")
	}
	s, intents := s.Enter()
	require.Len(t, intents, 1)
	s = s.Start("g1")
	require.Equal(t, StatusInProgress, s.Status)
	return s
}

func typeRow(s Session, word string) Session {
	for _, r := range word {
		s = s.KeyPress(string(r))
	}
	return s
}

func TestAcceptedSeedsBoards(t *testing.T) {
	s := pendingSession().Accepted("g1", Player{UID: "u2", DisplayName: "bob"}, nil, 5)

	assert.Equal(t, StatusAccepted, s.Status)
	assert.Equal(t, "g1", s.GameID)
	assert.Nil(t, s.Request)
	require.Len(t, s.Board, 5)
	require.Len(t, s.OpponentBoard, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, NewRow(5), s.Board[i])
		assert.Equal(t, NewRow(5), s.OpponentBoard[i])
	}
}

func TestAcceptedIgnoredWithoutRequest(t *testing.T) {
	s := Idle().Accepted("g1", Player{UID: "u2"}, nil, 5)
	assert.Equal(t, Idle(), s)
}

func TestRequestOverwrite(t *testing.T) {
	tests := []struct {
		name        string
		start       Session
		wantStatus  Status
		wantGame    string
		wantRejects []string
	}{
		{name: "idle stores request", start: Idle(), wantStatus: StatusRequestPending, wantGame: "g2"},
		{name: "pending request is replaced and rejected", start: pendingSession(), wantStatus: StatusRequestPending, wantGame: "g2", wantRejects: []string{"g1"}},
		{name: "outgoing request is replaced", start: func() Session { s, _ := Idle().SendRequest("u5"); return s }(), wantStatus: StatusRequestPending, wantGame: "g2"},
		{name: "busy session rejects new request", start: pendingSession().Accepted("g1", Player{UID: "u2"}, nil, 4), wantStatus: StatusAccepted, wantGame: "", wantRejects: []string{"g2"}},
		{name: "results screen ignores request", start: pendingSession().Accepted("g1", Player{UID: "u2"}, nil, 4).Resolve(OutcomeWin, Results{}), wantStatus: StatusResolved},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, intents := test.start.ReceiveRequest(Player{UID: "u3", DisplayName: "carol"}, "g2")

			assert.Equal(t, test.wantStatus, s.Status)
			if test.wantGame != "" {
				require.NotNil(t, s.Request)
				assert.Equal(t, test.wantGame, s.Request.GameID)
			}
			var rejects []string
			for _, in := range intents {
				require.Equal(t, protocol.OpDuelReject, in.Op)
				rejects = append(rejects, in.Payload.(protocol.DuelResponsePayload).GameID)
			}
			assert.Equal(t, test.wantRejects, rejects)
		})
	}
}

func TestRequestSequenceHoldsAtMostOne(t *testing.T) {
	s := Idle()
	for _, id := range []string{"a", "b", "c", "c", "d"} {
		s, _ = s.ReceiveRequest(Player{UID: "u-" + id}, id)
		require.NotNil(t, s.Request)
		assert.Equal(t, id, s.Request.GameID, "latest request wins")
	}
}

func TestAcceptAndReject(t *testing.T) {
	s, intents := pendingSession().Accept()
	require.Len(t, intents, 1)
	assert.Equal(t, protocol.AcceptDuel("g1"), intents[0])
	assert.Equal(t, StatusRequestPending, s.Status)
	assert.True(t, s.Waiting)

	_, intents = s.Accept()
	assert.Empty(t, intents, "accept is sent once")

	s, intents = pendingSession().Reject()
	require.Len(t, intents, 1)
	assert.Equal(t, protocol.RejectDuel("g1"), intents[0])
	assert.Equal(t, StatusIdle, s.Status)
	assert.Nil(t, s.Request)
}

func TestServerRejection(t *testing.T) {
	out, intents := Idle().SendRequest("u2")
	require.Equal(t, []protocol.Intent{protocol.RequestDuel("u2")}, intents)
	assert.Equal(t, StatusRequestPending, out.Status)

	assert.Equal(t, StatusIdle, out.Rejected("g9").Status)
	assert.Equal(t, StatusRequestPending, pendingSession().Rejected("other").Status)
	assert.Equal(t, StatusIdle, pendingSession().Rejected("g1").Status)
}

func TestHintPrefillsDraft(t *testing.T) {
	s := pendingSession().Accepted("g1", Player{UID: "u2"}, &Hint{Letter: "A", Index: 1}, 4)
	require.NotNil(t, s.Hint)
	assert.Equal(t, "A", s.Draft[1].Letter)

	s = typeRow(s, "kle")
	assert.Equal(t, "KALE", s.Draft.Word())

	// Delete never removes the hint letter.
	for i := 0; i < 5; i++ {
		s = s.DeleteLetter()
	}
	assert.Equal(t, "A", s.Draft.Word())
}

func TestConfirmationFlow(t *testing.T) {
	s := pendingSession().Accepted("g1", Player{UID: "u2"}, nil, 4)

	s, intents := s.Enter()
	assert.Empty(t, intents, "incomplete draft is not sent")

	s = typeRow(s, "masa")
	s, intents = s.Enter()
	require.Equal(t, []protocol.Intent{protocol.ConfirmWord("g1", "MASA")}, intents)
	assert.Equal(t, StatusWordConfirming, s.Status)
	assert.True(t, s.Waiting)

	invalid := s.CheckWord(false, nil, nil)
	assert.Equal(t, StatusWordConfirming, invalid.Status)
	assert.True(t, invalid.Error)
	assert.Equal(t, s.Draft, invalid.Draft)

	s = s.WordAccepted("g1")
	assert.True(t, s.WordConfirmed)

	retried := s.TryAgain()
	assert.Equal(t, StatusAccepted, retried.Status)
	assert.Equal(t, s.Attempt+1, retried.Attempt)

	s = s.Start("g1")
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, Cursor{}, s.Cursor)
	assert.Len(t, s.Board, 4)
}

func TestOwnRowRevealAdvancesCursor(t *testing.T) {
	s := playingSession(t, 5)
	s = typeRow(s, "kalem")
	assert.Equal(t, Cursor{Row: 0, Col: 4}, s.Cursor)

	s, intents := s.Enter()
	require.Equal(t, []protocol.Intent{protocol.SubmitGuess("KALEM")}, intents)

	evals := letters(protocol.LetterCorrect, protocol.LetterAbsent, protocol.LetterPresent, protocol.LetterAbsent, protocol.LetterAbsent)
	s = s.CheckWord(true, nil, evals)
	assert.True(t, s.Revealing)
	assert.Equal(t, EvalCorrect, s.Board[0][0].Evaluation)
	assert.Equal(t, EvalPresent, s.Board[0][2].Evaluation)
	assert.Equal(t, 0, s.Cursor.Row, "cursor waits for the reveal")

	s = s.FinishReveal()
	assert.Equal(t, Cursor{Row: 1, Col: 0}, s.Cursor)
	assert.False(t, s.Revealing)
}

func TestInvalidCheckWordLeavesBoard(t *testing.T) {
	s := typeRow(playingSession(t, 5), "zzzzz")
	s, _ = s.Enter()

	after := s.CheckWord(false, nil, nil)
	assert.True(t, after.Error)
	assert.Equal(t, s.Cursor, after.Cursor)
	assert.Equal(t, s.Board, after.Board)
	assert.Equal(t, s.OpponentBoard, after.OpponentBoard)
}

func TestOpponentRowUpdate(t *testing.T) {
	s := playingSession(t, 4)
	evals := letters(protocol.LetterAbsent, protocol.LetterAbsent, protocol.LetterCorrect, protocol.LetterAbsent)

	s = s.CheckWord(true, intPtr(2), evals)
	assert.Equal(t, EvalCorrect, s.OpponentBoard[2][2].Evaluation)
	assert.Equal(t, NewRow(4), s.Board[2])
	assert.False(t, s.Revealing)

	same := s.CheckWord(true, intPtr(7), evals)
	assert.Equal(t, s, same, "out of range rows are ignored")
}

func TestLastRowExhausts(t *testing.T) {
	s := playingSession(t, 4)
	evals := letters(protocol.LetterAbsent, protocol.LetterAbsent, protocol.LetterAbsent, protocol.LetterAbsent)
	for i := 0; i < 4; i++ {
		s = typeRow(s, "abcd")
		s, _ = s.Enter()
		s = s.CheckWord(true, nil, evals).FinishReveal()
		assert.LessOrEqual(t, s.Cursor.Row, 3)
	}
	assert.True(t, s.Exhausted)
	assert.Equal(t, 3, s.Cursor.Row)

	after := s.KeyPress("a")
	assert.Equal(t, s, after)
}

func TestCursorNeverExceedsRoomSize(t *testing.T) {
	s := playingSession(t, 4)
	s = typeRow(s, "abcdefgh")
	assert.Equal(t, 3, s.Cursor.Col)
	assert.Equal(t, "ABCD", s.Board[0].Word())
}

func TestActiveRow(t *testing.T) {
	_, ok := Idle().ActiveRow()
	assert.False(t, ok)

	s := typeRow(playingSession(t, 4), "ab")
	row, ok := s.ActiveRow()
	require.True(t, ok)
	assert.Equal(t, "AB", row.Word())

	_, ok = s.Resolve(OutcomeWin, Results{}).ActiveRow()
	assert.False(t, ok)
}

func TestOpponentFinishedAndResolution(t *testing.T) {
	s := playingSession(t, 4)
	s = s.OpponentFinished()
	assert.Equal(t, StatusOpponentFinished, s.Status)

	results := Results{Winner: "bob", PlayerWord: "MASA", OtherPlayerWord: "KALE", PlayerScore: 10, OtherPlayerScore: 40}
	s = s.Resolve(OutcomeLose, results)
	assert.Equal(t, StatusResolved, s.Status)
	assert.Equal(t, OutcomeLose, s.Outcome)
	assert.Equal(t, &results, s.Results)

	// Resolved only leaves through ReturnToRooms.
	assert.Equal(t, s, s.OpponentFinished())
	assert.Equal(t, s, s.Start("g1"))
	assert.Equal(t, Idle(), s.ReturnToRooms())
}

func TestUnlistedTransitionsAreIgnored(t *testing.T) {
	idle := Idle()
	assert.Equal(t, idle, idle.Start("g1"))
	assert.Equal(t, idle, idle.OpponentFinished())
	assert.Equal(t, idle, idle.TryAgain())
	assert.Equal(t, idle, idle.Resolve(OutcomeWin, Results{}))
	assert.Equal(t, idle, idle.CheckWord(true, nil, nil))
	assert.Equal(t, idle, idle.FinishReveal())

	s := playingSession(t, 4)
	assert.Equal(t, s, s.TryAgain())
	assert.Equal(t, s, s.WordAccepted("g1"))
}

func TestNormalizeLetter(t *testing.T) {
	assert.Equal(t, "İ", NormalizeLetter("i"))
	assert.Equal(t, "Ş", NormalizeLetter("ş"))
	assert.Equal(t, "", NormalizeLetter("ab"))
	assert.Equal(t, "", NormalizeLetter("1"))
}
