package router

import (
	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// DefaultHandlers returns the event table of the arena protocol.
func DefaultHandlers() map[protocol.EventType]Handler {
	return map[protocol.EventType]Handler{
		protocol.EventJoinRoom:            handleJoinRoom,
		protocol.EventUserJoinRoom:        handleUserJoinRoom,
		protocol.EventUserLeaveRoom:       handleUserLeaveRoom,
		protocol.EventStatusUpdate:        handleStatusUpdate,
		protocol.EventGameRequest:         handleGameRequest,
		protocol.EventGameAccepted:        handleGameAccepted,
		protocol.EventGameRejected:        handleGameRejected,
		protocol.EventConfirmedWord:       handleConfirmedWord,
		protocol.EventStartGame:           handleStartGame,
		protocol.EventCheckWord:           handleCheckWord,
		protocol.EventTryAgain:            handleTryAgain,
		protocol.EventRandomWord:          handleRandomWord,
		protocol.EventOtherPlayerFinished: handleOtherPlayerFinished,
		protocol.EventLoseGame:            handleResult(game.OutcomeLose),
		protocol.EventWonGame:             handleResult(game.OutcomeWin),
	}
}

func handleJoinRoom(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.JoinRoomPayload)
	if !ok {
		return state, nil
	}
	users := make([]protocol.User, 0, len(p.Users))
	for _, u := range p.Users {
		if u.UID != state.Self {
			users = append(users, u)
		}
	}
	state.Directory = state.Directory.ReplaceUsers(users)
	return state, nil
}

func handleUserJoinRoom(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.UserRoomPayload)
	if !ok || p.User.UID == "" || p.User.UID == state.Self {
		return state, nil
	}
	state.Directory = state.Directory.AddUser(p.User)
	return state, nil
}

func handleUserLeaveRoom(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.UserRoomPayload)
	if !ok {
		return state, nil
	}
	state.Directory = state.Directory.RemoveUser(p.User.UID)
	return state, nil
}

func handleStatusUpdate(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.StatusUpdatePayload)
	if !ok {
		return state, nil
	}
	state.Directory = state.Directory.ApplyStatus(p.Users)
	return state, nil
}

func handleGameRequest(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.GameRequestPayload)
	if !ok {
		return state, nil
	}
	var intents []protocol.Intent
	state.Game, intents = state.Game.ReceiveRequest(playerFrom(p.From), p.GameID)
	return state, intents
}

func handleGameAccepted(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.GameAcceptedPayload)
	if !ok {
		return state, nil
	}
	var hint *game.Hint
	if p.Letter != nil && p.Index != nil {
		hint = &game.Hint{Letter: *p.Letter, Index: *p.Index}
	}
	state.Game = state.Game.Accepted(p.GameID, playerFrom(p.Opponent), hint, state.Directory.RoomSize)
	return state, nil
}

func handleGameRejected(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.GameRefPayload)
	if !ok {
		return state, nil
	}
	state.Game = state.Game.Rejected(p.GameID)
	return state, nil
}

func handleConfirmedWord(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.GameRefPayload)
	if !ok {
		return state, nil
	}
	state.Game = state.Game.WordAccepted(p.GameID)
	return state, nil
}

func handleStartGame(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.GameRefPayload)
	if !ok {
		return state, nil
	}
	state.Game = state.Game.Start(p.GameID)
	return state, nil
}

func handleCheckWord(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.CheckWordPayload)
	if !ok {
		return state, nil
	}
	state.Game = state.Game.CheckWord(p.Valid, p.Row, p.Letters)
	return state, nil
}

func handleTryAgain(state State, _ interface{}) (State, []protocol.Intent) {
	state.Game = state.Game.TryAgain()
	return state, nil
}

func handleRandomWord(state State, payload interface{}) (State, []protocol.Intent) {
	p, ok := payload.(*protocol.RandomWordPayload)
	if !ok {
		return state, nil
	}
	state.Game = state.Game.RandomWord(p.Letters)
	return state, nil
}

func handleOtherPlayerFinished(state State, _ interface{}) (State, []protocol.Intent) {
	state.Game = state.Game.OpponentFinished()
	return state, nil
}

func handleResult(outcome game.Outcome) Handler {
	return func(state State, payload interface{}) (State, []protocol.Intent) {
		p, ok := payload.(*protocol.ResultsPayload)
		if !ok {
			return state, nil
		}
		state.Game = state.Game.Resolve(outcome, game.Results{
			Winner:           p.Winner,
			PlayerWord:       p.PlayerWord,
			OtherPlayerWord:  p.OtherPlayerWord,
			PlayerScore:      p.PlayerScore,
			OtherPlayerScore: p.OtherPlayerScore,
		})
		return state, nil
	}
}

func playerFrom(u protocol.User) game.Player {
	return game.Player{UID: u.UID, DisplayName: u.Username}
}
