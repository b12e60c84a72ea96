package protocol

// Presence codes as sent by the server in user objects.
type PresenceCode int

const (
	PresenceWaitingToken     PresenceCode = 0
	PresenceOnline           PresenceCode = 1
	PresencePlaying          PresenceCode = 2
	PresenceWaitingReconnect PresenceCode = 3
)

// LetterStatus is the per-letter evaluation string used on the wire.
type LetterStatus string

const (
	LetterCorrect LetterStatus = "correct"
	LetterPresent LetterStatus = "present"
	LetterAbsent  LetterStatus = "absent"
)

// User is a room member as described by the server. Status updates only
// carry UID and Status.
type User struct {
	UID      string       `json:"uid"`
	Username string       `json:"username,omitempty"`
	Status   PresenceCode `json:"status"`
}

// HelloPayload is the data of the {op: 10} handshake prompt.
type HelloPayload struct {
	WID string `json:"wid"`
}

// JoinRoomPayload is the room snapshot sent after joining.
type JoinRoomPayload struct {
	Users []User `json:"users"`
}

// UserRoomPayload is sent when a single user joins or leaves the room.
type UserRoomPayload struct {
	User User `json:"user"`
}

// GameRequestPayload is an inbound duel request.
type GameRequestPayload struct {
	From   User   `json:"from"`
	GameID string `json:"game_id"`
}

// GameAcceptedPayload starts a duel. Letter and Index are only present in the
// hint channel.
type GameAcceptedPayload struct {
	GameID   string  `json:"game_id"`
	Opponent User    `json:"opponent"`
	Letter   *string `json:"letter,omitempty"`
	Index    *int    `json:"index,omitempty"`
}

// GameRefPayload carries only a game id.
type GameRefPayload struct {
	GameID string `json:"game_id"`
}

// StatusUpdatePayload is a partial presence update.
type StatusUpdatePayload struct {
	Users []User `json:"users"`
}

// LetterResult is a single evaluated letter.
type LetterResult struct {
	Value  string       `json:"value"`
	Status LetterStatus `json:"status"`
}

// CheckWordPayload is the server verdict for a guess. A nil Row means the
// verdict is for the local player's active row; otherwise it relays the
// opponent's row at that index.
type CheckWordPayload struct {
	Valid   bool           `json:"valid"`
	Row     *int           `json:"row"`
	Letters []LetterResult `json:"letters"`
}

// RandomWordPayload is an evaluation for a word the server played on the
// local player's behalf.
type RandomWordPayload struct {
	Letters []LetterResult `json:"letters"`
}

// ResultsPayload is the final result of a duel.
type ResultsPayload struct {
	Winner           string `json:"winner"`
	PlayerWord       string `json:"player_word"`
	OtherPlayerWord  string `json:"other_player_word"`
	PlayerScore      int    `json:"player_score"`
	OtherPlayerScore int    `json:"other_player_score"`
}

// EmptyPayload is used for events and intents without data.
type EmptyPayload struct{}

// Outbound payloads

type IdentifyPayload struct {
	Token string `json:"token"`
}

type JoinRoomRequest struct {
	Channel string `json:"channel"`
	Room    int    `json:"room"`
}

type DuelRequestPayload struct {
	UID string `json:"uid"`
}

type DuelResponsePayload struct {
	GameID string `json:"game_id"`
}

type ConfirmWordPayload struct {
	GameID string `json:"game_id"`
	Word   string `json:"word"`
}

type SubmitGuessPayload struct {
	Word string `json:"word"`
}
