package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v. An absent payload leaves v
// untouched.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 || string(m.Data) == "null" {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

type JoinData struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type BetData struct {
	Amount *int `json:"amount"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerState struct {
	Name      string `json:"name"`
	Stack     int    `json:"stack"`
	Ready     bool   `json:"ready"`
	InHand    bool   `json:"inHand"`
	Committed int    `json:"committed"`
}

type SeatedData struct {
	RoomID      string        `json:"roomId"`
	RoomName    string        `json:"roomName"`
	PlayerID    string        `json:"playerId"`
	BuyIn       int           `json:"buyIn"`
	Stage       string        `json:"stage"`
	HandNumber  int           `json:"handNumber"`
	Pot         int           `json:"pot"`
	Board       []string      `json:"board"`
	Players     []PlayerState `json:"players"`
	HoleCards   []string      `json:"holeCards,omitempty"`
	NextPlayer  string        `json:"nextPlayer,omitempty"`
	NextAmount  int           `json:"nextAmount,omitempty"`
	Reconnected bool          `json:"reconnected,omitempty"`
}

type PlayerJoinedData struct {
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

type PlayerLeftData struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type PlayerReadyData struct {
	Name string `json:"name"`
}

type HandStartedData struct {
	HandNumber int      `json:"handNumber"`
	Players    []string `json:"players"`
}

type DealtData struct {
	HoleCards []string `json:"holeCards"`
}

type CommunityDealtData struct {
	Stage string   `json:"stage"`
	Cards []string `json:"cards"`
	Board []string `json:"board"`
}

type BetAcceptedData struct {
	Player     string `json:"player"`
	Amount     int    `json:"amount"`
	Folded     bool   `json:"folded"`
	NextPlayer string `json:"nextPlayer,omitempty"`
	NextAmount int    `json:"nextAmount"`
	Pot        int    `json:"pot"`
}

type ActionRequiredData struct {
	Player string `json:"player"`
	Amount int    `json:"amount"`
	Stage  string `json:"stage"`
}

type StandingData struct {
	Player      string   `json:"player"`
	Place       int      `json:"place"`
	Description string   `json:"description,omitempty"`
	Cards       []string `json:"cards,omitempty"`
}

type ShowdownData struct {
	HandNumber  int            `json:"handNumber"`
	Board       []string       `json:"board"`
	Pot         int            `json:"pot"`
	Uncontested bool           `json:"uncontested"`
	Standings   []StandingData `json:"standings"`
}

type HandResetData struct {
	HandNumber int      `json:"handNumber"`
	Players    []string `json:"players"`
}
