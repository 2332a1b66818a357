package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin  MessageType = "join"
	MessageTypeReady MessageType = "ready"
	MessageTypeBet   MessageType = "bet"
	MessageTypeLeave MessageType = "leave"

	// Server to client messages
	MessageTypeSeated         MessageType = "seated"
	MessageTypePlayerJoined   MessageType = "playerJoined"
	MessageTypePlayerLeft     MessageType = "playerLeft"
	MessageTypePlayerReady    MessageType = "playerReady"
	MessageTypeHandStarted    MessageType = "handStarted"
	MessageTypeDealt          MessageType = "dealt"
	MessageTypeCommunityDealt MessageType = "communityDealt"
	MessageTypeBetAccepted    MessageType = "betAccepted"
	MessageTypeActionRequired MessageType = "actionRequired"
	MessageTypeShowdown       MessageType = "showdown"
	MessageTypeHandReset      MessageType = "handReset"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in error messages
const (
	ErrorCodeInvalidMessage    = "invalid_message"
	ErrorCodeUnknownType       = "unknown_message_type"
	ErrorCodeNotJoined         = "not_joined"
	ErrorCodeAlreadyJoined     = "already_joined"
	ErrorCodeNameTaken         = "name_taken"
	ErrorCodeRoomNotFound      = "room_not_found"
	ErrorCodeTableFull         = "table_full"
	ErrorCodeInvalidBet        = "invalid_bet"
	ErrorCodeNotYourTurn       = "not_your_turn"
	ErrorCodeInsufficientFunds = "insufficient_funds"
	ErrorCodeHandInProgress    = "hand_in_progress"
	ErrorCodeInternal          = "internal"
)
