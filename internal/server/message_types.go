package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeBet    MessageType = "bet"
	MessageTypeDeal   MessageType = "deal"
	MessageTypeAction MessageType = "action"
	MessageTypeNext   MessageType = "next"

	// Server to client messages
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeState   MessageType = "state"
	MessageTypeError   MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData.Code
const (
	ErrorCodeInvalidMessage    = "invalid_message"
	ErrorCodeUnknownType       = "unknown_type"
	ErrorCodeWrongPhase        = "wrong_phase"
	ErrorCodeInvalidBet        = "invalid_bet"
	ErrorCodeInsufficientFunds = "insufficient_funds"
	ErrorCodeIllegalSplit      = "illegal_split"
	ErrorCodeHandIndex         = "hand_index"
	ErrorCodeNotActiveHand     = "not_active_hand"
	ErrorCodeUnknownAction     = "unknown_action"
	ErrorCodeShoeEmpty         = "shoe_empty"
	ErrorCodeInternal          = "internal"
)
