// Package protocol defines the JSON wire types exchanged with clients.
// Identity is never read from the payload; the server attaches it from the
// connection before an action reaches the game.
package protocol

import "github.com/lox/pokerparty/internal/game"

// MessageType identifies the type of an outbound message
type MessageType string

const (
	TypeState MessageType = "state"
	TypeError MessageType = "error"
)

// Inbound action type tags, the closed vocabulary a client may submit
const (
	ActionDeal    = "deal"
	ActionBet     = "bet"
	ActionCall    = "call"
	ActionRaise   = "raise"
	ActionFold    = "fold"
	ActionAllIn   = "all-in"
	ActionAdvance = "advance"
	ActionSeeHand = "see-hand"
)

// Envelope is a client-submitted action. Only the fields relevant to the
// action type are set.
type Envelope struct {
	Type   string `json:"type"`
	Ante   int    `json:"ante,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// StateMessage carries one recipient's view of the room state. Views are
// built per recipient so private information never leaves the server.
type StateMessage struct {
	Type  MessageType `json:"type"`
	State game.View   `json:"state"`
}

// NewStateMessage wraps a view for broadcast
func NewStateMessage(v game.View) StateMessage {
	return StateMessage{Type: TypeState, State: v}
}

// ErrorMessage reports a malformed or unrecognized frame back to its sender
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

// NewErrorMessage creates an error frame
func NewErrorMessage(code, message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Code: code, Message: message}
}
