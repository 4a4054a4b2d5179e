package game

import (
	"time"

	"github.com/lox/pokerparty/internal/deck"
)

// Round markers for a single hand. The deck doubles as a secondary
// condition: round 0 with a full deck means no hand has been dealt yet.
const (
	RoundLobby    = 0
	RoundPreflop  = 1
	RoundFlop     = 2
	RoundTurn     = 3
	RoundRiver    = 4
	RoundShowdown = 5
)

// Participant is one seated connection. Hole holds private cards only;
// community cards live on the state and are combined at evaluation time so
// that no card is ever counted twice.
type Participant struct {
	ID        string      `json:"id"`
	Balance   int         `json:"balance"`
	Hole      []deck.Card `json:"hole,omitempty"`
	StreetBet int         `json:"streetBet,omitempty"`
	TotalBet  int         `json:"totalBet,omitempty"`
	Folded    bool        `json:"folded,omitempty"`
	AllIn     bool        `json:"allIn,omitempty"`
}

// clone returns a deep copy of the participant
func (p Participant) clone() Participant {
	out := p
	if p.Hole != nil {
		out.Hole = make([]deck.Card, len(p.Hole))
		copy(out.Hole, p.Hole)
	}
	return out
}

// State is the full shared snapshot for one room. It is plain data: the
// reducer clones it on every transition and nothing else mutates it.
type State struct {
	Participants []Participant `json:"participants"`
	Deck         deck.Deck     `json:"deck"`
	Round        int           `json:"round"`
	Community    []deck.Card   `json:"community"`
	Pot          int           `json:"pot"`
	CurrentBet   int           `json:"currentBet"`
	Log          []Entry       `json:"log"`
}

// NewState creates the state for a fresh room: no participants, a full
// unshuffled deck, and a creation entry in the log.
func NewState(now time.Time, logSize int) State {
	return State{
		Deck: deck.New(),
		Log:  AppendLog(nil, logSize, Entry{At: now, Message: "Game created"}),
	}
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := s
	out.Deck = s.Deck.Clone()

	if s.Participants != nil {
		out.Participants = make([]Participant, len(s.Participants))
		for i, p := range s.Participants {
			out.Participants[i] = p.clone()
		}
	}
	if s.Community != nil {
		out.Community = make([]deck.Card, len(s.Community))
		copy(out.Community, s.Community)
	}
	if s.Log != nil {
		out.Log = make([]Entry, len(s.Log))
		copy(out.Log, s.Log)
	}
	return out
}

// HandInProgress reports whether cards have been dealt and not yet reset
func (s State) HandInProgress() bool {
	return !s.Deck.Full()
}

// BettingOpen reports whether the pot can still be staked: a hand has been
// dealt and has not yet resolved. Once the showdown settles the pot there
// is nothing left to win, so stakes placed after it would simply vanish at
// the next reset.
func (s State) BettingOpen() bool {
	return s.HandInProgress() && s.Round < RoundShowdown
}

// participant returns the index of the participant with the given id, or -1
func (s State) participant(id string) int {
	for i, p := range s.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ParticipantView is a participant as seen by one recipient. Other
// participants' hole cards are reduced to a count so clients can render
// card backs without learning the cards.
type ParticipantView struct {
	ID        string      `json:"id"`
	Balance   int         `json:"balance"`
	Hole      []deck.Card `json:"hole,omitempty"`
	HoleCount int         `json:"holeCount"`
	StreetBet int         `json:"streetBet,omitempty"`
	TotalBet  int         `json:"totalBet,omitempty"`
	Folded    bool        `json:"folded,omitempty"`
	AllIn     bool        `json:"allIn,omitempty"`
}

// View is the serialized form of the state delivered to one recipient.
// The deck collapses to a remaining-count and private log entries owned by
// other participants are withheld.
type View struct {
	Participants  []ParticipantView `json:"participants"`
	Round         int               `json:"round"`
	Community     []deck.Card       `json:"community"`
	Pot           int               `json:"pot"`
	CurrentBet    int               `json:"currentBet"`
	DeckRemaining int               `json:"deckRemaining"`
	Log           []Entry           `json:"log"`
}

// ViewFor builds the view of the state for the given recipient
func (s State) ViewFor(recipient string) View {
	v := View{
		Participants:  make([]ParticipantView, len(s.Participants)),
		Round:         s.Round,
		Community:     s.Community,
		Pot:           s.Pot,
		CurrentBet:    s.CurrentBet,
		DeckRemaining: s.Deck.Remaining(),
	}

	for i, p := range s.Participants {
		pv := ParticipantView{
			ID:        p.ID,
			Balance:   p.Balance,
			HoleCount: len(p.Hole),
			StreetBet: p.StreetBet,
			TotalBet:  p.TotalBet,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
		}
		if p.ID == recipient {
			pv.Hole = p.Hole
		}
		v.Participants[i] = pv
	}

	for _, e := range s.Log {
		if e.Private && e.Owner != recipient {
			continue
		}
		v.Log = append(v.Log, e)
	}

	return v
}
