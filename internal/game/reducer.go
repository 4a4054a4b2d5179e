// Package game implements the state machine for a shared-table hold'em
// room. The reducer is the sole authority for mutating game state: it
// consumes one action and the current snapshot and produces the next
// snapshot. Precondition failures never error; they surface as entries in
// the game log, which doubles as the user-facing error channel.
package game

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerparty/internal/deck"
	"github.com/lox/pokerparty/internal/evaluator"
)

// Reducer applies actions to game state. It never mutates its input: every
// transition works on a deep copy and returns it. Given identical clock
// and RNG state it is fully deterministic, which is why both are injected
// rather than reached for globally.
type Reducer struct {
	clock   quartz.Clock
	rng     *rand.Rand
	logSize int
	logger  *log.Logger
}

// NewReducer creates a reducer with the given clock, RNG and log capacity
func NewReducer(clock quartz.Clock, rng *rand.Rand, logSize int, logger *log.Logger) *Reducer {
	if logSize <= 0 {
		logSize = DefaultLogSize
	}
	return &Reducer{
		clock:   clock,
		rng:     rng,
		logSize: logSize,
		logger:  logger.WithPrefix("game"),
	}
}

// NewState creates a fresh room state stamped with the reducer's clock
func (r *Reducer) NewState() State {
	return NewState(r.clock.Now(), r.logSize)
}

// Apply computes the next state for the given action. Unrecognized actions
// and actions from participants not present in the snapshot pass through
// unchanged.
func (r *Reducer) Apply(action Action, state State) State {
	next := state.Clone()

	switch a := action.(type) {
	case UserEntered:
		r.applyUserEntered(&next, a)
	case UserExit:
		r.applyUserExit(&next, a)
	case Deal:
		r.applyDeal(&next, a)
	case Bet:
		r.applyBet(&next, a)
	case Call:
		r.applyCall(&next, a)
	case Raise:
		r.applyRaise(&next, a)
	case Fold:
		r.applyFold(&next, a)
	case AllIn:
		r.applyAllIn(&next, a)
	case Advance:
		r.applyAdvance(&next, a)
	case SeeHand:
		r.applySeeHand(&next, a)
	}

	return next
}

func (r *Reducer) applyUserEntered(s *State, a UserEntered) {
	s.Participants = append(s.Participants, a.User.clone())
	r.logf(s, "user %s joined 🎉", a.User.ID)
	r.logger.Debug("participant joined", "user", a.User.ID, "balance", a.User.Balance)
}

func (r *Reducer) applyUserExit(s *State, a UserExit) {
	kept := s.Participants[:0]
	for _, p := range s.Participants {
		if p.ID != a.UserID {
			kept = append(kept, p)
		}
	}
	s.Participants = kept
	// Removal of an absent id is a no-op, but it gets a log line anyway
	r.logf(s, "user %s left 😢", a.UserID)
	r.logger.Debug("participant left", "user", a.UserID)
}

func (r *Reducer) applyDeal(s *State, a Deal) {
	if s.participant(a.UserID) < 0 {
		return
	}
	if a.Ante <= 0 {
		r.logf(s, "user %s tried to deal with an ante of %d, but the ante must be greater than 0!", a.UserID, a.Ante)
		return
	}
	if s.HandInProgress() {
		r.logf(s, "user %s tried to deal again, but the hand has already begun!", a.UserID)
		return
	}
	for _, p := range s.Participants {
		if p.Balance < a.Ante {
			r.logf(s, "user %s tried to deal, but %s cannot cover the ante of %d!", a.UserID, p.ID, a.Ante)
			return
		}
	}

	s.Deck.Shuffle(r.rng)
	for i := range s.Participants {
		transferToPot(s, i, a.Ante)
		s.Participants[i].Hole = s.Deck.Take(2)
	}
	s.Round = RoundPreflop
	s.CurrentBet = 0
	r.logf(s, "user %s dealt the cards", a.UserID)
	r.logger.Debug("hand dealt", "dealer", a.UserID, "ante", a.Ante, "pot", s.Pot, "remaining", s.Deck.Remaining())
}

func (r *Reducer) applyBet(s *State, a Bet) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	if !s.BettingOpen() {
		r.logf(s, "user %s tried to bet, but no hand is in progress!", a.UserID)
		return
	}
	p := &s.Participants[i]
	if p.Folded {
		r.logf(s, "user %s tried to bet, but they have already folded!", a.UserID)
		return
	}
	if a.Amount <= 0 {
		r.logf(s, "user %s tried to bet %d, but the bet must be greater than 0!", a.UserID, a.Amount)
		return
	}
	if a.Amount > p.Balance {
		r.logf(s, "user %s tried to bet %d, but they only have %d!", a.UserID, a.Amount, p.Balance)
		return
	}

	transferToPot(s, i, a.Amount)
	p.StreetBet += a.Amount
	if p.StreetBet > s.CurrentBet {
		s.CurrentBet = p.StreetBet
	}
	r.logf(s, "user %s bet %d", a.UserID, a.Amount)
}

func (r *Reducer) applyCall(s *State, a Call) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	if !s.BettingOpen() {
		r.logf(s, "user %s tried to call, but no hand is in progress!", a.UserID)
		return
	}
	p := &s.Participants[i]
	if p.Folded {
		r.logf(s, "user %s tried to call, but they have already folded!", a.UserID)
		return
	}
	toCall := s.CurrentBet - p.StreetBet
	if toCall <= 0 {
		r.logf(s, "user %s has nothing to call", a.UserID)
		return
	}

	if toCall >= p.Balance {
		// Calling for less than the full amount puts the caller all-in
		amount := p.Balance
		transferToPot(s, i, amount)
		p.StreetBet += amount
		p.AllIn = true
		r.logf(s, "user %s called all-in for %d", a.UserID, amount)
		return
	}

	transferToPot(s, i, toCall)
	p.StreetBet += toCall
	r.logf(s, "user %s called %d", a.UserID, toCall)
}

func (r *Reducer) applyRaise(s *State, a Raise) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	if !s.BettingOpen() {
		r.logf(s, "user %s tried to raise, but no hand is in progress!", a.UserID)
		return
	}
	if a.Amount <= 0 {
		r.logf(s, "user %s tried to raise by %d, but the raise must be greater than 0!", a.UserID, a.Amount)
		return
	}
	p := &s.Participants[i]
	if p.Folded {
		r.logf(s, "user %s tried to raise, but they have already folded!", a.UserID)
		return
	}
	total := (s.CurrentBet - p.StreetBet) + a.Amount
	if total > p.Balance {
		r.logf(s, "user %s tried to raise by %d, but they only have %d!", a.UserID, a.Amount, p.Balance)
		return
	}

	transferToPot(s, i, total)
	p.StreetBet += total
	s.CurrentBet = p.StreetBet
	if p.Balance == 0 {
		p.AllIn = true
	}
	r.logf(s, "user %s raised to %d", a.UserID, p.StreetBet)
}

func (r *Reducer) applyFold(s *State, a Fold) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	if !s.BettingOpen() {
		r.logf(s, "user %s tried to fold, but no hand is in progress!", a.UserID)
		return
	}
	p := &s.Participants[i]
	if p.Folded {
		r.logf(s, "user %s has already folded!", a.UserID)
		return
	}
	p.Folded = true
	r.logf(s, "user %s folded", a.UserID)

	// Last player standing takes the pot without a showdown
	remaining := contenders(s)
	if len(remaining) == 1 && s.Pot > 0 {
		w := &s.Participants[remaining[0]]
		w.Balance += s.Pot
		r.logf(s, "user %s wins the pot of %d, everyone else folded", w.ID, s.Pot)
		s.Pot = 0
		s.Round = RoundShowdown
	}
}

func (r *Reducer) applyAllIn(s *State, a AllIn) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	if !s.BettingOpen() {
		r.logf(s, "user %s tried to go all-in, but no hand is in progress!", a.UserID)
		return
	}
	p := &s.Participants[i]
	if p.Folded {
		r.logf(s, "user %s tried to go all-in, but they have already folded!", a.UserID)
		return
	}
	if p.Balance <= 0 {
		r.logf(s, "user %s tried to go all-in, but they have no chips left!", a.UserID)
		return
	}

	amount := p.Balance
	transferToPot(s, i, amount)
	p.StreetBet += amount
	p.AllIn = true
	if p.StreetBet > s.CurrentBet {
		s.CurrentBet = p.StreetBet
	}
	r.logf(s, "user %s is all-in for %d", a.UserID, amount)
}

func (r *Reducer) applyAdvance(s *State, a Advance) {
	if s.participant(a.UserID) < 0 {
		return
	}
	if !s.HandInProgress() {
		r.logf(s, "user %s tried to advance the game, but the game has not been started!", a.UserID)
		return
	}

	switch s.Round {
	case RoundPreflop:
		r.reveal(s, 3, "flop")
	case RoundFlop:
		r.reveal(s, 1, "turn")
	case RoundTurn:
		r.reveal(s, 1, "river")
	case RoundRiver:
		r.showdown(s)
	default:
		r.reset(s)
	}
}

func (r *Reducer) applySeeHand(s *State, a SeeHand) {
	i := s.participant(a.UserID)
	if i < 0 {
		return
	}
	p := s.Participants[i]
	r.logPrivate(s, p.ID, "user %s holds %s", p.ID, deck.Format(p.Hole))
}

// reveal draws community cards for the next street and resets street bets
func (r *Reducer) reveal(s *State, n int, street string) {
	cards := s.Deck.Take(n)
	s.Community = append(s.Community, cards...)
	s.Round++
	for i := range s.Participants {
		s.Participants[i].StreetBet = 0
	}
	s.CurrentBet = 0
	r.logf(s, "the %s brings %s", street, deck.Format(cards))
	r.logger.Debug("street revealed", "street", street, "community", deck.Format(s.Community))
}

// showdown scores every hand still in contention and pays out the pot
func (r *Reducer) showdown(s *State) {
	live := contenders(s)
	scores := make(map[int]evaluator.Result, len(live))
	scorable := make([]int, 0, len(live))
	for _, i := range live {
		res, err := evaluator.Score(s.Participants[i].Hole, s.Community)
		if err != nil {
			// Joined mid-hand, never dealt in; cannot contest the pot
			continue
		}
		scores[i] = res
		scorable = append(scorable, i)
	}

	s.Round = RoundShowdown
	if len(scorable) == 0 {
		r.logf(s, "no hands to score at showdown")
		return
	}

	payouts := settlePots(s, scores, scorable)
	for _, po := range payouts {
		if po.Split() {
			r.logf(s, "users %s split the pot of %d with the hand of %s",
				strings.Join(po.Winners, " and "), po.Amount, po.Best)
		} else {
			r.logf(s, "The winner is %s with the hand of %s", po.Winners[0], po.Best)
		}
	}
	r.logger.Debug("showdown settled", "pots", len(payouts))
}

// reset returns the table to the lobby state, keeping participants and
// balances but clearing everything belonging to the finished hand
func (r *Reducer) reset(s *State) {
	s.Deck = deck.New()
	s.Deck.Shuffle(r.rng)
	s.Round = RoundLobby
	s.Community = nil
	s.Pot = 0
	s.CurrentBet = 0
	for i := range s.Participants {
		p := &s.Participants[i]
		p.Hole = nil
		p.StreetBet = 0
		p.TotalBet = 0
		p.Folded = false
		p.AllIn = false
	}
	r.logger.Debug("table reset for the next hand")
}

// contenders returns the indexes of participants still in contention: not
// folded and holding cards from the deal
func contenders(s *State) []int {
	var out []int
	for i, p := range s.Participants {
		if !p.Folded && len(p.Hole) > 0 {
			out = append(out, i)
		}
	}
	return out
}

func (r *Reducer) logf(s *State, format string, args ...any) {
	s.Log = AppendLog(s.Log, r.logSize, Entry{
		At:      r.clock.Now(),
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *Reducer) logPrivate(s *State, owner, format string, args ...any) {
	s.Log = AppendLog(s.Log, r.logSize, Entry{
		At:      r.clock.Now(),
		Message: fmt.Sprintf(format, args...),
		Private: true,
		Owner:   owner,
	})
}
