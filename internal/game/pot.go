package game

import (
	"sort"

	"github.com/lox/pokerparty/internal/evaluator"
)

// transferToPot moves amount chips from the participant at index i into
// the pot. Every stake movement in the game flows through here, so the pot
// always equals the sum of debits by construction.
func transferToPot(s *State, i, amount int) {
	p := &s.Participants[i]
	p.Balance -= amount
	p.TotalBet += amount
	s.Pot += amount
}

// Payout describes how one pot (main or side) was settled. A single winner
// takes the whole amount; ties split it, remainder distributed by seat
// order.
type Payout struct {
	Winners []string
	Amount  int
	Best    evaluator.Category
}

// Split reports whether the pot was divided between tied hands
func (p Payout) Split() bool {
	return len(p.Winners) > 1
}

// pot is one layer of the pot with the participant indexes eligible to win it
type pot struct {
	amount   int
	eligible []int
}

// buildPots layers the pot by all-in contribution caps. Contributions from
// folded participants stay in the pots they funded; chips left behind by
// disconnected participants fall into the top layer.
func buildPots(s *State, contenders []int) []pot {
	isContender := make(map[int]bool, len(contenders))
	var caps []int
	for _, i := range contenders {
		isContender[i] = true
		if s.Participants[i].AllIn {
			caps = append(caps, s.Participants[i].TotalBet)
		}
	}

	if len(caps) == 0 {
		return []pot{{amount: s.Pot, eligible: contenders}}
	}

	sort.Ints(caps)
	caps = dedupe(caps)

	var pots []pot
	assigned := 0
	prev := 0
	for _, level := range caps {
		layer := pot{}
		for i, p := range s.Participants {
			contrib := min(p.TotalBet, level) - min(p.TotalBet, prev)
			if contrib > 0 {
				layer.amount += contrib
			}
			if isContender[i] && p.TotalBet >= level {
				layer.eligible = append(layer.eligible, i)
			}
		}
		if layer.amount > 0 {
			pots = append(pots, layer)
			assigned += layer.amount
		}
		prev = level
	}

	// Top layer: everything above the largest all-in, contested only by
	// participants still able to bet
	top := pot{amount: s.Pot - assigned}
	for _, i := range contenders {
		if s.Participants[i].TotalBet > prev || !s.Participants[i].AllIn {
			top.eligible = append(top.eligible, i)
		}
	}
	if top.amount > 0 {
		if len(top.eligible) == 0 {
			// Nobody can contest the overage (e.g. a lone over-bettor went
			// all-in for more than anyone could match); fold it into the
			// last layered pot
			pots[len(pots)-1].amount += top.amount
		} else {
			pots = append(pots, top)
		}
	}

	return pots
}

// settlePots pays each pot to its strongest eligible hand(s) and drains
// the pot to zero. Scores must contain a result for every contender.
func settlePots(s *State, scores map[int]evaluator.Result, contenders []int) []Payout {
	pots := buildPots(s, contenders)
	payouts := make([]Payout, 0, len(pots))

	for _, pot := range pots {
		var winners []int
		var best evaluator.Result
		for _, i := range pot.eligible {
			r, ok := scores[i]
			if !ok {
				continue
			}
			if len(winners) == 0 || r.Beats(best) {
				winners = []int{i}
				best = r
			} else if r.Rank == best.Rank {
				winners = append(winners, i)
			}
		}
		if len(winners) == 0 {
			continue
		}

		share := pot.amount / len(winners)
		rem := pot.amount % len(winners)
		ids := make([]string, len(winners))
		for n, i := range winners {
			won := share
			if n < rem {
				won++ // remainder chips go to the earliest seats
			}
			s.Participants[i].Balance += won
			ids[n] = s.Participants[i].ID
		}

		payouts = append(payouts, Payout{Winners: ids, Amount: pot.amount, Best: best.Category})
	}

	s.Pot = 0
	return payouts
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
