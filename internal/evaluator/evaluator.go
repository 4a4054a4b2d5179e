// Package evaluator scores seven-card hold'em hands. Ranking is delegated
// to github.com/paulhankin/poker; the hand category is classified locally
// so the game log can name what the winner showed.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/lox/pokerparty/internal/deck"
)

// Category enumerates five-card hand classes, weakest to strongest
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Result is a comparable hand strength. Higher Rank wins.
type Result struct {
	Rank     int16
	Category Category
}

// Beats reports whether r is strictly stronger than other
func (r Result) Beats(other Result) bool {
	return r.Rank > other.Rank
}

// ErrNotScorable is returned when a hand cannot be evaluated, e.g. for a
// participant who joined after the hole cards were dealt.
var ErrNotScorable = errors.New("hand is not scorable: need two hole cards and five community cards")

// Score ranks the best five-card hand from two hole cards and five
// community cards.
func Score(hole, community []deck.Card) (Result, error) {
	if len(hole) != 2 || len(community) != 5 {
		return Result{}, ErrNotScorable
	}

	all := make([]deck.Card, 0, 7)
	all = append(all, hole...)
	all = append(all, community...)

	var cards [7]poker.Card
	for i, c := range all {
		pc, err := convertCard(c)
		if err != nil {
			return Result{}, err
		}
		cards[i] = pc
	}

	return Result{
		Rank:     poker.Eval7(&cards),
		Category: categorize(all),
	}, nil
}

// convertCard maps our deck representation onto the evaluator library's,
// which uses ranks 1-13 with aces low
func convertCard(c deck.Card) (poker.Card, error) {
	var suit poker.Suit
	switch c.Suit {
	case deck.Spades:
		suit = poker.Spade
	case deck.Hearts:
		suit = poker.Heart
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Clubs:
		suit = poker.Club
	default:
		return 0, fmt.Errorf("invalid suit %d", c.Suit)
	}

	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}

	pc, err := poker.MakeCard(suit, rank)
	if err != nil {
		return 0, fmt.Errorf("invalid card %s: %w", c, err)
	}
	return pc, nil
}

// categorize determines the class of the best five-card hand available in
// the given cards using rank and suit bitmasks
func categorize(cards []deck.Card) Category {
	var rankCounts [15]int // indexed by rank value 2-14
	var suitCounts [4]int
	var suitMasks [4]uint16
	var rankMask uint16

	for _, c := range cards {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
		suitMasks[c.Suit] |= 1 << uint(c.Rank)
		rankMask |= 1 << uint(c.Rank)
	}

	// Straight flush and royal flush
	for suit, count := range suitCounts {
		if count < 5 {
			continue
		}
		if high, ok := straightHigh(suitMasks[suit]); ok {
			if high == int(deck.Ace) {
				return RoyalFlush
			}
			return StraightFlush
		}
	}

	pairs, trips, quads := 0, 0, 0
	for _, n := range rankCounts {
		switch n {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case quads > 0:
		return FourOfAKind
	case trips > 0 && (pairs > 0 || trips > 1):
		return FullHouse
	case suitCounts[0] >= 5 || suitCounts[1] >= 5 || suitCounts[2] >= 5 || suitCounts[3] >= 5:
		return Flush
	}

	if _, ok := straightHigh(rankMask); ok {
		return Straight
	}

	switch {
	case trips > 0:
		return ThreeOfAKind
	case pairs >= 2:
		return TwoPair
	case pairs == 1:
		return OnePair
	default:
		return HighCard
	}
}

// straightHigh returns the high-card rank of the best straight present in
// the rank bitmask, accounting for the wheel (A-2-3-4-5)
func straightHigh(mask uint16) (int, bool) {
	const run = uint16(0x1F) // five consecutive ranks
	for high := int(deck.Ace); high >= int(deck.Six); high-- {
		if mask&(run<<uint(high-4)) == run<<uint(high-4) {
			return high, true
		}
	}
	// Wheel: the ace plays low
	wheel := uint16(1<<uint(deck.Ace)) | 0x3C // A + 2345
	if mask&wheel == wheel {
		return int(deck.Five), true
	}
	return 0, false
}
