package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck. No jokers are dealt.
const Size = 52

// Deck is the undealt portion of a standard 52-card deck. It is plain data
// with value semantics so it can live inside a serializable game snapshot;
// shuffling requires a caller-provided RNG, the deck itself holds no
// randomness.
type Deck struct {
	Cards []Card `json:"cards"`
}

// New creates a full deck in canonical (unshuffled) order
func New() Deck {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return Deck{Cards: cards}
}

// Shuffle randomizes the order of the remaining cards using Fisher-Yates
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Take removes and returns up to n cards from the top of the deck
func (d *Deck) Take(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	cards := make([]Card, n)
	copy(cards, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck
func (d Deck) Remaining() int {
	return len(d.Cards)
}

// Full reports whether no cards have been dealt yet. The game uses this to
// distinguish "between hands" from "hand in progress".
func (d Deck) Full() bool {
	return len(d.Cards) == Size
}

// Clone returns a deep copy of the deck
func (d Deck) Clone() Deck {
	cards := make([]Card, len(d.Cards))
	copy(cards, d.Cards)
	return Deck{Cards: cards}
}
