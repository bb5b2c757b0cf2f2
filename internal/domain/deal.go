package domain

import (
	"fmt"
	"math/rand"
)

// Deal shuffles a fresh deck and distributes cardsPer cards to each of n
// seats, one at a time round-robin starting from seat 0. Hands come back
// sorted by suit then rank. The deck is built fresh per call and never reused
// across rounds.
func Deal(rng *rand.Rand, n, cardsPer int) ([][]Card, error) {
	needed := n * cardsPer
	if needed > DeckSize {
		return nil, fmt.Errorf("%w: deal needs %d cards, deck has %d", ErrConfiguration, needed, DeckSize)
	}

	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	hands := make([][]Card, n)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsPer)
	}
	for i := 0; i < needed; i++ {
		seat := i % n
		hands[seat] = append(hands[seat], deck[i])
	}
	for _, h := range hands {
		SortHand(h)
	}
	return hands, nil
}
