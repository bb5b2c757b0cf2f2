package domain

import "fmt"

// RoundPlan is the fixed sequence of cards dealt per round. Its length is the
// number of rounds in a match; its entry is both the hand size and the
// maximum legal bid for that round (a bid of 0 is always legal).
var RoundPlan = [14]int{7, 6, 5, 4, 3, 2, 1, 1, 2, 3, 4, 5, 6, 7}

// NumRounds is the number of rounds in a full match.
const NumRounds = len(RoundPlan)

const (
	// MinSeats is the smallest playable room.
	MinSeats = 2
	// MaxSeats is the hard ceiling: the largest round deals 7 cards per
	// seat, and 8 seats would need 56 cards from a 52-card deck.
	MaxSeats = 7
)

// maxCardsPerRound is the largest RoundPlan entry.
const maxCardsPerRound = 7

// CardsPerRound returns the hand size for a round index.
func CardsPerRound(roundIndex int) int {
	return RoundPlan[roundIndex]
}

// ValidateSeatCount rejects seat counts the deck cannot serve across all
// rounds of the plan.
func ValidateSeatCount(seats int) error {
	if seats < MinSeats || seats > MaxSeats {
		return fmt.Errorf("%w: seat count %d not in [%d,%d]", ErrConfiguration, seats, MinSeats, MaxSeats)
	}
	if seats*maxCardsPerRound > DeckSize {
		return fmt.Errorf("%w: %d seats need %d cards, deck has %d", ErrConfiguration, seats, seats*maxCardsPerRound, DeckSize)
	}
	return nil
}
