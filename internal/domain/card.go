package domain

import (
	"fmt"
	"sort"
)

// Suit identifies one of the four French suits. Spades is the fixed trump
// suit for the entire match.
type Suit int32

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Trump is the suit that outranks all others regardless of card rank.
const Trump = Spades

// String returns the one-letter suit code used on the wire.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// ParseSuit maps a one-letter suit code back to a Suit.
func ParseSuit(code string) (Suit, bool) {
	switch code {
	case "S":
		return Spades, true
	case "H":
		return Hearts, true
	case "D":
		return Diamonds, true
	case "C":
		return Clubs, true
	default:
		return 0, false
	}
}

// MarshalJSON renders the suit as its one-letter code.
func (s Suit) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts the one-letter suit code.
func (s *Suit) UnmarshalJSON(data []byte) error {
	if len(data) != 3 || data[0] != '"' || data[2] != '"' {
		return fmt.Errorf("invalid suit %s", data)
	}
	parsed, ok := ParseSuit(string(data[1]))
	if !ok {
		return fmt.Errorf("invalid suit %s", data)
	}
	*s = parsed
	return nil
}

// Rank is the card rank. Values run 2..14 so that numeric comparison matches
// the play order 2 < 3 < ... < 10 < J < Q < K < A.
type Rank int32

const (
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		if r >= 2 && r <= 10 {
			const digits = "23456789"
			if r == 10 {
				return "10"
			}
			return digits[r-2 : r-1]
		}
		return "?"
	}
}

// Card is an immutable (rank, suit) value. Exactly one card per pair exists
// in a deck.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsTrump reports whether the card belongs to the trump suit.
func (c Card) IsTrump() bool {
	return c.Suit == Trump
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns all 52 cards, one per (rank, suit) pair.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for s := Spades; s <= Clubs; s++ {
		for r := Rank(2); r <= RankAce; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Compare orders two cards played into the same trick. It returns a positive
// value if a beats b, a negative value if b beats a, and zero only for equal
// rank between two suits that are neither trump nor lead.
//
// Ordering: trump beats non-trump; within a shared suit the higher rank wins;
// the lead suit beats any other non-trump suit; otherwise rank decides (a
// fallback that cannot occur under correct follow-suit enforcement).
func Compare(a, b Card, lead Suit) int {
	aTrump, bTrump := a.IsTrump(), b.IsTrump()
	if aTrump && !bTrump {
		return 1
	}
	if !aTrump && bTrump {
		return -1
	}

	if a.Suit == b.Suit {
		return int(a.Rank) - int(b.Rank)
	}

	aLead, bLead := a.Suit == lead, b.Suit == lead
	if aLead && !bLead {
		return 1
	}
	if !aLead && bLead {
		return -1
	}

	return int(a.Rank) - int(b.Rank)
}

// SortHand orders a hand by suit then ascending rank for presentation.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank < hand[j].Rank
	})
}

// HasSuit reports whether the hand holds at least one card of the suit.
func HasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// RemoveCard removes the first occurrence of card from hand and returns the
// updated hand and whether the card was present.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...), true
		}
	}
	return hand, false
}
