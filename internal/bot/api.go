package bot

import (
	"piratwhist/internal/domain"
)

// Action is a single bot decision. Exactly one of Bid or Card is set.
type Action struct {
	Bid  *int
	Card *domain.Card
}

// Brain is the interface that all bot strategies must implement. Brains only
// see what a human in the seat would see: the hand and the current lead.
type Brain interface {
	ChooseBid(hand []domain.Card, maxBid int) int
	ChooseCard(hand []domain.Card, lead *domain.Suit) domain.Card
}
