package bot

import (
	"math"
	"math/rand"

	"piratwhist/internal/domain"
)

// HeuristicBot estimates its bid from trump length and high-card count, and
// plays low cards, spending trumps only when void in the led suit.
type HeuristicBot struct{}

func (b *HeuristicBot) ChooseBid(hand []domain.Card, maxBid int) int {
	trumps := 0
	high := 0
	for _, c := range hand {
		if c.IsTrump() {
			trumps++
		}
		if c.Rank >= domain.RankJack {
			high++
		}
	}
	bid := int(math.Round(0.6*float64(trumps) + 0.35*float64(high)))
	if bid < 0 {
		bid = 0
	}
	if bid > maxBid {
		bid = maxBid
	}
	return bid
}

func (b *HeuristicBot) ChooseCard(hand []domain.Card, lead *domain.Suit) domain.Card {
	if lead != nil {
		if c, ok := lowestOfSuit(hand, *lead); ok {
			return c
		}
		if c, ok := lowestOfSuit(hand, domain.Trump); ok {
			return c
		}
	}
	return lowestByRank(hand)
}

// RandomBot picks uniformly among its legal options.
type RandomBot struct {
	Rng *rand.Rand
}

func (b *RandomBot) ChooseBid(hand []domain.Card, maxBid int) int {
	return b.Rng.Intn(maxBid + 1)
}

func (b *RandomBot) ChooseCard(hand []domain.Card, lead *domain.Suit) domain.Card {
	legal := hand
	if lead != nil && domain.HasSuit(hand, *lead) {
		legal = make([]domain.Card, 0, len(hand))
		for _, c := range hand {
			if c.Suit == *lead {
				legal = append(legal, c)
			}
		}
	}
	return legal[b.Rng.Intn(len(legal))]
}

func lowestOfSuit(hand []domain.Card, suit domain.Suit) (domain.Card, bool) {
	var best domain.Card
	found := false
	for _, c := range hand {
		if c.Suit != suit {
			continue
		}
		if !found || c.Rank < best.Rank {
			best = c
			found = true
		}
	}
	return best, found
}

func lowestByRank(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best
}
