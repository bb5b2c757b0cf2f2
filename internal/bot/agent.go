package bot

import (
	"piratwhist/internal/domain"
)

// Agent represents an autonomous bot seated at a table.
type Agent struct {
	Name     string
	Strategy Brain
}

// Act returns the agent's next decision for the given seat, or false when
// the game is not waiting on that seat.
func (a *Agent) Act(game *domain.Game, seat int) (Action, bool) {
	if seat < 0 || seat >= game.Seats {
		return Action{}, false
	}

	switch game.Phase {
	case domain.PhaseBidding:
		if game.Bids[seat] != nil {
			return Action{}, false
		}
		bid := a.Strategy.ChooseBid(game.Hands[seat], game.CardsPer())
		return Action{Bid: &bid}, true

	case domain.PhasePlaying:
		if game.Turn != seat || len(game.Hands[seat]) == 0 {
			return Action{}, false
		}
		var lead *domain.Suit
		if game.LeadSuit != nil {
			l := *game.LeadSuit
			lead = &l
		}
		card := a.Strategy.ChooseCard(game.Hands[seat], lead)
		return Action{Card: &card}, true
	}
	return Action{}, false
}
