package domain

import "math/rand"

// Phase is the lifecycle stage of a Piratwhist game.
type Phase string

const (
	// PhaseLobby is the pre-game state where seats and names may change.
	PhaseLobby Phase = "lobby"
	// PhaseDealing is the transient state while a round's hands are dealt.
	PhaseDealing Phase = "dealing"
	// PhaseBidding collects one bid per seat.
	PhaseBidding Phase = "bidding"
	// PhasePlaying runs the current trick.
	PhasePlaying Phase = "playing"
	// PhaseBetweenTricks shows a resolved trick before the next one starts.
	PhaseBetweenTricks Phase = "between_tricks"
	// PhaseRoundFinished shows a scored round before the next deal.
	PhaseRoundFinished Phase = "round_finished"
	// PhaseGameFinished is terminal.
	PhaseGameFinished Phase = "game_finished"
)

// RoundResult is the immutable history row recorded when a round resolves.
type RoundResult struct {
	RoundIndex int   `json:"round"`
	CardsPer   int   `json:"cardsPer"`
	Bids       []int `json:"bids"`
	Taken      []int `json:"taken"`
	Points     []int `json:"points"`
}

// Game is the authoritative aggregate for one room's match. It is owned by a
// single mutator; all methods reject illegal actions before touching state.
type Game struct {
	Seats      int
	RoundIndex int
	Phase      Phase

	Hands    [][]Card
	Bids     []*int
	Table    []*Card
	LeadSuit *Suit

	// Leader is the seat that led (or will lead) the current trick; Turn is
	// the seat expected to act. TrickWinner holds the resolved winner while
	// the game sits in between_tricks or round_finished.
	Leader      int
	Turn        int
	TrickWinner *int

	TricksRound []int
	TricksTotal []int
	PointsTotal []int
	History     []RoundResult
}

// NewGame builds a lobby-phase game for the given seat count.
func NewGame(seats int) (*Game, error) {
	if err := ValidateSeatCount(seats); err != nil {
		return nil, err
	}
	return &Game{
		Seats:       seats,
		Phase:       PhaseLobby,
		Hands:       make([][]Card, seats),
		Bids:        make([]*int, seats),
		Table:       make([]*Card, seats),
		TricksRound: make([]int, seats),
		TricksTotal: make([]int, seats),
		PointsTotal: make([]int, seats),
	}, nil
}

// CardsPer returns the hand size of the current round.
func (g *Game) CardsPer() int {
	return CardsPerRound(g.RoundIndex)
}

// Start deals round 0 and enters bidding. Legal only from the lobby.
func (g *Game) Start(rng *rand.Rand) error {
	if g.Phase != PhaseLobby {
		return ErrInvalidPhase
	}
	g.RoundIndex = 0
	g.Leader = 0
	return g.dealRound(rng)
}

// dealRound runs the dealer for the current round index and opens bidding.
// The dealing phase is transient: hands are populated synchronously and the
// game advances to bidding in the same mutation.
func (g *Game) dealRound(rng *rand.Rand) error {
	g.Phase = PhaseDealing
	hands, err := Deal(rng, g.Seats, g.CardsPer())
	if err != nil {
		g.Phase = PhaseLobby
		return err
	}
	g.Hands = hands
	g.Turn = g.Leader
	g.LeadSuit = nil
	g.TrickWinner = nil
	g.Table = make([]*Card, g.Seats)
	g.Bids = make([]*int, g.Seats)
	g.TricksRound = make([]int, g.Seats)
	g.Phase = PhaseBidding
	return nil
}

// AdvanceTrick steps from between_tricks into the next trick. The winner of
// the previous trick leads.
func (g *Game) AdvanceTrick() error {
	if g.Phase != PhaseBetweenTricks {
		return ErrInvalidPhase
	}
	g.Leader = *g.TrickWinner
	g.Turn = g.Leader
	g.LeadSuit = nil
	g.Table = make([]*Card, g.Seats)
	g.TrickWinner = nil
	g.Phase = PhasePlaying
	return nil
}

// AdvanceRound steps from round_finished into the next round's deal, or into
// game_finished after the last round. The winner of the previous round's
// final trick carries over as leader.
func (g *Game) AdvanceRound(rng *rand.Rand) error {
	if g.Phase != PhaseRoundFinished {
		return ErrInvalidPhase
	}
	if g.RoundIndex >= NumRounds-1 {
		g.Phase = PhaseGameFinished
		return nil
	}
	g.RoundIndex++
	if g.TrickWinner != nil {
		g.Leader = *g.TrickWinner
	}
	return g.dealRound(rng)
}

// Finished reports whether the game reached its terminal phase.
func (g *Game) Finished() bool {
	return g.Phase == PhaseGameFinished
}

// CardsAccounted sums hand cards, table cards and cards collected into
// completed tricks this round. While a round is live it always equals
// cardsPerRound * seats.
func (g *Game) CardsAccounted() int {
	total := 0
	for _, h := range g.Hands {
		total += len(h)
	}
	// Once a trick resolves its cards stay on the table for display but are
	// already counted through TricksRound.
	if g.Phase == PhasePlaying {
		for _, c := range g.Table {
			if c != nil {
				total++
			}
		}
	}
	for _, tricks := range g.TricksRound {
		total += tricks * g.Seats
	}
	return total
}
