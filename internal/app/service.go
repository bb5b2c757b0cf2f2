package app

import (
	"math/rand"
	"time"

	"piratwhist/internal/domain"
)

// Service contains the table use-cases. It holds no per-table state; the
// caller owns the Table and invokes these methods from a single goroutine.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Start deals the first round for the seated players.
func (s *Service) Start(tbl *Table) ([]Event, error) {
	if tbl.Started() {
		return nil, ErrGameInProgress
	}
	if len(tbl.Seats) < domain.MinSeats {
		return nil, ErrTooFewPlayers
	}

	game, err := domain.NewGame(len(tbl.Seats))
	if err != nil {
		return nil, err
	}
	if err := game.Start(s.rng); err != nil {
		return nil, err
	}
	tbl.Game = game

	events := []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Seats: len(tbl.Seats)},
	}}
	return append(events, s.dealEvents(tbl)...), nil
}

// SubmitBid records a bid for the seat. Domain errors pass through so the
// caller can report the exact rejection.
func (s *Service) SubmitBid(tbl *Table, seat, bid int) ([]Event, error) {
	if !tbl.Started() {
		return nil, ErrGameNotStarted
	}
	game := tbl.Game
	if err := game.SubmitBid(seat, bid); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventBidSubmitted,
		Payload: BidSubmittedPayload{Seat: seat, Bid: bid},
	}}
	if game.Phase == domain.PhasePlaying {
		bids := make([]int, len(game.Bids))
		for i, b := range game.Bids {
			bids[i] = *b
		}
		events = append(events, Event{
			Kind:    EventBiddingFinished,
			Payload: BiddingFinishedPayload{Bids: bids, Turn: game.Turn},
		})
	}
	return events, nil
}

// PlayCard plays a card for the seat and emits the trick or round
// resolution events that follow from it.
func (s *Service) PlayCard(tbl *Table, seat int, card domain.Card) ([]Event, error) {
	if !tbl.Started() {
		return nil, ErrGameNotStarted
	}
	game := tbl.Game
	if err := game.PlayCard(seat, card); err != nil {
		return nil, err
	}

	played := CardPlayedPayload{Seat: seat, Card: card, NextTurn: game.Turn}
	if game.LeadSuit != nil {
		played.LeadSuit = game.LeadSuit.String()
	}
	events := []Event{{Kind: EventCardPlayed, Payload: played}}

	switch game.Phase {
	case domain.PhaseBetweenTricks:
		events = append(events, Event{
			Kind: EventTrickFinished,
			Payload: TrickFinishedPayload{
				Winner: *game.TrickWinner,
				Tricks: append([]int(nil), game.TricksRound...),
			},
		})
	case domain.PhaseRoundFinished:
		events = append(events,
			Event{
				Kind: EventTrickFinished,
				Payload: TrickFinishedPayload{
					Winner: *game.TrickWinner,
					Tricks: append([]int(nil), game.TricksRound...),
				},
			},
			Event{
				Kind: EventRoundFinished,
				Payload: RoundFinishedPayload{
					Result: game.History[len(game.History)-1],
					Totals: append([]int(nil), game.PointsTotal...),
				},
			},
		)
	}
	return events, nil
}

// Advance moves the game past a pause point: it starts the next trick after
// a trick finishes, or deals the next round (or ends the game) after a round
// finishes.
func (s *Service) Advance(tbl *Table) ([]Event, error) {
	if !tbl.Started() {
		return nil, ErrGameNotStarted
	}
	game := tbl.Game

	switch game.Phase {
	case domain.PhaseBetweenTricks:
		if err := game.AdvanceTrick(); err != nil {
			return nil, err
		}
		return []Event{{
			Kind:    EventTrickStarted,
			Payload: TrickStartedPayload{Leader: game.Leader},
		}}, nil

	case domain.PhaseRoundFinished:
		if err := game.AdvanceRound(s.rng); err != nil {
			return nil, err
		}
		if game.Finished() {
			totals := append([]int(nil), game.PointsTotal...)
			return []Event{{
				Kind:    EventGameFinished,
				Payload: GameFinishedPayload{Totals: totals, Winners: winners(totals)},
			}}, nil
		}
		return s.dealEvents(tbl), nil

	default:
		return nil, domain.ErrInvalidPhase
	}
}

// dealEvents emits the round announcement plus one targeted hand per human
// seat. Bot hands stay server-side.
func (s *Service) dealEvents(tbl *Table) []Event {
	game := tbl.Game
	events := make([]Event, 0, len(tbl.Seats)+1)
	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Round:    game.RoundIndex,
			CardsPer: game.CardsPer(),
			Leader:   game.Leader,
		},
	})
	for i, seat := range tbl.Seats {
		if seat.Bot {
			continue
		}
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: i, Hand: game.Hands[i]},
			Recipients: []string{seat.UserID},
		})
	}
	return events
}

func winners(totals []int) []int {
	best := totals[0]
	for _, v := range totals[1:] {
		if v > best {
			best = v
		}
	}
	var out []int
	for i, v := range totals {
		if v == best {
			out = append(out, i)
		}
	}
	return out
}
