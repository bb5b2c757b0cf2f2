package domain

import (
	"errors"
	"math/rand"
	"testing"
)

// playingGame builds a game mid-round with fixed hands, all bids in, and the
// given leader on turn.
func playingGame(t *testing.T, roundIndex, leader int, hands [][]Card) *Game {
	t.Helper()
	g, err := NewGame(len(hands))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	g.RoundIndex = roundIndex
	g.Phase = PhasePlaying
	g.Leader = leader
	g.Turn = leader
	for i := range hands {
		g.Hands[i] = append([]Card(nil), hands[i]...)
		bid := 0
		g.Bids[i] = &bid
	}
	return g
}

func TestPlayCardFollowSuit(t *testing.T) {
	g := playingGame(t, 12 /* 6 cards */, 0, [][]Card{
		{{Suit: Hearts, Rank: 5}},
		{{Suit: Hearts, Rank: 9}, {Suit: Clubs, Rank: RankAce}},
		{{Suit: Diamonds, Rank: 2}},
	})

	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: 5}); err != nil {
		t.Fatalf("lead play: %v", err)
	}
	if g.LeadSuit == nil || *g.LeadSuit != Hearts {
		t.Fatalf("lead suit not set to hearts")
	}

	// Seat 1 holds a heart, so the club is illegal.
	if err := g.PlayCard(1, Card{Suit: Clubs, Rank: RankAce}); !errors.Is(err, ErrMustFollowSuit) {
		t.Fatalf("off-suit play error = %v, want ErrMustFollowSuit", err)
	}
	if len(g.Hands[1]) != 2 {
		t.Fatalf("rejected play mutated hand")
	}
	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: 9}); err != nil {
		t.Fatalf("follow-suit play: %v", err)
	}

	// Seat 2 is void in hearts; any card is legal.
	if err := g.PlayCard(2, Card{Suit: Diamonds, Rank: 2}); err != nil {
		t.Fatalf("void-suit play: %v", err)
	}
}

func TestPlayCardRejections(t *testing.T) {
	hands := [][]Card{
		{{Suit: Hearts, Rank: 5}},
		{{Suit: Hearts, Rank: 9}},
	}
	g := playingGame(t, 13, 0, hands)

	before := struct {
		turn  int
		hand0 int
	}{g.Turn, len(g.Hands[0])}

	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: 9}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn error = %v, want ErrNotYourTurn", err)
	}
	if err := g.PlayCard(0, Card{Suit: Spades, Rank: RankAce}); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("unheld card error = %v, want ErrCardNotInHand", err)
	}

	g.Phase = PhaseBidding
	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: 5}); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("wrong-phase error = %v, want ErrInvalidPhase", err)
	}

	if g.Turn != before.turn || len(g.Hands[0]) != before.hand0 {
		t.Fatalf("rejected actions mutated turn or hands")
	}
}

func TestTrickResolutionAndRotation(t *testing.T) {
	g := playingGame(t, 8 /* 2 cards */, 1, [][]Card{
		{{Suit: Clubs, Rank: RankKing}, {Suit: Clubs, Rank: 2}},
		{{Suit: Hearts, Rank: 4}, {Suit: Hearts, Rank: 5}},
		{{Suit: Spades, Rank: 2}, {Suit: Diamonds, Rank: 9}},
	})

	// Leader is seat 1; rotation wraps 1 -> 2 -> 0.
	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: 4}); err != nil {
		t.Fatalf("seat 1: %v", err)
	}
	if g.Turn != 2 {
		t.Fatalf("turn after lead = %d, want 2", g.Turn)
	}
	if err := g.PlayCard(2, Card{Suit: Spades, Rank: 2}); err != nil {
		t.Fatalf("seat 2: %v", err)
	}
	if err := g.PlayCard(0, Card{Suit: Clubs, Rank: RankKing}); err != nil {
		t.Fatalf("seat 0: %v", err)
	}

	// Low trump takes the trick over the lead heart and the off-suit king.
	if g.Phase != PhaseBetweenTricks {
		t.Fatalf("phase = %s, want between_tricks", g.Phase)
	}
	if g.TrickWinner == nil || *g.TrickWinner != 2 {
		t.Fatalf("trick winner = %v, want seat 2", g.TrickWinner)
	}
	if g.TricksRound[2] != 1 || g.TricksTotal[2] != 1 {
		t.Fatalf("winner counters not incremented")
	}

	if err := g.AdvanceTrick(); err != nil {
		t.Fatalf("AdvanceTrick: %v", err)
	}
	if g.Leader != 2 || g.Turn != 2 {
		t.Fatalf("next trick leader = %d/turn %d, want 2/2", g.Leader, g.Turn)
	}
	if g.LeadSuit != nil {
		t.Fatalf("lead suit not cleared for next trick")
	}
}

func TestFinalTrickScoresRound(t *testing.T) {
	g := playingGame(t, 13 /* 1 card */, 0, [][]Card{
		{{Suit: Hearts, Rank: RankAce}},
		{{Suit: Hearts, Rank: 2}},
	})
	*g.Bids[0] = 1 // seat 0 bids the trick it will take
	*g.Bids[1] = 1

	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: RankAce}); err != nil {
		t.Fatalf("seat 0: %v", err)
	}
	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: 2}); err != nil {
		t.Fatalf("seat 1: %v", err)
	}

	if g.Phase != PhaseRoundFinished {
		t.Fatalf("phase = %s, want round_finished", g.Phase)
	}
	if len(g.History) != 1 {
		t.Fatalf("history rows = %d, want 1", len(g.History))
	}
	row := g.History[0]
	if row.Points[0] != 11 || row.Points[1] != -1 {
		t.Fatalf("round points = %v, want [11 -1]", row.Points)
	}
	if g.PointsTotal[0] != 11 || g.PointsTotal[1] != -1 {
		t.Fatalf("cumulative totals = %v", g.PointsTotal)
	}
}

func TestAdvanceRoundTerminatesAfterLastRound(t *testing.T) {
	g := playingGame(t, NumRounds-1, 0, [][]Card{
		{{Suit: Hearts, Rank: 3}},
		{{Suit: Hearts, Rank: 4}},
	})
	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: 3}); err != nil {
		t.Fatalf("seat 0: %v", err)
	}
	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: 4}); err != nil {
		t.Fatalf("seat 1: %v", err)
	}
	if err := g.AdvanceRound(rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("AdvanceRound: %v", err)
	}
	if g.Phase != PhaseGameFinished {
		t.Fatalf("phase = %s, want game_finished", g.Phase)
	}

	// Terminal: nothing is accepted any more.
	if err := g.SubmitBid(0, 0); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("bid after finish error = %v, want ErrInvalidPhase", err)
	}
	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: 3}); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("play after finish error = %v, want ErrInvalidPhase", err)
	}
}

// playLowestLegal plays the first legal card in hand order for the seat on
// turn, used to drive full rounds in tests.
func playLowestLegal(t *testing.T, g *Game) {
	t.Helper()
	seat := g.Turn
	for _, c := range g.Hands[seat] {
		err := g.PlayCard(seat, c)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrMustFollowSuit) {
			t.Fatalf("seat %d playing %s: %v", seat, c, err)
		}
	}
	t.Fatalf("seat %d had no legal card", seat)
}

func TestFullGameProgressionConservesCards(t *testing.T) {
	const seats = 4
	rng := rand.New(rand.NewSource(99))

	g, err := NewGame(seats)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.Start(rng); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for !g.Finished() {
		expect := g.CardsPer() * seats

		for seat := 0; seat < seats; seat++ {
			if err := g.SubmitBid(seat, 0); err != nil {
				t.Fatalf("round %d bid seat %d: %v", g.RoundIndex, seat, err)
			}
		}

		for g.Phase == PhasePlaying || g.Phase == PhaseBetweenTricks {
			if got := g.CardsAccounted(); got != expect {
				t.Fatalf("round %d: cards accounted = %d, want %d", g.RoundIndex, got, expect)
			}
			if g.Phase == PhaseBetweenTricks {
				if err := g.AdvanceTrick(); err != nil {
					t.Fatalf("AdvanceTrick: %v", err)
				}
			}
			playLowestLegal(t, g)
		}

		if g.Phase != PhaseRoundFinished {
			t.Fatalf("round %d ended in phase %s", g.RoundIndex, g.Phase)
		}
		tricks := 0
		for _, n := range g.TricksRound {
			tricks += n
		}
		if tricks != g.CardsPer() {
			t.Fatalf("round %d: tricks sum = %d, want %d", g.RoundIndex, tricks, g.CardsPer())
		}

		if err := g.AdvanceRound(rng); err != nil {
			t.Fatalf("AdvanceRound: %v", err)
		}
	}

	if len(g.History) != NumRounds {
		t.Fatalf("history rows = %d, want %d", len(g.History), NumRounds)
	}
}

func TestLeaderCarriesAcrossRounds(t *testing.T) {
	g := playingGame(t, 0, 0, [][]Card{
		{{Suit: Hearts, Rank: 2}},
		{{Suit: Hearts, Rank: RankAce}},
	})

	if err := g.PlayCard(0, Card{Suit: Hearts, Rank: 2}); err != nil {
		t.Fatalf("seat 0: %v", err)
	}
	if err := g.PlayCard(1, Card{Suit: Hearts, Rank: RankAce}); err != nil {
		t.Fatalf("seat 1: %v", err)
	}
	if g.Phase != PhaseRoundFinished {
		t.Fatalf("phase = %s, want round_finished", g.Phase)
	}
	if err := g.AdvanceRound(rand.New(rand.NewSource(5))); err != nil {
		t.Fatalf("AdvanceRound: %v", err)
	}
	// Seat 1 won the final trick of round 0 and leads round 1.
	if g.Leader != 1 || g.Turn != 1 {
		t.Fatalf("round 1 leader/turn = %d/%d, want 1/1", g.Leader, g.Turn)
	}
	if g.Phase != PhaseBidding {
		t.Fatalf("phase = %s, want bidding", g.Phase)
	}
}
