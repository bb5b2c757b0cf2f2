package domain

import (
	"encoding/json"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %s in deck", c)
		}
		seen[c] = true
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		lead Suit
		aWin bool
	}{
		{
			name: "trump beats off-suit ace",
			a:    Card{Suit: Spades, Rank: 2},
			b:    Card{Suit: Hearts, Rank: RankAce},
			lead: Hearts,
			aWin: true,
		},
		{
			name: "higher trump beats lower trump",
			a:    Card{Suit: Spades, Rank: RankQueen},
			b:    Card{Suit: Spades, Rank: RankJack},
			lead: Clubs,
			aWin: true,
		},
		{
			name: "same suit higher rank wins",
			a:    Card{Suit: Diamonds, Rank: 10},
			b:    Card{Suit: Diamonds, Rank: 9},
			lead: Diamonds,
			aWin: true,
		},
		{
			name: "lead suit beats off-suit",
			a:    Card{Suit: Hearts, Rank: 3},
			b:    Card{Suit: Clubs, Rank: RankKing},
			lead: Hearts,
			aWin: true,
		},
		{
			name: "neither lead nor trump falls back to rank",
			a:    Card{Suit: Clubs, Rank: RankKing},
			b:    Card{Suit: Diamonds, Rank: 4},
			lead: Hearts,
			aWin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b, tt.lead) > 0
			if got != tt.aWin {
				t.Errorf("Compare(%s, %s, lead=%s) aWins = %v, want %v", tt.a, tt.b, tt.lead, got, tt.aWin)
			}
			// Antisymmetry: swapping the operands must flip the result.
			rev := Compare(tt.b, tt.a, tt.lead) < 0
			if rev != tt.aWin {
				t.Errorf("Compare(%s, %s, lead=%s) reversed disagrees", tt.b, tt.a, tt.lead)
			}
		})
	}
}

func TestTrickWinnerIndependentOfEvaluationOrder(t *testing.T) {
	lead := Hearts
	cards := []Card{
		{Suit: Hearts, Rank: RankKing},
		{Suit: Hearts, Rank: 4},
		{Suit: Spades, Rank: 2},
		{Suit: Clubs, Rank: RankAce},
	}
	want := Card{Suit: Spades, Rank: 2}

	// Running best from every starting seed must converge on the trump.
	for seed := range cards {
		best := cards[seed]
		for _, c := range cards {
			if Compare(c, best, lead) > 0 {
				best = c
			}
		}
		if best != want {
			t.Fatalf("seed %d: winner = %s, want %s", seed, best, want)
		}
	}
}

func TestSortHandSuitThenRank(t *testing.T) {
	hand := []Card{
		{Suit: Clubs, Rank: 3},
		{Suit: Spades, Rank: RankAce},
		{Suit: Spades, Rank: 2},
		{Suit: Hearts, Rank: RankKing},
	}
	SortHand(hand)
	want := []Card{
		{Suit: Spades, Rank: 2},
		{Suit: Spades, Rank: RankAce},
		{Suit: Hearts, Rank: RankKing},
		{Suit: Clubs, Rank: 3},
	}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("hand[%d] = %s, want %s", i, hand[i], want[i])
		}
	}
}

func TestCardJSONUsesSuitCodes(t *testing.T) {
	data, err := json.Marshal(Card{Suit: Hearts, Rank: RankQueen})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"suit":"H","rank":12}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}

	var c Card
	if err := json.Unmarshal([]byte(`{"suit":"S","rank":14}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != (Card{Suit: Spades, Rank: RankAce}) {
		t.Fatalf("card = %s", c)
	}
	if err := json.Unmarshal([]byte(`{"suit":"X","rank":5}`), &c); err == nil {
		t.Fatal("unknown suit code accepted")
	}
}

func TestParseSuitRoundTrip(t *testing.T) {
	for s := Spades; s <= Clubs; s++ {
		got, ok := ParseSuit(s.String())
		if !ok || got != s {
			t.Errorf("ParseSuit(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseSuit("X"); ok {
		t.Errorf("ParseSuit accepted unknown code")
	}
}
