package domain

// PlayCard plays one card from a seat's hand into the current trick.
//
// Rejections (state untouched): wrong phase, wrong turn, card not held, or a
// follow-suit violation — when a lead suit is set and the hand holds that
// suit, the played card must match it.
//
// On success the card moves from the hand to the table, the lead suit is set
// on the trick's first card, and the turn advances to the next seat without
// a table card. A completed trick is resolved immediately: the winner's
// counters increment and the game enters between_tricks, or round_finished
// (with scoring applied) when all hands are empty.
func (g *Game) PlayCard(seat int, card Card) error {
	if g.Phase != PhasePlaying {
		return ErrInvalidPhase
	}
	if seat < 0 || seat >= g.Seats {
		return ErrSeatUnavailable
	}
	if seat != g.Turn {
		return ErrNotYourTurn
	}

	hand := g.Hands[seat]
	held := false
	for _, c := range hand {
		if c == card {
			held = true
			break
		}
	}
	if !held {
		return ErrCardNotInHand
	}

	if g.LeadSuit != nil && card.Suit != *g.LeadSuit && HasSuit(hand, *g.LeadSuit) {
		return ErrMustFollowSuit
	}

	g.Hands[seat], _ = RemoveCard(hand, card)
	if g.LeadSuit == nil {
		suit := card.Suit
		g.LeadSuit = &suit
	}
	played := card
	g.Table[seat] = &played

	g.advanceTurn(seat)

	if g.trickComplete() {
		g.resolveTrick()
	}
	return nil
}

// advanceTurn moves the turn to the next seat, in increasing seat order
// wrapping modulo n, that has not yet played into this trick.
func (g *Game) advanceTurn(from int) {
	next := (from + 1) % g.Seats
	for i := 0; i < g.Seats; i++ {
		if g.Table[next] == nil {
			g.Turn = next
			return
		}
		next = (next + 1) % g.Seats
	}
}

func (g *Game) trickComplete() bool {
	for _, c := range g.Table {
		if c == nil {
			return false
		}
	}
	return true
}

// resolveTrick finds the trick winner by scanning all played cards seeded
// with the leader's own card, credits the trick, and transitions to
// between_tricks or — when the round's hands are exhausted — scores the
// round and enters round_finished.
func (g *Game) resolveTrick() {
	winner := g.Leader
	best := *g.Table[winner]
	for seat := 0; seat < g.Seats; seat++ {
		c := *g.Table[seat]
		if Compare(c, best, *g.LeadSuit) > 0 {
			best = c
			winner = seat
		}
	}

	w := winner
	g.TrickWinner = &w
	g.TricksRound[winner]++
	g.TricksTotal[winner]++

	if g.handsEmpty() {
		g.scoreRound()
		g.Phase = PhaseRoundFinished
		return
	}
	g.Phase = PhaseBetweenTricks
}

func (g *Game) handsEmpty() bool {
	for _, h := range g.Hands {
		if len(h) > 0 {
			return false
		}
	}
	return true
}
