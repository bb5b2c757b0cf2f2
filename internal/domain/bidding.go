package domain

// SubmitBid records one bid for a seat during the bidding phase. Each seat
// bids exactly once per round; legal values are 0..cardsPerRound (zero is
// always legal). When the last bid lands the game enters the playing phase
// with the round leader on turn.
func (g *Game) SubmitBid(seat, bid int) error {
	if g.Phase != PhaseBidding {
		return ErrInvalidPhase
	}
	if seat < 0 || seat >= g.Seats {
		return ErrSeatUnavailable
	}
	if g.Bids[seat] != nil {
		return ErrDuplicateBid
	}
	if bid < 0 || bid > g.CardsPer() {
		return ErrIllegalBidValue
	}

	v := bid
	g.Bids[seat] = &v

	if g.AllBidsIn() {
		g.Turn = g.Leader
		g.Phase = PhasePlaying
	}
	return nil
}

// AllBidsIn reports whether every seat has a recorded bid this round.
func (g *Game) AllBidsIn() bool {
	for _, b := range g.Bids {
		if b == nil {
			return false
		}
	}
	return true
}
