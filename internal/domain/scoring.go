package domain

// PointsFor converts one seat's bid and tricks taken into round points:
// an exact bid awards 10 plus the bid, a miss costs the absolute distance.
func PointsFor(bid, taken int) int {
	if bid == taken {
		return 10 + bid
	}
	diff := taken - bid
	if diff < 0 {
		diff = -diff
	}
	return -diff
}

// ScoreRound applies PointsFor across seats. Pure and total.
func ScoreRound(bids, taken []int) []int {
	points := make([]int, len(bids))
	for i := range bids {
		points[i] = PointsFor(bids[i], taken[i])
	}
	return points
}

// scoreRound freezes the current round into a history row and folds its
// points into the cumulative totals. Called exactly once per round, when the
// final trick resolves.
func (g *Game) scoreRound() {
	bids := make([]int, g.Seats)
	for i, b := range g.Bids {
		if b != nil {
			bids[i] = *b
		}
	}
	taken := append([]int(nil), g.TricksRound...)
	points := ScoreRound(bids, taken)
	for i, p := range points {
		g.PointsTotal[i] += p
	}
	g.History = append(g.History, RoundResult{
		RoundIndex: g.RoundIndex,
		CardsPer:   g.CardsPer(),
		Bids:       bids,
		Taken:      taken,
		Points:     points,
	})
}

// TotalForSeat sums points over fully resolved rounds only. An in-progress
// round contributes nothing until its history row exists.
func (g *Game) TotalForSeat(seat int) int {
	total := 0
	for _, row := range g.History {
		total += row.Points[seat]
	}
	return total
}
