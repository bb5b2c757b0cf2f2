package app

import "piratwhist/internal/domain"

// SeatView is the public view of one seat: everything except the hand.
type SeatView struct {
	Name      string       `json:"name"`
	Bot       bool         `json:"bot"`
	Bid       *int         `json:"bid"`
	Tricks    int          `json:"tricks"`
	Points    int          `json:"points"`
	CardCount int          `json:"cardCount"`
	Played    *domain.Card `json:"played"`
}

// SnapshotPayload is the full table state as seen from one seat. Only the
// receiving seat's own cards are included; everyone else is a card count.
type SnapshotPayload struct {
	Phase       domain.Phase         `json:"phase"`
	Round       int                  `json:"round"`
	CardsPer    int                  `json:"cardsPer"`
	Leader      int                  `json:"leader"`
	Turn        int                  `json:"turn"`
	LeadSuit    *string              `json:"leadSuit"`
	TrickWinner *int                 `json:"trickWinner"`
	Seats       []SeatView           `json:"seats"`
	You         int                  `json:"you"`
	Hand        []domain.Card        `json:"hand"`
	History     []domain.RoundResult `json:"history"`
}

// Snapshot renders the table for the given seat. Pass a negative seat for a
// spectator view with no hand.
func Snapshot(tbl *Table, forSeat int) SnapshotPayload {
	snap := SnapshotPayload{
		Phase: domain.PhaseLobby,
		You:   forSeat,
		Seats: make([]SeatView, len(tbl.Seats)),
	}
	for i, s := range tbl.Seats {
		snap.Seats[i] = SeatView{Name: s.Name, Bot: s.Bot}
	}
	game := tbl.Game
	if game == nil {
		return snap
	}

	snap.Phase = game.Phase
	snap.Round = game.RoundIndex
	snap.CardsPer = game.CardsPer()
	snap.Leader = game.Leader
	snap.Turn = game.Turn
	snap.TrickWinner = game.TrickWinner
	snap.History = game.History
	if game.LeadSuit != nil {
		ls := game.LeadSuit.String()
		snap.LeadSuit = &ls
	}
	for i := range snap.Seats {
		snap.Seats[i].Bid = game.Bids[i]
		snap.Seats[i].Tricks = game.TricksRound[i]
		snap.Seats[i].Points = game.PointsTotal[i]
		snap.Seats[i].CardCount = len(game.Hands[i])
		snap.Seats[i].Played = game.Table[i]
	}
	if forSeat >= 0 && forSeat < len(game.Hands) {
		snap.Hand = game.Hands[forSeat]
	}
	return snap
}
