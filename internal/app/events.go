package app

import "piratwhist/internal/domain"

// EventKind identifies emitted app events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined    EventKind = "player_joined"
	EventPlayerLeft      EventKind = "player_left"
	EventGameStarted     EventKind = "game_started"
	EventRoundStarted    EventKind = "round_started"
	EventHandDealt       EventKind = "hand_dealt"
	EventBidSubmitted    EventKind = "bid_submitted"
	EventBiddingFinished EventKind = "bidding_finished"
	EventCardPlayed      EventKind = "card_played"
	EventTrickFinished   EventKind = "trick_finished"
	EventTrickStarted    EventKind = "trick_started"
	EventRoundFinished   EventKind = "round_finished"
	EventGameFinished    EventKind = "game_finished"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Bot    bool   `json:"bot"`
	UserID string `json:"userId,omitempty"`
}

type PlayerLeftPayload struct {
	Seat          int    `json:"seat"`
	UserID        string `json:"userId"`
	ReplacedByBot bool   `json:"replacedByBot"`
}

type GameStartedPayload struct {
	Seats int `json:"seats"`
}

type RoundStartedPayload struct {
	Round    int `json:"round"`
	CardsPer int `json:"cardsPer"`
	Leader   int `json:"leader"`
}

type HandDealtPayload struct {
	Seat int           `json:"seat"`
	Hand []domain.Card `json:"hand"`
}

// Bids are public once placed, so BidSubmitted is broadcast.
type BidSubmittedPayload struct {
	Seat int `json:"seat"`
	Bid  int `json:"bid"`
}

type BiddingFinishedPayload struct {
	Bids []int `json:"bids"`
	Turn int   `json:"turn"`
}

type CardPlayedPayload struct {
	Seat     int         `json:"seat"`
	Card     domain.Card `json:"card"`
	NextTurn int         `json:"nextTurn"`
	LeadSuit string      `json:"leadSuit,omitempty"`
}

type TrickFinishedPayload struct {
	Winner int   `json:"winner"`
	Tricks []int `json:"tricks"`
}

type TrickStartedPayload struct {
	Leader int `json:"leader"`
}

type RoundFinishedPayload struct {
	Result domain.RoundResult `json:"result"`
	Totals []int              `json:"totals"`
}

type GameFinishedPayload struct {
	Totals  []int `json:"totals"`
	Winners []int `json:"winners"`
}
