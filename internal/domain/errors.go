package domain

import "errors"

// Rejection errors for illegal actions. Every rejection happens before any
// mutation, so a failed action leaves the game in its prior state.
var (
	ErrInvalidPhase    = errors.New("action not legal in current phase")
	ErrDuplicateBid    = errors.New("seat already bid this round")
	ErrIllegalBidValue = errors.New("bid outside legal range")
	ErrNotYourTurn     = errors.New("not this seat's turn")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrMustFollowSuit  = errors.New("must follow lead suit")
	ErrSeatUnavailable = errors.New("seat unavailable")
	ErrConfiguration   = errors.New("invalid room configuration")
)
