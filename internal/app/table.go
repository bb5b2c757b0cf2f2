package app

import (
	"errors"

	"piratwhist/internal/domain"
)

var (
	ErrTableFull      = errors.New("no free seat at table")
	ErrAlreadySeated  = errors.New("user already seated")
	ErrNotSeated      = errors.New("user not seated at table")
	ErrGameInProgress = errors.New("game already in progress")
	ErrGameNotStarted = errors.New("game not started")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrNoBotSeat      = errors.New("no bot seat to remove")
)

// Seat is one position at a table, held by a human or a bot.
type Seat struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
	Bot    bool   `json:"bot"`
}

// Table is the authoritative room state: who sits where plus the game once
// it has started. Game is nil while the table is in the lobby.
type Table struct {
	Seats []Seat
	Game  *domain.Game
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Started() bool {
	return t.Game != nil
}

// SeatOf resolves a user ID to a seat index.
func (t *Table) SeatOf(userID string) (int, bool) {
	for i, s := range t.Seats {
		if !s.Bot && s.UserID == userID {
			return i, true
		}
	}
	return -1, false
}

func (t *Table) HumanCount() int {
	n := 0
	for _, s := range t.Seats {
		if !s.Bot {
			n++
		}
	}
	return n
}

// Join seats a user at the next free position. Joining is a lobby-only
// operation; once cards are dealt the seating is frozen.
func (t *Table) Join(userID, name string) (int, error) {
	if t.Started() {
		return -1, ErrGameInProgress
	}
	if _, ok := t.SeatOf(userID); ok {
		return -1, ErrAlreadySeated
	}
	if len(t.Seats) >= domain.MaxSeats {
		return -1, ErrTableFull
	}
	t.Seats = append(t.Seats, Seat{UserID: userID, Name: name})
	return len(t.Seats) - 1, nil
}

// AddBot seats a bot at the next free position, lobby only.
func (t *Table) AddBot(name string) (int, error) {
	if t.Started() {
		return -1, ErrGameInProgress
	}
	if len(t.Seats) >= domain.MaxSeats {
		return -1, ErrTableFull
	}
	t.Seats = append(t.Seats, Seat{Name: name, Bot: true})
	return len(t.Seats) - 1, nil
}

// RemoveBot vacates the highest bot seat, lobby only.
func (t *Table) RemoveBot() (int, error) {
	if t.Started() {
		return -1, ErrGameInProgress
	}
	for i := len(t.Seats) - 1; i >= 0; i-- {
		if t.Seats[i].Bot {
			t.Seats = append(t.Seats[:i], t.Seats[i+1:]...)
			return i, nil
		}
	}
	return -1, ErrNoBotSeat
}

// BotCount reports how many seats are held by bots.
func (t *Table) BotCount() int {
	n := 0
	for _, s := range t.Seats {
		if s.Bot {
			n++
		}
	}
	return n
}

// Rename updates a seated user's display name.
func (t *Table) Rename(userID, name string) (int, error) {
	seat, ok := t.SeatOf(userID)
	if !ok {
		return -1, ErrNotSeated
	}
	t.Seats[seat].Name = name
	return seat, nil
}

// Leave removes a user. In the lobby the seat is vacated; mid-game the seat
// is handed to a bot so the match can continue.
func (t *Table) Leave(userID string) (seat int, replacedByBot bool, err error) {
	seat, ok := t.SeatOf(userID)
	if !ok {
		return -1, false, ErrNotSeated
	}
	if t.Started() {
		t.Seats[seat].Bot = true
		t.Seats[seat].UserID = ""
		return seat, true, nil
	}
	t.Seats = append(t.Seats[:seat], t.Seats[seat+1:]...)
	return seat, false, nil
}
