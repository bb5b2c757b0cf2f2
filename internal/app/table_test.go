package app

import (
	"errors"
	"math/rand"
	"testing"

	"piratwhist/internal/domain"
)

func TestTableJoinAndCapacity(t *testing.T) {
	tbl := NewTable()

	seat, err := tbl.Join("u1", "ann")
	if err != nil || seat != 0 {
		t.Fatalf("first join = %d, %v", seat, err)
	}
	if _, err := tbl.Join("u1", "ann"); !errors.Is(err, ErrAlreadySeated) {
		t.Fatalf("double join error = %v, want ErrAlreadySeated", err)
	}

	for i := 1; i < domain.MaxSeats; i++ {
		if _, err := tbl.Join(string(rune('a'+i)), "p"); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if _, err := tbl.Join("late", "late"); !errors.Is(err, ErrTableFull) {
		t.Fatalf("overfull join error = %v, want ErrTableFull", err)
	}
}

func TestLobbyLeaveVacatesSeat(t *testing.T) {
	tbl := NewTable()
	tbl.Join("u1", "ann")
	tbl.Join("u2", "bo")

	seat, replaced, err := tbl.Leave("u1")
	if err != nil || replaced || seat != 0 {
		t.Fatalf("lobby leave = %d, %v, %v", seat, replaced, err)
	}
	if len(tbl.Seats) != 1 || tbl.Seats[0].UserID != "u2" {
		t.Fatalf("seats after leave = %+v", tbl.Seats)
	}
	if _, _, err := tbl.Leave("ghost"); !errors.Is(err, ErrNotSeated) {
		t.Fatalf("unknown leave error = %v, want ErrNotSeated", err)
	}
}

func TestRenameAndBotSeatAdjustment(t *testing.T) {
	tbl := NewTable()
	tbl.Join("u1", "ann")
	tbl.AddBot("Pirat-Pelle")
	tbl.Join("u2", "bo")
	tbl.AddBot("Pirat-Palle")

	if seat, err := tbl.Rename("u2", "Bodil"); err != nil || seat != 2 {
		t.Fatalf("rename = %d, %v", seat, err)
	}
	if tbl.Seats[2].Name != "Bodil" {
		t.Fatalf("seat 2 name = %q", tbl.Seats[2].Name)
	}
	if _, err := tbl.Rename("ghost", "x"); !errors.Is(err, ErrNotSeated) {
		t.Fatalf("ghost rename error = %v, want ErrNotSeated", err)
	}

	if tbl.BotCount() != 2 {
		t.Fatalf("bot count = %d, want 2", tbl.BotCount())
	}
	// The highest bot seat goes first; humans keep their seats.
	seat, err := tbl.RemoveBot()
	if err != nil || seat != 3 {
		t.Fatalf("remove bot = %d, %v", seat, err)
	}
	if seat, err = tbl.RemoveBot(); err != nil || seat != 1 {
		t.Fatalf("second remove bot = %d, %v", seat, err)
	}
	if _, err := tbl.RemoveBot(); !errors.Is(err, ErrNoBotSeat) {
		t.Fatalf("empty remove error = %v, want ErrNoBotSeat", err)
	}
	if tbl.HumanCount() != 2 || len(tbl.Seats) != 2 {
		t.Fatalf("seats after removals = %+v", tbl.Seats)
	}
}

func TestMidGameLeaveHandsSeatToBot(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(2)))
	tbl := newStartedTable(t, svc, "ann", "bo", "cyd")

	seat, replaced, err := tbl.Leave("bo-id")
	if err != nil || !replaced || seat != 1 {
		t.Fatalf("mid-game leave = %d, %v, %v", seat, replaced, err)
	}
	if !tbl.Seats[1].Bot || tbl.Seats[1].UserID != "" {
		t.Fatalf("seat 1 not handed to bot: %+v", tbl.Seats[1])
	}
	if len(tbl.Seats) != 3 {
		t.Fatalf("seat count changed mid-game")
	}
	if tbl.HumanCount() != 2 {
		t.Fatalf("human count = %d, want 2", tbl.HumanCount())
	}

	// Joining a running game is rejected.
	if _, err := tbl.Join("u9", "late"); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("mid-game join error = %v, want ErrGameInProgress", err)
	}
}

func TestSnapshotRedactsOtherHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(13)))
	tbl := newStartedTable(t, svc, "ann", "bo", "cyd")

	snap := Snapshot(tbl, 1)
	if snap.Phase != domain.PhaseBidding {
		t.Fatalf("snapshot phase = %s, want bidding", snap.Phase)
	}
	if len(snap.Hand) != 7 {
		t.Fatalf("own hand size = %d, want 7", len(snap.Hand))
	}
	for i, sv := range snap.Seats {
		if sv.CardCount != 7 {
			t.Fatalf("seat %d card count = %d, want 7", i, sv.CardCount)
		}
	}

	// Spectators get no hand at all.
	spec := Snapshot(tbl, -1)
	if spec.Hand != nil {
		t.Fatalf("spectator snapshot leaked a hand")
	}
}

func TestSnapshotInLobby(t *testing.T) {
	tbl := NewTable()
	tbl.Join("u1", "ann")
	tbl.AddBot("Pirat-Pelle")

	snap := Snapshot(tbl, 0)
	if snap.Phase != domain.PhaseLobby {
		t.Fatalf("phase = %s, want lobby", snap.Phase)
	}
	if len(snap.Seats) != 2 || !snap.Seats[1].Bot {
		t.Fatalf("seats = %+v", snap.Seats)
	}
	if snap.Hand != nil {
		t.Fatalf("lobby snapshot has a hand")
	}
}
