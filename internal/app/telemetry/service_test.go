package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type memStore struct {
	data  []byte
	saves int
}

func (m *memStore) Save(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memStore) Load(_ context.Context) ([]byte, bool, error) {
	if m.data == nil {
		return nil, false, nil
	}
	return m.data, true, nil
}

func TestRecordLoginTracksSessions(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.RecordLogin(context.Background(), "u1"); err != nil {
		t.Fatalf("record login: %v", err)
	}
	if err := svc.RecordLogin(context.Background(), "u2"); err != nil {
		t.Fatalf("record login: %v", err)
	}

	stats := svc.Stats()
	if stats.Logins.Total != 2 || stats.ActiveSessions != 2 {
		t.Fatalf("stats = %+v, want 2 logins and 2 sessions", stats)
	}
	if stats.Logins.Today != 2 || stats.Logins.Last15 != 2 {
		t.Fatalf("login windows = %+v, want both logins in today and last15m", stats.Logins)
	}
}

func TestStatsWindowsSplitByAge(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base.Add(-48 * time.Hour) }
	svc.RecordLogin(context.Background(), "u1")
	svc.now = func() time.Time { return base.Add(-30 * time.Minute) }
	svc.RecordLogin(context.Background(), "u2")
	svc.now = func() time.Time { return base }
	svc.RecordLogin(context.Background(), "u3")

	act := svc.Stats().Logins
	if act.Total != 3 || act.Today != 2 || act.Last60 != 2 || act.Last15 != 1 {
		t.Fatalf("activity = %+v, want total 3, today 2, last60m 2, last15m 1", act)
	}
	if act.ByDay["2026-08-26"] != 1 || act.ByDay["2026-08-28"] != 2 {
		t.Fatalf("byDay = %+v", act.ByDay)
	}
}

func TestStaleSessionsArePruned(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	base := time.Now()
	svc.now = func() time.Time { return base }
	svc.Touch("old")

	svc.now = func() time.Time { return base.Add(sessionTTL + time.Minute) }
	svc.Touch("fresh")

	if got := svc.Stats().ActiveSessions; got != 1 {
		t.Fatalf("active sessions = %d, want 1 after pruning", got)
	}
}

func TestLogsAreCapped(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for i := 0; i < maxFeedback+25; i++ {
		text := fmt.Sprintf("feedback %d", i)
		if err := svc.RecordFeedback(context.Background(), "u1", text); err != nil {
			t.Fatalf("record feedback %d: %v", i, err)
		}
	}

	stats := svc.Stats()
	if len(stats.Feedback) != maxFeedback {
		t.Fatalf("feedback entries = %d, want %d", len(stats.Feedback), maxFeedback)
	}
	if stats.Feedback[0].Text != "feedback 25" {
		t.Fatalf("oldest kept entry = %q, want the 26th", stats.Feedback[0].Text)
	}
}

func TestRecordFeedbackValidation(t *testing.T) {
	svc, err := NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.RecordFeedback(context.Background(), "u1", "  "); !errors.Is(err, ErrEmptyFeedback) {
		t.Fatalf("empty feedback error = %v, want ErrEmptyFeedback", err)
	}

	long := strings.Repeat("x", maxFeedbackLen+100)
	if err := svc.RecordFeedback(context.Background(), "u1", long); err != nil {
		t.Fatalf("long feedback: %v", err)
	}
	got := svc.Stats().Feedback[0].Text
	if len([]rune(got)) != maxFeedbackLen {
		t.Fatalf("stored feedback length = %d, want truncated to %d", len([]rune(got)), maxFeedbackLen)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	store := &memStore{}

	svc, err := NewService(context.Background(), store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.RecordRound(context.Background(), "KQX7PA", 3, 4); err != nil {
		t.Fatalf("record round: %v", err)
	}
	if err := svc.RecordFeedback(context.Background(), "u1", "sjovt spil"); err != nil {
		t.Fatalf("record feedback: %v", err)
	}
	if store.saves == 0 {
		t.Fatal("nothing was persisted")
	}

	revived, err := NewService(context.Background(), store)
	if err != nil {
		t.Fatalf("NewService after restart: %v", err)
	}
	stats := revived.Stats()
	if stats.Rounds.Total != 1 || len(stats.Feedback) != 1 {
		t.Fatalf("revived stats = %+v", stats)
	}
	if stats.Feedback[0].Text != "sjovt spil" {
		t.Fatalf("revived feedback = %q", stats.Feedback[0].Text)
	}
}
