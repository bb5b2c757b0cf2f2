package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"piratwhist/internal/ports"
)

var ErrEmptyFeedback = errors.New("feedback text is empty")

// Caps keep the stored logs bounded; the oldest entries fall off first.
const (
	maxFeedback = 200
	maxLogins   = 500
	maxRounds   = 1000

	maxFeedbackLen = 2000
	sessionTTL     = 24 * time.Hour
)

type FeedbackEntry struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

type LoginEntry struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}

type RoundEntry struct {
	ID    string    `json:"id"`
	Code  string    `json:"code"`
	Round int       `json:"round"`
	Seats int       `json:"seats"`
	At    time.Time `json:"at"`
}

type state struct {
	Feedback []FeedbackEntry      `json:"feedback"`
	Logins   []LoginEntry         `json:"logins"`
	Rounds   []RoundEntry         `json:"rounds"`
	Sessions map[string]time.Time `json:"sessions"`
}

// Activity summarizes one event log over the dashboard's time windows.
type Activity struct {
	Total  int            `json:"total"`
	Today  int            `json:"today"`
	Last15 int            `json:"last15m"`
	Last60 int            `json:"last60m"`
	ByDay  map[string]int `json:"byDay"`
}

// Stats is the aggregate view served to the admin dashboard.
type Stats struct {
	ActiveSessions int             `json:"activeSessions"`
	Logins         Activity        `json:"logins"`
	Rounds         Activity        `json:"rounds"`
	Feedback       []FeedbackEntry `json:"feedback"`
}

// Service records gameplay telemetry and feedback. All methods are safe for
// concurrent use.
type Service struct {
	mu    sync.Mutex
	store ports.TelemetryStorePort
	st    state
	now   func() time.Time
}

// NewService loads any previously persisted telemetry from the store. A nil
// store keeps everything in memory only.
func NewService(ctx context.Context, store ports.TelemetryStorePort) (*Service, error) {
	s := &Service{store: store, now: time.Now}
	s.st.Sessions = make(map[string]time.Time)
	if store == nil {
		return s, nil
	}
	data, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry: %w", err)
	}
	if found {
		if err := json.Unmarshal(data, &s.st); err != nil {
			return nil, fmt.Errorf("failed to unmarshal telemetry: %w", err)
		}
		if s.st.Sessions == nil {
			s.st.Sessions = make(map[string]time.Time)
		}
	}
	return s, nil
}

// RecordLogin notes a login and refreshes the user's session.
func (s *Service) RecordLogin(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.st.Logins = append(s.st.Logins, LoginEntry{ID: uuid.NewString(), UserID: userID, At: now})
	if n := len(s.st.Logins) - maxLogins; n > 0 {
		s.st.Logins = s.st.Logins[n:]
	}
	s.st.Sessions[userID] = now
	s.pruneSessionsLocked(now)
	return s.persistLocked(ctx)
}

// Touch refreshes the user's session without logging a login.
func (s *Service) Touch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.st.Sessions[userID] = now
	s.pruneSessionsLocked(now)
}

// RecordRound notes a finished round for a room.
func (s *Service) RecordRound(ctx context.Context, code string, round, seats int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Rounds = append(s.st.Rounds, RoundEntry{
		ID:    uuid.NewString(),
		Code:  code,
		Round: round,
		Seats: seats,
		At:    s.now(),
	})
	if n := len(s.st.Rounds) - maxRounds; n > 0 {
		s.st.Rounds = s.st.Rounds[n:]
	}
	return s.persistLocked(ctx)
}

// RecordFeedback stores a player's feedback text.
func (s *Service) RecordFeedback(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyFeedback
	}
	if len([]rune(text)) > maxFeedbackLen {
		text = string([]rune(text)[:maxFeedbackLen])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Feedback = append(s.st.Feedback, FeedbackEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
		At:     s.now(),
	})
	if n := len(s.st.Feedback) - maxFeedback; n > 0 {
		s.st.Feedback = s.st.Feedback[n:]
	}
	return s.persistLocked(ctx)
}

// Stats aggregates the current telemetry for the admin dashboard.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneSessionsLocked(now)

	loginTimes := make([]time.Time, len(s.st.Logins))
	for i, e := range s.st.Logins {
		loginTimes[i] = e.At
	}
	roundTimes := make([]time.Time, len(s.st.Rounds))
	for i, e := range s.st.Rounds {
		roundTimes[i] = e.At
	}

	feedback := make([]FeedbackEntry, len(s.st.Feedback))
	copy(feedback, s.st.Feedback)
	return Stats{
		ActiveSessions: len(s.st.Sessions),
		Logins:         summarize(now, loginTimes),
		Rounds:         summarize(now, roundTimes),
		Feedback:       feedback,
	}
}

func summarize(now time.Time, times []time.Time) Activity {
	act := Activity{Total: len(times), ByDay: make(map[string]int)}
	today := now.Format("2006-01-02")
	for _, at := range times {
		day := at.Format("2006-01-02")
		act.ByDay[day]++
		if day == today {
			act.Today++
		}
		since := now.Sub(at)
		if since <= 15*time.Minute {
			act.Last15++
		}
		if since <= 60*time.Minute {
			act.Last60++
		}
	}
	return act
}

func (s *Service) pruneSessionsLocked(now time.Time) {
	for id, seen := range s.st.Sessions {
		if now.Sub(seen) > sessionTTL {
			delete(s.st.Sessions, id)
		}
	}
}

func (s *Service) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := json.Marshal(s.st)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}
	return s.store.Save(ctx, data)
}
