package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients looking for any open
// lobby instead of a specific room code.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
	IsNew   bool   `json:"is_new"`
}

func (m *module) rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	// Find any of our rooms still in the lobby with a free seat.
	query := "+label.game:piratwhist +label.phase:lobby +label.open:>=1"

	limit := 10
	authoritative := true

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("QuickMatch: MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		var label MatchLabel
		_ = json.Unmarshal([]byte(matches[0].GetLabel().GetValue()), &label)
		b, _ := json.Marshal(QuickMatchResponse{MatchID: matches[0].MatchId, Code: label.Code, IsNew: false})
		return string(b), nil
	}

	// No open room: fall back to creating one.
	created, err := m.rpcRoomCreate(ctx, logger, db, nk, "")
	if err != nil {
		return "", err
	}
	var room RoomResponse
	_ = json.Unmarshal([]byte(created), &room)
	b, _ := json.Marshal(QuickMatchResponse{MatchID: room.MatchID, Code: room.Code, IsNew: true})
	return string(b), nil
}
