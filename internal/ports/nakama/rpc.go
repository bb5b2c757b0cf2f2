package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RoomResponse is returned by room_create and room_join.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

type roomJoinRequest struct {
	Code string `json:"code"`
}

// rpcRoomCreate creates a new room with a fresh shareable code.
func (m *module) rpcRoomCreate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	code, err := m.uniqueCode(ctx, nk, rng)
	if err != nil {
		logger.Error("RoomCreate [User:%s]: %v", userID, err)
		return "", err
	}

	matchID, err := nk.MatchCreate(ctx, MatchNamePiratwhist, map[string]interface{}{"code": code})
	if err != nil {
		logger.Error("RoomCreate [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	if m.telemetry != nil && userID != "" {
		m.telemetry.Touch(userID)
	}
	logger.Info("RoomCreate [User:%s]: Created room %s (%s).", userID, code, matchID)
	b, _ := json.Marshal(RoomResponse{MatchID: matchID, Code: code})
	return string(b), nil
}

// uniqueCode draws codes until one is not in use by a listed match.
func (m *module) uniqueCode(ctx context.Context, nk runtime.NakamaModule, rng *rand.Rand) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := GenerateCode(rng)
		matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, fmt.Sprintf("+label.code:%s", code))
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
		if len(matches) == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a free room code")
}

// rpcRoomJoin resolves a shareable room code to a match id.
func (m *module) rpcRoomJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req roomJoinRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed room join request", 3)
	}
	code, ok := NormalizeCode(req.Code)
	if !ok {
		return "", runtime.NewError("invalid room code", 3)
	}

	matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, fmt.Sprintf("+label.code:%s", code))
	if err != nil {
		logger.Error("RoomJoin [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}
	if len(matches) == 0 {
		return "", runtime.NewError("room not found", 5)
	}

	if m.telemetry != nil && userID != "" {
		m.telemetry.Touch(userID)
	}
	b, _ := json.Marshal(RoomResponse{MatchID: matches[0].MatchId, Code: code})
	return string(b), nil
}
