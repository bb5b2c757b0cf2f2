package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"piratwhist/internal/app/assist"

	"github.com/heroiclabs/nakama-common/runtime"
)

type askRequest struct {
	Question string `json:"question"`
	// Situation is a short client-side description of the table state,
	// included so answers can reference the ongoing round.
	Situation string `json:"situation"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// rpcAskAssistant forwards a player question to the rules assistant.
func (m *module) rpcAskAssistant(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if m.assist == nil {
		return "", runtime.NewError("assistant is not configured", 12)
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req askRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed assistant request", 3)
	}

	answer, err := m.assist.Ask(ctx, req.Question, req.Situation)
	if err != nil {
		if errors.Is(err, assist.ErrEmptyQuestion) || errors.Is(err, assist.ErrQuestionTooLong) {
			return "", runtime.NewError(err.Error(), 3)
		}
		logger.Error("AskAssistant [User:%s]: %v", userID, err)
		return "", runtime.NewError("assistant is unavailable", 14)
	}

	if m.telemetry != nil && userID != "" {
		m.telemetry.Touch(userID)
	}
	b, _ := json.Marshal(askResponse{Answer: answer})
	return string(b), nil
}
