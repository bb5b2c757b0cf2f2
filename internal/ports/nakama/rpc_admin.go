package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"piratwhist/internal/app/telemetry"

	"github.com/heroiclabs/nakama-common/runtime"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

type adminStatsRequest struct {
	Token string `json:"token"`
}

type feedbackRequest struct {
	Text string `json:"text"`
}

// rpcAdminLogin exchanges the admin password for a dashboard token.
func (m *module) rpcAdminLogin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if m.admin == nil {
		return "", runtime.NewError("admin is not configured", 12)
	}
	var req adminLoginRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed admin login request", 3)
	}

	token, err := m.admin.Login(req.Password)
	if err != nil {
		logger.Warn("AdminLogin: rejected: %v", err)
		return "", runtime.NewError("invalid credentials", 16)
	}
	b, _ := json.Marshal(adminLoginResponse{Token: token})
	return string(b), nil
}

// rpcAdminStats returns aggregated telemetry for a valid admin token.
func (m *module) rpcAdminStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if m.admin == nil || m.telemetry == nil {
		return "", runtime.NewError("admin is not configured", 12)
	}
	var req adminStatsRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed admin stats request", 3)
	}
	if err := m.admin.Verify(req.Token); err != nil {
		logger.Warn("AdminStats: rejected token: %v", err)
		return "", runtime.NewError("invalid admin token", 16)
	}

	b, err := json.Marshal(m.telemetry.Stats())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// rpcFeedback stores free-text player feedback.
func (m *module) rpcFeedback(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if m.telemetry == nil {
		return "", runtime.NewError("feedback is not configured", 12)
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req feedbackRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed feedback request", 3)
	}
	if err := m.telemetry.RecordFeedback(ctx, userID, req.Text); err != nil {
		if errors.Is(err, telemetry.ErrEmptyFeedback) {
			return "", runtime.NewError(err.Error(), 3)
		}
		logger.Error("Feedback [User:%s]: %v", userID, err)
		return "", err
	}
	return `{}`, nil
}
