package nakama

import (
	"context"
	"database/sql"

	"piratwhist/internal/app"
	"piratwhist/internal/app/assist"
	"piratwhist/internal/app/telemetry"
	"piratwhist/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// module holds the long-lived services shared by RPCs, hooks and matches.
type module struct {
	telemetry *telemetry.Service
	assist    *assist.Service
	admin     *app.AdminService
}

// InitModule wires config, services, RPCs and the match handler into the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	m := &module{}

	tel, err := telemetry.NewService(ctx, NewStorageTelemetryAdapter(nk))
	if err != nil {
		logger.Warn("InitModule: Telemetry disabled: %v", err)
	} else {
		m.telemetry = tel
	}

	knowledgePath := cfg.KnowledgePath
	if knowledgePath == "" {
		knowledgePath = "data/knowledge.json"
	}
	model := NewHTTPModelAdapter(env["piratwhist_model_url"], env["piratwhist_model_key"])
	if asst, err := assist.NewService(model, knowledgePath); err != nil {
		logger.Warn("InitModule: Assistant disabled: %v", err)
	} else {
		m.assist = asst
	}

	if password, secret := env["piratwhist_admin_password"], env["piratwhist_admin_secret"]; password != "" && secret != "" {
		m.admin = app.NewAdminService(password, secret, config.AdminTokenTTL())
	} else {
		logger.Warn("InitModule: Admin dashboard disabled, credentials not configured.")
	}

	if err := m.registerRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(m.afterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNamePiratwhist, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(m.telemetry), nil
	}); err != nil {
		return err
	}

	logger.Info("Piratwhist Go module loaded.")
	return nil
}

func (m *module) registerRPCs(initializer runtime.Initializer) error {
	for id, fn := range map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcRoomCreate:   m.rpcRoomCreate,
		RpcRoomJoin:     m.rpcRoomJoin,
		RpcQuickMatch:   m.rpcQuickMatch,
		RpcAskAssistant: m.rpcAskAssistant,
		RpcFeedback:     m.rpcFeedback,
		RpcAdminLogin:   m.rpcAdminLogin,
		RpcAdminStats:   m.rpcAdminStats,
	} {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}
