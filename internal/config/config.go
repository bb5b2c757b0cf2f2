package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type GameConfig struct {
	// TickRate is the match loop frequency in ticks per second.
	TickRate int `json:"tick_rate"`
	// BotActDelayTicks is how many ticks a bot waits before bidding or
	// playing, so its moves are visible to humans.
	BotActDelayTicks int `json:"bot_act_delay_ticks"`
	// TrickPauseTicks is how long a finished trick stays on the table
	// before the next one starts.
	TrickPauseTicks int `json:"trick_pause_ticks"`
	// RoundPauseTicks is how long the round summary is shown before the
	// next deal.
	RoundPauseTicks int `json:"round_pause_ticks"`
	// EmptyMatchTimeoutTicks terminates a match that has had no human
	// presences for this many ticks.
	EmptyMatchTimeoutTicks int `json:"empty_match_timeout_ticks"`

	BotIdentitiesPath string `json:"bot_identities_path"`
	KnowledgePath     string `json:"knowledge_path"`

	AdminTokenTTLHours int `json:"admin_token_ttl_hours"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, with safe defaults
// when no file was loaded.
func GetGameConfig() GameConfig {
	if cfg != nil {
		return *cfg
	}
	return GameConfig{
		TickRate:               2,
		BotActDelayTicks:       2,
		TrickPauseTicks:        3,
		RoundPauseTicks:        6,
		EmptyMatchTimeoutTicks: 120,
		AdminTokenTTLHours:     12,
	}
}

// AdminTokenTTL returns the configured admin token lifetime.
func AdminTokenTTL() time.Duration {
	c := GetGameConfig()
	if c.AdminTokenTTLHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.AdminTokenTTLHours) * time.Hour
}
