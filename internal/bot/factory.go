package bot

import (
	"fmt"
	"math/rand"
)

// BotLevel selects a strategy for a bot seat.
type BotLevel string

const (
	BotLevelRandom    BotLevel = "random"
	BotLevelHeuristic BotLevel = "heuristic"
)

// NewBrain creates a bot brain for the given level. The rng is only used by
// levels that randomize; it may be nil for deterministic strategies.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelRandom:
		if rng == nil {
			return nil, fmt.Errorf("random bot requires an rng")
		}
		return &RandomBot{Rng: rng}, nil
	case BotLevelHeuristic, "":
		return &HeuristicBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %s", level)
	}
}
