package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Default pool used when no identity file is configured.
var defaultNames = []string{
	"Kaptajn Klo",
	"Sorte Sara",
	"Styrmand Bork",
	"Røde Rasmus",
	"Enøjede Erik",
	"Skipper Signe",
	"Landkrabbe Lars",
}

var (
	botNames []string
	loadOnce sync.Once
	loadErr  error
)

// LoadIdentities loads the bot name pool from a JSON array of strings. It is
// safe to call more than once; only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &botNames); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
	})
	return loadErr
}

// Name returns a display name for the bot at the given index, cycling
// through the pool.
func Name(index int) string {
	pool := botNames
	if len(pool) == 0 {
		pool = defaultNames
	}
	return pool[index%len(pool)]
}
