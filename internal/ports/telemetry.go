package ports

import "context"

// TelemetryStorePort persists telemetry snapshots so the log survives a
// server restart.
type TelemetryStorePort interface {
	// Save writes the serialized telemetry state.
	Save(ctx context.Context, data []byte) error

	// Load reads the serialized telemetry state. Returns found=false when
	// nothing has been saved yet.
	Load(ctx context.Context) (data []byte, found bool, err error)
}
