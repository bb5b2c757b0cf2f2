package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	telemetryCollection = "telemetry"
	telemetryKey        = "log"
)

// StorageTelemetryAdapter implements ports.TelemetryStorePort on Nakama's
// storage engine, under the system user.
type StorageTelemetryAdapter struct {
	nk runtime.NakamaModule
}

func NewStorageTelemetryAdapter(nk runtime.NakamaModule) *StorageTelemetryAdapter {
	return &StorageTelemetryAdapter{nk: nk}
}

func (a *StorageTelemetryAdapter) Save(ctx context.Context, data []byte) error {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection: telemetryCollection,
		Key:        telemetryKey,
		Value:      string(data),
	}})
	if err != nil {
		return fmt.Errorf("failed to write telemetry storage: %w", err)
	}
	return nil
}

func (a *StorageTelemetryAdapter) Load(ctx context.Context) ([]byte, bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: telemetryCollection,
		Key:        telemetryKey,
	}})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read telemetry storage: %w", err)
	}
	if len(objects) == 0 {
		return nil, false, nil
	}
	return []byte(objects[0].GetValue()), true, nil
}
