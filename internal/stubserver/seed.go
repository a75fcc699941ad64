package stubserver

import (
	"context"
	"errors"
	"fmt"

	"ohmg/internal/volume"
)

// DemoVolumeID is the identifier of the volume seeded into a fresh stub
// database.
const DemoVolumeID = "sanborn03375_001"

// SeedDemo inserts a demo volume unless one already exists. The volume starts
// unloaded so an initialize operation exercises the full bulk-load path.
func (s *Store) SeedDemo(ctx context.Context, sheetTotal int) error {
	if sheetTotal <= 0 {
		sheetTotal = 4
	}
	_, err := s.GetVolume(ctx, DemoVolumeID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.CreateVolume(ctx, VolumeRecord{
		Identifier: DemoVolumeID,
		Title:      "Baton Rouge, La. | 1885",
		SheetTotal: sheetTotal,
		Access:     volume.AccessAny,
	}); err != nil {
		return fmt.Errorf("seed demo volume: %w", err)
	}
	return nil
}
