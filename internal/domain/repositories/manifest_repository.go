package repositories

import (
	"context"

	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// ManifestRepository abstracts where manifest snapshots come from (a packwiz tree in git,
// a launcher instance file, ...).
type ManifestRepository interface {
	// Name returns the source identifier (e.g. "packwiz", "instance").
	Name() string

	// Check verifies the local inputs of the source exist before any snapshot is read.
	// Missing paths are reported as entities.ErrPath.
	Check(ctx context.Context) error

	// Current returns the snapshot of the state being released.
	Current(ctx context.Context) (*entities.Manifest, error)

	// Baseline returns the snapshot of the previous release. Sources backed by history read
	// it at the given revision; other sources may ignore it.
	Baseline(ctx context.Context, revision string) (*entities.Manifest, error)
}
