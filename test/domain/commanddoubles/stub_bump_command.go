//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/packlog/internal/domain/commands"
	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// StubBumpCommand is a stub implementation of commands.Bump.
type StubBumpCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Bump             entities.VersionBump
	LastSettings     *entities.Settings
}

var _ commands.Bump = (*StubBumpCommand)(nil)

func (s *StubBumpCommand) Execute(_ context.Context, settings *entities.Settings) (entities.VersionBump, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.Bump, s.ExecuteErr
}
