package repositories

import (
	"context"

	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// HistoryRepository reads commit subjects out of version control.
type HistoryRepository interface {
	// Name returns the backend identifier (e.g. "gogit", "exec").
	Name() string

	// Commits returns the commits of the range, newest first.
	Commits(ctx context.Context, historyRange entities.HistoryRange) ([]entities.Commit, error)

	// LatestMatching returns the hash of the newest commit reachable from revision whose
	// subject matches pattern.
	LatestMatching(ctx context.Context, revision, pattern string) (string, error)
}
