//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

// SpyHistoryRepository implements repositories.HistoryRepository as a configurable spy.
type SpyHistoryRepository struct {
	BackendName string

	// --- Commits ---
	CommitList []entities.Commit
	CommitsErr error

	// --- LatestMatching ---
	LatestHash string
	LatestErr  error

	mu             sync.Mutex
	Ranges         []entities.HistoryRange
	LatestPatterns []string
}

var _ repositories.HistoryRepository = (*SpyHistoryRepository)(nil)

func (s *SpyHistoryRepository) Name() string { return s.BackendName }

func (s *SpyHistoryRepository) Commits(_ context.Context, historyRange entities.HistoryRange) ([]entities.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ranges = append(s.Ranges, historyRange)
	return append([]entities.Commit(nil), s.CommitList...), s.CommitsErr
}

func (s *SpyHistoryRepository) LatestMatching(_ context.Context, _, pattern string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LatestPatterns = append(s.LatestPatterns, pattern)
	return s.LatestHash, s.LatestErr
}
