//go:build integration || unit || test

// Package repositorydoubles provides hand-written test doubles for repository interfaces.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

// SpyManifestRepository implements repositories.ManifestRepository as a configurable spy.
type SpyManifestRepository struct {
	SourceName string

	// --- Check ---
	CheckErr error

	// --- Current ---
	CurrentManifest *entities.Manifest
	CurrentErr      error

	// --- Baseline ---
	BaselineManifest *entities.Manifest
	BaselineErr      error

	mu                sync.Mutex
	BaselineRevisions []string
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

func (s *SpyManifestRepository) Name() string { return s.SourceName }

func (s *SpyManifestRepository) Check(_ context.Context) error {
	return s.CheckErr
}

func (s *SpyManifestRepository) Current(_ context.Context) (*entities.Manifest, error) {
	return s.CurrentManifest, s.CurrentErr
}

func (s *SpyManifestRepository) Baseline(_ context.Context, revision string) (*entities.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BaselineRevisions = append(s.BaselineRevisions, revision)
	return s.BaselineManifest, s.BaselineErr
}
