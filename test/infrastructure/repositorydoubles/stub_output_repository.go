//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

// SpyOutputRepository implements repositories.OutputRepository and records every document.
type SpyOutputRepository struct {
	Mode string

	// WriteErrs fails the write of the given document kinds.
	WriteErrs map[entities.DocumentKind]error

	Written []entities.Document
}

var _ repositories.OutputRepository = (*SpyOutputRepository)(nil)

func (s *SpyOutputRepository) Name() string { return s.Mode }

func (s *SpyOutputRepository) Write(_ context.Context, doc entities.Document) error {
	if err := s.WriteErrs[doc.Kind]; err != nil {
		return err
	}
	s.Written = append(s.Written, doc)
	return nil
}
