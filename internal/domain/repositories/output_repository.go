package repositories

import (
	"context"

	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// OutputRepository persists rendered documents.
type OutputRepository interface {
	// Name returns the sink identifier (e.g. "file", "stdout").
	Name() string

	// Write persists a single document.
	Write(ctx context.Context, document entities.Document) error
}
