package repositories

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	domainRepos "github.com/rios0rios0/packlog/internal/domain/repositories"
)

// ManifestFactory is a constructor function that creates a ManifestRepository from the run settings.
type ManifestFactory func(settings *entities.Settings) domainRepos.ManifestRepository

// ManifestRegistry manages all registered metadata source implementations.
type ManifestRegistry struct {
	sources map[string]ManifestFactory
}

// NewManifestRegistry creates an empty manifest registry.
func NewManifestRegistry() *ManifestRegistry {
	return &ManifestRegistry{
		sources: make(map[string]ManifestFactory),
	}
}

// Register adds a source factory under the given name (e.g. "packwiz").
func (r *ManifestRegistry) Register(name string, factory ManifestFactory) {
	r.sources[name] = factory
}

// Get returns a configured source for settings.Source.Type.
func (r *ManifestRegistry) Get(settings *entities.Settings) (domainRepos.ManifestRepository, error) {
	factory, ok := r.sources[settings.Source.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source type: %q", entities.ErrConfiguration, settings.Source.Type)
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered source names.
func (r *ManifestRegistry) Names() []string {
	names := lo.Keys(r.sources)
	slices.Sort(names)
	return names
}
