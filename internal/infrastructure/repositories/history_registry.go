package repositories

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	domainRepos "github.com/rios0rios0/packlog/internal/domain/repositories"
)

// HistoryFactory creates a HistoryRepository for a repository directory. It fails when the
// backend cannot run on this machine.
type HistoryFactory func(repoDir string) (domainRepos.HistoryRepository, error)

// HistoryRegistry manages the commit history backends.
type HistoryRegistry struct {
	backends map[string]HistoryFactory
}

func NewHistoryRegistry() *HistoryRegistry {
	return &HistoryRegistry{
		backends: make(map[string]HistoryFactory),
	}
}

func (r *HistoryRegistry) Register(name string, factory HistoryFactory) {
	r.backends[name] = factory
}

// Get returns the backend selected by settings.History.Backend for the repository path.
func (r *HistoryRegistry) Get(settings *entities.Settings) (domainRepos.HistoryRepository, error) {
	factory, ok := r.backends[settings.History.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: unknown history backend: %q", entities.ErrConfiguration, settings.History.Backend)
	}
	return factory(settings.Repository.Path)
}

func (r *HistoryRegistry) Names() []string {
	names := lo.Keys(r.backends)
	slices.Sort(names)
	return names
}
