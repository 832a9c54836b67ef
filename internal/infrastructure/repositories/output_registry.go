package repositories

import (
	"fmt"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	domainRepos "github.com/rios0rios0/packlog/internal/domain/repositories"
)

// OutputRegistry maps output modes to their sinks.
type OutputRegistry struct {
	sinks map[string]domainRepos.OutputRepository
}

func NewOutputRegistry() *OutputRegistry {
	return &OutputRegistry{
		sinks: make(map[string]domainRepos.OutputRepository),
	}
}

// Register adds a sink under its name.
func (r *OutputRegistry) Register(sink domainRepos.OutputRepository) {
	r.sinks[sink.Name()] = sink
}

// Get returns the sink selected by settings.Output.Mode.
func (r *OutputRegistry) Get(settings *entities.Settings) (domainRepos.OutputRepository, error) {
	sink, ok := r.sinks[settings.Output.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown output mode: %q", entities.ErrConfiguration, settings.Output.Mode)
	}
	return sink, nil
}
