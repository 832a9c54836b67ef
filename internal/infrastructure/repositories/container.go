package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	domainRepos "github.com/rios0rios0/packlog/internal/domain/repositories"
	gitRepo "github.com/rios0rios0/packlog/internal/infrastructure/repositories/gitlog"
	instanceRepo "github.com/rios0rios0/packlog/internal/infrastructure/repositories/instance"
	outputRepo "github.com/rios0rios0/packlog/internal/infrastructure/repositories/output"
	packwizRepo "github.com/rios0rios0/packlog/internal/infrastructure/repositories/packwiz"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register manifest registry with all metadata sources
	if err := container.Provide(func() *ManifestRegistry {
		reg := NewManifestRegistry()
		reg.Register(entities.SourceTypePackwiz, packwizRepo.NewManifestRepository)
		reg.Register(entities.SourceTypeInstance, instanceRepo.NewManifestRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register history registry with both backends
	if err := container.Provide(func() *HistoryRegistry {
		reg := NewHistoryRegistry()
		reg.Register(entities.HistoryBackendGoGit, func(repoDir string) (domainRepos.HistoryRepository, error) {
			return gitRepo.NewGoGitHistoryRepository(repoDir), nil
		})
		reg.Register(entities.HistoryBackendExec, func(repoDir string) (domainRepos.HistoryRepository, error) {
			return gitRepo.NewExecHistoryRepository(repoDir, gitRepo.NewLocator())
		})
		return reg
	}); err != nil {
		return err
	}

	// Register output registry with the file and console sinks
	if err := container.Provide(func() *OutputRegistry {
		reg := NewOutputRegistry()
		reg.Register(outputRepo.NewFileOutputRepository())
		reg.Register(outputRepo.NewConsoleOutputRepository())
		return reg
	}); err != nil {
		return err
	}

	return nil
}
