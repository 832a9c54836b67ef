package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gertd/go-pluralize"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/packlog/internal/infrastructure/repositories"
)

// Generate is the interface for the generate command.
type Generate interface {
	Execute(ctx context.Context, settings *entities.Settings) (*GenerateResult, error)
}

// GenerateResult is what one release run produced.
type GenerateResult struct {
	Bump           entities.VersionBump
	Range          entities.HistoryRange
	Diff           entities.DiffResult
	Classification entities.Classification
	Documents      entities.Documents
}

// GenerateCommand builds the release documents:
// resolve config -> fetch snapshots -> diff and classify -> render -> persist.
type GenerateCommand struct {
	manifestRegistry *infraRepos.ManifestRegistry
	historyRegistry  *infraRepos.HistoryRegistry
	outputRegistry   *infraRepos.OutputRegistry
	plural           *pluralize.Client
}

// NewGenerateCommand creates a new GenerateCommand with the given registries.
func NewGenerateCommand(
	manifestRegistry *infraRepos.ManifestRegistry,
	historyRegistry *infraRepos.HistoryRegistry,
	outputRegistry *infraRepos.OutputRegistry,
) *GenerateCommand {
	return &GenerateCommand{
		manifestRegistry: manifestRegistry,
		historyRegistry:  historyRegistry,
		outputRegistry:   outputRegistry,
		plural:           pluralize.NewClient(),
	}
}

// Execute runs one release. Any error before persisting aborts the run without writing.
func (it *GenerateCommand) Execute(ctx context.Context, settings *entities.Settings) (*GenerateResult, error) {
	// resolving config
	if err := checkRepository(settings.Repository.Path); err != nil {
		return nil, err
	}
	history, err := it.historyRegistry.Get(settings)
	if err != nil {
		return nil, err
	}
	source, err := it.manifestRegistry.Get(settings)
	if err != nil {
		return nil, err
	}
	if err = source.Check(ctx); err != nil {
		return nil, err
	}
	sink, err := it.outputRegistry.Get(settings)
	if err != nil {
		return nil, err
	}
	classifier, err := entities.NewClassifier(settings.Classification, settings.Names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrConfiguration, err)
	}

	historyRange, baselineRevision, err := resolveRange(ctx, history, settings)
	if err != nil {
		return nil, err
	}

	// fetching snapshots
	logger.Infof("Reading %s snapshots (baseline %q)", source.Name(), baselineRevision)
	baseline, current, err := fetchSnapshots(ctx, source, baselineRevision)
	if err != nil {
		return nil, err
	}

	bump := ResolveVersions(settings, baseline, current)
	if validateErr := bump.Validate(); validateErr != nil {
		return nil, validateErr
	}
	if !bump.IsForward() {
		logger.Warnf("New version %s does not look newer than %s", bump.New, bump.Old)
	}

	// computing diff and classifying commits
	result := &GenerateResult{Bump: bump, Range: historyRange}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.Diff = entities.Diff(baseline.Dependencies, current.Dependencies, entities.SameInstalledFile)
		return nil
	})
	group.Go(func() error {
		commits, commitsErr := history.Commits(groupCtx, historyRange)
		if commitsErr != nil {
			return fmt.Errorf("failed to read commit history: %w", commitsErr)
		}
		if !settings.History.IncludeAuthor {
			for i := range commits {
				commits[i] = commits[i].WithoutAuthor()
			}
		}
		result.Classification = classifier.Classify(commits)
		logger.Debugf("Classified %s", it.count(len(commits), "commit"))
		return nil
	})
	if waitErr := group.Wait(); waitErr != nil {
		return nil, waitErr
	}

	for _, key := range result.Diff.Incomplete {
		logger.Warnf("Mod %q has no file identity on one side, update state unknown", key)
	}
	logger.Infof("Release %s -> %s: %s added, %s removed, %s updated, %s and %s",
		bump.Old, bump.New,
		it.count(len(result.Diff.Added), "mod"),
		it.count(len(result.Diff.Removed), "mod"),
		it.count(len(result.Diff.Updated), "mod"),
		it.count(len(result.Classification.Features), "feature"),
		it.count(len(result.Classification.Fixes), "fix"),
	)

	// rendering
	packName := settings.Pack.Name
	if packName == "" {
		packName = current.PackName
	}
	opts := settings.RenderOptions(packName, bump)
	result.Documents = entities.RenderDocuments(result.Classification, result.Diff, baseline, current, opts)

	// persisting
	if persistErr := persist(ctx, sink, BuildDocuments(settings, opts, result.Documents)); persistErr != nil {
		return result, persistErr
	}
	return result, nil
}

func (it *GenerateCommand) count(n int, word string) string {
	return it.plural.Pluralize(word, n, true)
}

// ResolveVersions picks the version labels: configured values win over snapshot metadata.
func ResolveVersions(settings *entities.Settings, baseline, current *entities.Manifest) entities.VersionBump {
	bump := entities.VersionBump{Old: settings.Version.Old, New: settings.Version.New}
	if bump.Old == "" && baseline != nil {
		bump.Old = baseline.PackVersion
	}
	if bump.New == "" && current != nil {
		bump.New = current.PackVersion
	}
	return bump
}

// BuildDocuments pairs each rendered document with its destination.
func BuildDocuments(
	settings *entities.Settings,
	opts entities.RenderOptions,
	docs entities.Documents,
) []entities.Document {
	destination := func(template string) string {
		return settings.ResolvePath(entities.ExpandPlaceholders(template, opts.PackName, opts.OldVersion, opts.NewVersion))
	}
	return []entities.Document{
		{
			Kind:    entities.DocumentChangelog,
			Path:    destination(settings.Output.Changelog),
			Content: docs.Changelog,
			Prepend: settings.Output.PrependChangelog,
		},
		{
			Kind:    entities.DocumentDependencyList,
			Path:    destination(settings.Output.DependencyList),
			Content: docs.DependencyList,
		},
		{
			Kind:    entities.DocumentDependencyChanges,
			Path:    destination(settings.Output.DependencyChanges),
			Content: docs.DependencyChanges,
		},
	}
}

func checkRepository(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: repository %s: %w", entities.ErrPath, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: repository %s is not a directory", entities.ErrPath, path)
	}
	return nil
}

// resolveRange picks the commit range and the baseline revision. The cutoff is the configured
// revision, else the configured date, else the latest version bump commit.
func resolveRange(
	ctx context.Context,
	history repositories.HistoryRepository,
	settings *entities.Settings,
) (entities.HistoryRange, string, error) {
	since, err := settings.SinceTime()
	if err != nil {
		return entities.HistoryRange{}, "", err
	}
	historyRange := entities.HistoryRange{To: settings.Repository.Branch, Since: since}

	if settings.History.Cutoff != "" {
		historyRange.From = settings.History.Cutoff
		return historyRange, settings.History.Cutoff, nil
	}

	bumpCommit, err := history.LatestMatching(ctx, settings.Repository.Branch, settings.Version.BumpPattern)
	if err != nil {
		if since == nil {
			return entities.HistoryRange{}, "", fmt.Errorf(
				"%w: set history.cutoff or history.since, no version bump commit was found: %w",
				entities.ErrConfiguration, err,
			)
		}
		logger.Warnf("No version bump commit found, using commits since %s", settings.History.Since)
		return historyRange, "", nil
	}

	if since == nil {
		historyRange.From = bumpCommit
	}
	logger.Debugf("Latest version bump commit is %s", bumpCommit)
	return historyRange, bumpCommit, nil
}

func fetchSnapshots(
	ctx context.Context,
	source repositories.ManifestRepository,
	baselineRevision string,
) (*entities.Manifest, *entities.Manifest, error) {
	var baseline, current *entities.Manifest

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		if current, err = source.Current(groupCtx); err != nil {
			return fmt.Errorf("current snapshot: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		if baseline, err = source.Baseline(groupCtx, baselineRevision); err != nil {
			return fmt.Errorf("baseline snapshot: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return baseline, current, nil
}

// persist writes every document and reports every failure, not only the first.
func persist(ctx context.Context, sink repositories.OutputRepository, docs []entities.Document) error {
	var errs []error
	for _, doc := range docs {
		if err := sink.Write(ctx, doc); err != nil {
			logger.Errorf("Failed to write the %s: %v", doc.Kind, err)
			errs = append(errs, fmt.Errorf("%s: %w", doc.Kind, err))
		}
	}
	return errors.Join(errs...)
}
