package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	infraRepos "github.com/rios0rios0/packlog/internal/infrastructure/repositories"
)

const bumpFilePerm = 0o644

// Bump is the interface for the bump command.
type Bump interface {
	Execute(ctx context.Context, settings *entities.Settings) (entities.VersionBump, error)
}

// BumpCommand rewrites the version variables of the configured files.
type BumpCommand struct {
	manifestRegistry *infraRepos.ManifestRegistry
	historyRegistry  *infraRepos.HistoryRegistry
}

// NewBumpCommand creates a new BumpCommand.
func NewBumpCommand(
	manifestRegistry *infraRepos.ManifestRegistry,
	historyRegistry *infraRepos.HistoryRegistry,
) *BumpCommand {
	return &BumpCommand{manifestRegistry: manifestRegistry, historyRegistry: historyRegistry}
}

// Execute resolves the release versions and applies every replacement. Files that do not
// exist are skipped; the run fails when nothing could be rewritten.
func (it *BumpCommand) Execute(ctx context.Context, settings *entities.Settings) (entities.VersionBump, error) {
	if err := checkRepository(settings.Repository.Path); err != nil {
		return entities.VersionBump{}, err
	}

	bump, err := it.resolveBump(ctx, settings)
	if err != nil {
		return entities.VersionBump{}, err
	}
	if validateErr := bump.Validate(); validateErr != nil {
		return bump, validateErr
	}
	if !bump.IsForward() {
		logger.Warnf("New version %s does not look newer than %s", bump.New, bump.Old)
	}

	rewritten := 0
	var errs []error
	for _, file := range settings.Bump.Files {
		path := settings.ResolvePath(file.Path)
		changed, err := RewriteVersionFile(path, file.Replacements, bump)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warnf("Skipping %s: file does not exist", path)
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		case changed:
			logger.Infof("Bumped %s from %s to %s", path, bump.Old, bump.New)
			rewritten++
		default:
			logger.Warnf("No version variable matched in %s", path)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return bump, err
	}
	if rewritten == 0 {
		return bump, fmt.Errorf("%w: no configured file was bumped", entities.ErrConfiguration)
	}
	return bump, nil
}

// resolveBump takes the versions the same way a release run does: configured values first,
// then the baseline snapshot at the cutoff for the old one and the current snapshot for the
// new one. Snapshots whose version is already configured are not read.
func (it *BumpCommand) resolveBump(ctx context.Context, settings *entities.Settings) (entities.VersionBump, error) {
	bump := entities.VersionBump{Old: settings.Version.Old, New: settings.Version.New}
	if bump.Old != "" && bump.New != "" {
		return bump, nil
	}

	source, err := it.manifestRegistry.Get(settings)
	if err != nil {
		return entities.VersionBump{}, err
	}
	if err = source.Check(ctx); err != nil {
		return entities.VersionBump{}, err
	}

	if bump.Old != "" {
		current, currentErr := source.Current(ctx)
		if currentErr != nil {
			return entities.VersionBump{}, fmt.Errorf("current snapshot: %w", currentErr)
		}
		return ResolveVersions(settings, nil, current), nil
	}

	history, err := it.historyRegistry.Get(settings)
	if err != nil {
		return entities.VersionBump{}, err
	}
	_, baselineRevision, err := resolveRange(ctx, history, settings)
	if err != nil {
		return entities.VersionBump{}, err
	}

	if bump.New != "" {
		baseline, baselineErr := source.Baseline(ctx, baselineRevision)
		if baselineErr != nil {
			return entities.VersionBump{}, fmt.Errorf("baseline snapshot: %w", baselineErr)
		}
		return ResolveVersions(settings, baseline, nil), nil
	}

	baseline, current, err := fetchSnapshots(ctx, source, baselineRevision)
	if err != nil {
		return entities.VersionBump{}, err
	}
	return ResolveVersions(settings, baseline, current), nil
}

// RewriteVersionFile applies the replacements to one file and reports whether it changed.
func RewriteVersionFile(path string, replacements []entities.Replacement, bump entities.VersionBump) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	content := string(data)
	for _, replacement := range replacements {
		pattern, compileErr := regexp.Compile(replacement.Pattern)
		if compileErr != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", replacement.Pattern, compileErr)
		}
		value := entities.ExpandPlaceholders(replacement.Value, "", bump.Old, bump.New)
		content = pattern.ReplaceAllLiteralString(content, value)
	}

	if content == string(data) {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(content), bumpFilePerm)
}
