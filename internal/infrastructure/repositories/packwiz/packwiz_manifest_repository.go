package packwiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
	"github.com/rios0rios0/packlog/internal/infrastructure/repositories/gitlog"
)

const (
	sourceName  = entities.SourceTypePackwiz
	modFileExt  = ".pw.toml"
	providerKey = "project-id"
)

// loaderNames are the [versions] keys that name a mod loader, in lookup order.
var loaderNames = []string{"neoforge", "forge", "fabric", "quilt"} //nolint:gochecknoglobals // fixed lookup table

var loaderLabels = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"neoforge": "NeoForge",
	"forge":    "Forge",
	"fabric":   "Fabric",
	"quilt":    "Quilt",
}

type packFile struct {
	Name     string            `toml:"name"`
	Version  string            `toml:"version"`
	Versions map[string]string `toml:"versions"`
}

type modFile struct {
	Name     string `toml:"name"`
	Filename string `toml:"filename"`
	Download struct {
		URL        string `toml:"url"`
		HashFormat string `toml:"hash-format"`
		Hash       string `toml:"hash"`
	} `toml:"download"`
	Update map[string]map[string]any `toml:"update"`
}

// ManifestRepository reads packwiz metadata (pack.toml and mods/*.pw.toml) out of git trees.
type ManifestRepository struct {
	repoDir  string
	branch   string
	packFile string
	modsDir  string
	packName string
}

// NewManifestRepository creates a packwiz reader from the resolved settings.
func NewManifestRepository(settings *entities.Settings) repositories.ManifestRepository {
	return &ManifestRepository{
		repoDir:  settings.Repository.Path,
		branch:   settings.Repository.Branch,
		packFile: path.Clean(strings.ReplaceAll(settings.Source.PackFile, "\\", "/")),
		modsDir:  path.Clean(strings.ReplaceAll(settings.Source.ModsDir, "\\", "/")),
		packName: settings.Pack.Name,
	}
}

func (r *ManifestRepository) Name() string { return sourceName }

// Check fails when the repository directory is not a git repository.
func (r *ManifestRepository) Check(_ context.Context) error {
	_, err := gitlog.OpenRepository(r.repoDir)
	return err
}

// Current reads the configured branch. Pack metadata is taken from the working tree
// pack.toml when it exists, so an uncommitted version bump is honoured.
func (r *ManifestRepository) Current(ctx context.Context) (*entities.Manifest, error) {
	manifest, err := r.read(ctx, r.branch)
	if err != nil {
		return nil, err
	}

	data, readErr := os.ReadFile(filepath.Join(r.repoDir, filepath.FromSlash(r.packFile)))
	if readErr != nil {
		return manifest, nil //nolint:nilerr // the committed pack.toml stays authoritative
	}
	pack, parseErr := parsePack(data)
	if parseErr != nil {
		logger.Warnf("Ignoring working tree %s: %v", r.packFile, parseErr)
		return manifest, nil
	}

	return entities.NewManifest(
		r.nameOr(pack.Name, manifest.PackName),
		pack.Version,
		loaderOf(pack),
		lo.Values(manifest.Dependencies),
	), nil
}

// Baseline reads the snapshot at revision.
func (r *ManifestRepository) Baseline(ctx context.Context, revision string) (*entities.Manifest, error) {
	if revision == "" {
		return nil, fmt.Errorf("%w: no baseline revision, set history.cutoff", entities.ErrSourceUnavailable)
	}
	return r.read(ctx, revision)
}

func (r *ManifestRepository) read(ctx context.Context, revision string) (*entities.Manifest, error) {
	gitRepo, err := gitlog.OpenRepository(r.repoDir)
	if err != nil {
		return nil, err
	}
	hash, err := gitlog.ResolveRevision(gitRepo, revision)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrSourceUnavailable, err)
	}
	commit, err := gitRepo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrSourceUnavailable, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrSourceUnavailable, err)
	}

	packData, err := fileContents(tree, r.packFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %w", entities.ErrSourceUnavailable, r.packFile, revision, err)
	}
	pack, err := parsePack(packData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %w", entities.ErrSourceUnavailable, r.packFile, revision, err)
	}

	deps, err := r.readMods(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %w", entities.ErrSourceUnavailable, r.modsDir, revision, err)
	}

	logger.Debugf("Read %d mods from %s at %s", len(deps), r.modsDir, revision)
	return entities.NewManifest(r.nameOr(pack.Name, ""), pack.Version, loaderOf(pack), deps), nil
}

func (r *ManifestRepository) readMods(ctx context.Context, tree *object.Tree) ([]entities.Dependency, error) {
	modsTree, err := tree.Tree(r.modsDir)
	if errors.Is(err, object.ErrDirectoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var deps []entities.Dependency
	walker := object.NewTreeWalker(modsTree, true, nil)
	defer walker.Close()
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		name, entry, walkErr := walker.Next()
		if errors.Is(walkErr, io.EOF) {
			break
		}
		if walkErr != nil {
			return nil, walkErr
		}
		if !entry.Mode.IsFile() || !strings.HasSuffix(name, modFileExt) {
			continue
		}

		data, readErr := fileContents(modsTree, name)
		if readErr != nil {
			return nil, readErr
		}
		dep, parseErr := ParseMod(data)
		if parseErr != nil {
			return nil, fmt.Errorf("%s: %w", name, parseErr)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func (r *ManifestRepository) nameOr(name, fallback string) string {
	switch {
	case r.packName != "":
		return r.packName
	case name != "":
		return name
	}
	return fallback
}

// ParseMod converts one .pw.toml file into a dependency keyed by its primary project id.
func ParseMod(data []byte) (entities.Dependency, error) {
	var mod modFile
	if err := toml.Unmarshal(data, &mod); err != nil {
		return entities.Dependency{}, err
	}

	descriptor := entities.UpdateDescriptor{Sources: updateSources(mod.Update)}
	dep := entities.Dependency{
		Key:    mod.Filename,
		Name:   mod.Name,
		File:   entities.InstalledFile{Name: mod.Filename},
		Hash:   mod.Download.Hash,
		Update: descriptor,
	}
	if primary, ok := descriptor.Primary(); ok {
		if primary.ProjectID != "" {
			dep.Key = primary.ProjectID
		}
		dep.URL = entities.ProjectURL(primary)
		dep.File.ID = primary.FileID
	}
	if dep.URL == "" {
		dep.URL = mod.Download.URL
	}
	if dep.Key == "" {
		return entities.Dependency{}, errors.New("mod has neither an update source nor a file name")
	}
	return dep, nil
}

// updateSources lists the [update.*] tables. TOML tables carry no order, so providers are
// sorted by name; Primary still prefers curseforge and modrinth.
func updateSources(update map[string]map[string]any) []entities.UpdateSource {
	providers := lo.Keys(update)
	slices.Sort(providers)

	sources := make([]entities.UpdateSource, 0, len(providers))
	for _, provider := range providers {
		fields := update[provider]
		source := entities.UpdateSource{Provider: provider}
		switch provider {
		case entities.SourceModrinth:
			source.ProjectID = stringField(fields, "mod-id")
			source.FileID = stringField(fields, "version")
		default:
			source.ProjectID = stringField(fields, providerKey)
			source.FileID = stringField(fields, "file-id")
		}
		sources = append(sources, source)
	}
	return sources
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func parsePack(data []byte) (packFile, error) {
	var pack packFile
	if err := toml.Unmarshal(data, &pack); err != nil {
		return packFile{}, err
	}
	return pack, nil
}

func loaderOf(pack packFile) entities.Loader {
	for _, name := range loaderNames {
		if version, ok := pack.Versions[name]; ok {
			return entities.Loader{Name: loaderLabels[name], Version: version}
		}
	}
	return entities.Loader{}
}

func fileContents(tree *object.Tree, name string) ([]byte, error) {
	file, err := tree.File(name)
	if err != nil {
		return nil, err
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}
