package instance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

const (
	sourceName     = entities.SourceTypeInstance
	requestTimeout = 30 * time.Second
)

// ManifestRepository reads CurseForge instance files (minecraftinstance.json). The current
// snapshot is the local file, the baseline is fetched from the remote branch or read from a
// local copy.
type ManifestRepository struct {
	path         string
	gameID       int64
	remoteURL    string
	baselinePath string
	packName     string
	httpClient   *http.Client
}

// NewManifestRepository creates an instance reader from the resolved settings.
func NewManifestRepository(settings *entities.Settings) repositories.ManifestRepository {
	return NewManifestRepositoryWithClient(settings, cleanhttp.DefaultClient())
}

// NewManifestRepositoryWithClient is NewManifestRepository with a custom HTTP client.
func NewManifestRepositoryWithClient(settings *entities.Settings, client *http.Client) repositories.ManifestRepository {
	client.Timeout = requestTimeout
	return &ManifestRepository{
		path:         settings.ResolvePath(settings.Source.Path),
		gameID:       int64(settings.Source.GameID),
		remoteURL:    strings.ReplaceAll(settings.Source.RemoteURL, "{branch}", settings.Source.RemoteBranch),
		baselinePath: settings.ResolvePath(settings.Source.BaselinePath),
		packName:     settings.Pack.Name,
		httpClient:   client,
	}
}

func (r *ManifestRepository) Name() string { return sourceName }

// Check fails when the local instance file is missing.
func (r *ManifestRepository) Check(_ context.Context) error {
	info, err := os.Stat(r.path)
	if err != nil {
		return fmt.Errorf("%w: instance manifest %s: %w", entities.ErrPath, r.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: instance manifest %s is a directory", entities.ErrPath, r.path)
	}
	return nil
}

// Current parses the local instance file.
func (r *ManifestRepository) Current(_ context.Context) (*entities.Manifest, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", entities.ErrSourceUnavailable, r.path, err)
	}
	return r.parse(data, r.path)
}

// Baseline fetches the remote instance file and falls back to the local baseline copy. The
// revision is not used: the remote branch is fixed by configuration.
func (r *ManifestRepository) Baseline(ctx context.Context, _ string) (*entities.Manifest, error) {
	var errs []error

	if r.remoteURL != "" {
		data, err := r.fetch(ctx)
		if err == nil {
			return r.parse(data, r.remoteURL)
		}
		logger.Warnf("Failed to fetch baseline manifest from %s: %v", r.remoteURL, err)
		errs = append(errs, err)
	}

	if r.baselinePath != "" {
		data, err := os.ReadFile(r.baselinePath)
		if err == nil {
			logger.Infof("Using local baseline manifest %s", r.baselinePath)
			return r.parse(data, r.baselinePath)
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no remote url or baseline path configured"))
	}
	return nil, fmt.Errorf("%w: baseline manifest: %w", entities.ErrSourceUnavailable, errors.Join(errs...))
}

func (r *ManifestRepository) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.remoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	logger.Debugf("Fetched %s from %s", humanize.Bytes(uint64(len(body))), r.remoteURL)
	return body, nil
}

func (r *ManifestRepository) parse(data []byte, origin string) (*entities.Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", entities.ErrSourceUnavailable, origin)
	}

	doc := gjson.ParseBytes(data)
	deps := ParseAddons(doc.Get("installedAddons"), r.gameID)

	packName := r.packName
	if packName == "" {
		packName = doc.Get("name").String()
	}

	logger.Debugf("Parsed %d addons from %s", len(deps), origin)
	return entities.NewManifest(packName, "", ParseLoader(doc.Get("baseModLoader.name").String()), deps), nil
}

// ParseAddons converts the installedAddons array, keeping only addons of the given game.
func ParseAddons(addons gjson.Result, gameID int64) []entities.Dependency {
	var deps []entities.Dependency
	addons.ForEach(func(_, addon gjson.Result) bool {
		if addon.Get("gameID").Int() != gameID {
			return true
		}

		key := addon.Get("addonID").String()
		fileID := addon.Get("installedFile.id").String()
		deps = append(deps, entities.Dependency{
			Key:    key,
			Name:   addon.Get("name").String(),
			URL:    addon.Get("websiteUrl").String(),
			Author: addon.Get("primaryAuthor").String(),
			File: entities.InstalledFile{
				ID:   fileID,
				Name: addon.Get("installedFile.fileName").String(),
			},
			Update: entities.UpdateDescriptor{Sources: []entities.UpdateSource{{
				Provider:  entities.SourceCurseForge,
				ProjectID: key,
				FileID:    fileID,
			}}},
		})
		return true
	})
	return deps
}

// ParseLoader splits a loader label such as "neoforge-21.1.90" into a capitalized name and
// its version.
func ParseLoader(label string) entities.Loader {
	name, version, _ := strings.Cut(strings.TrimSpace(label), "-")
	switch strings.ToLower(name) {
	case "":
		return entities.Loader{}
	case "neoforge":
		name = "NeoForge"
	default:
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return entities.Loader{Name: name, Version: version}
}
