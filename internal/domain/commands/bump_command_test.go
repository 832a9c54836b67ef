//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/packlog/internal/domain/commands"
	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/packlog/internal/infrastructure/repositories"
	"github.com/rios0rios0/packlog/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/packlog/test/infrastructure/repositorydoubles"
)

const settingsScript = `$MODPACK_NAME = "Craftoria"
$MODPACK_VERSION = "1.4.0"
$LAST_MODPACK_VERSION = "1.3.0"
`

func newBumpCommand(
	source *doubles.SpyManifestRepository,
	history *doubles.SpyHistoryRepository,
) *commands.BumpCommand {
	manifests := infraRepos.NewManifestRegistry()
	manifests.Register(entities.SourceTypePackwiz, func(_ *entities.Settings) repositories.ManifestRepository {
		return source
	})
	histories := infraRepos.NewHistoryRegistry()
	histories.Register(entities.HistoryBackendGoGit, func(_ string) (repositories.HistoryRepository, error) {
		return history, nil
	})
	return commands.NewBumpCommand(manifests, histories)
}

func releaseSnapshots() *doubles.SpyManifestRepository {
	return &doubles.SpyManifestRepository{
		BaselineManifest: entitybuilders.NewManifestBuilder().WithPackVersion("1.4.0").BuildManifest(),
		CurrentManifest:  entitybuilders.NewManifestBuilder().WithPackVersion("1.5.0").BuildManifest(),
	}
}

func writeSettingsScript(t *testing.T) (string, string) {
	t.Helper()
	repoDir := t.TempDir()
	scriptPath := filepath.Join(repoDir, "automation", "settings.ps1")
	require.NoError(t, os.MkdirAll(filepath.Dir(scriptPath), 0o755))
	require.NoError(t, os.WriteFile(scriptPath, []byte(settingsScript), 0o600))
	return repoDir, scriptPath
}

func TestBumpCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite both version variables", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, scriptPath := writeSettingsScript(t)
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{
			RepoPath:   repoDir,
			OldVersion: "1.4.0",
			NewVersion: "1.5.0",
		})

		// when
		bump, err := newBumpCommand(&doubles.SpyManifestRepository{}, &doubles.SpyHistoryRepository{}).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionBump{Old: "1.4.0", New: "1.5.0"}, bump)
		content, readErr := os.ReadFile(scriptPath)
		require.NoError(t, readErr)
		assert.Equal(t, `$MODPACK_NAME = "Craftoria"
$MODPACK_VERSION = "1.5.0"
$LAST_MODPACK_VERSION = "1.4.0"
`, string(content))
	})

	t.Run("should take both versions from the snapshots at the cutoff", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, scriptPath := writeSettingsScript(t)
		source := releaseSnapshots()
		history := &doubles.SpyHistoryRepository{}
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{RepoPath: repoDir, Cutoff: "v1.4.0"})

		// when
		bump, err := newBumpCommand(source, history).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionBump{Old: "1.4.0", New: "1.5.0"}, bump)
		assert.Equal(t, []string{"v1.4.0"}, source.BaselineRevisions)
		assert.Empty(t, history.LatestPatterns)
		content, readErr := os.ReadFile(scriptPath)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), `$MODPACK_VERSION = "1.5.0"`)
		assert.Contains(t, string(content), `$LAST_MODPACK_VERSION = "1.4.0"`)
	})

	t.Run("should read the baseline at the latest version bump commit", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, _ := writeSettingsScript(t)
		source := releaseSnapshots()
		history := &doubles.SpyHistoryRepository{LatestHash: "b0b0b0b"}
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{RepoPath: repoDir})

		// when
		bump, err := newBumpCommand(source, history).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionBump{Old: "1.4.0", New: "1.5.0"}, bump)
		assert.Equal(t, []string{"b0b0b0b"}, source.BaselineRevisions)
		assert.Equal(t, []string{settings.Version.BumpPattern}, history.LatestPatterns)
	})

	t.Run("should keep a configured new version over the current snapshot", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, _ := writeSettingsScript(t)
		source := releaseSnapshots()
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{
			RepoPath:   repoDir,
			Cutoff:     "v1.4.0",
			NewVersion: "1.6.0",
		})

		// when
		bump, err := newBumpCommand(source, &doubles.SpyHistoryRepository{}).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionBump{Old: "1.4.0", New: "1.6.0"}, bump)
	})

	t.Run("should not read the baseline when the old version is configured", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, _ := writeSettingsScript(t)
		source := releaseSnapshots()
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{RepoPath: repoDir, OldVersion: "1.3.0"})

		// when
		bump, err := newBumpCommand(source, &doubles.SpyHistoryRepository{}).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionBump{Old: "1.3.0", New: "1.5.0"}, bump)
		assert.Empty(t, source.BaselineRevisions)
	})

	t.Run("should fail with a configuration error when no cutoff can be resolved", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, scriptPath := writeSettingsScript(t)
		history := &doubles.SpyHistoryRepository{LatestErr: errors.New("no bump")}
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{RepoPath: repoDir})

		// when
		_, err := newBumpCommand(releaseSnapshots(), history).Execute(context.Background(), settings)

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
		content, readErr := os.ReadFile(scriptPath)
		require.NoError(t, readErr)
		assert.Equal(t, settingsScript, string(content))
	})

	t.Run("should refuse to bump to the same version", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir, scriptPath := writeSettingsScript(t)
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{
			RepoPath:   repoDir,
			OldVersion: "1.4.0",
			NewVersion: "1.4.0",
		})

		// when
		_, err := newBumpCommand(&doubles.SpyManifestRepository{}, &doubles.SpyHistoryRepository{}).Execute(context.Background(), settings)

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
		content, readErr := os.ReadFile(scriptPath)
		require.NoError(t, readErr)
		assert.Equal(t, settingsScript, string(content))
	})

	t.Run("should fail when no configured file exists", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings().WithOverrides(entities.Overrides{
			RepoPath:   t.TempDir(),
			OldVersion: "1.4.0",
			NewVersion: "1.5.0",
		})

		// when
		_, err := newBumpCommand(&doubles.SpyManifestRepository{}, &doubles.SpyHistoryRepository{}).Execute(context.Background(), settings)

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
	})
}

func TestRewriteVersionFile(t *testing.T) {
	t.Parallel()

	t.Run("should report no change when nothing matched", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pack.toml")
		require.NoError(t, os.WriteFile(path, []byte("name = \"Pack\"\n"), 0o600))
		replacements := []entities.Replacement{{Pattern: `(?m)^version = ".*"$`, Value: `version = "{version}"`}}

		// when
		changed, err := commands.RewriteVersionFile(path, replacements, entities.VersionBump{Old: "1", New: "2"})

		// then
		require.NoError(t, err)
		assert.False(t, changed)
	})
}
