//go:build unit

package packwiz_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/infrastructure/repositories/packwiz"
)

const packToml = `name = "Craftoria"
version = "%s"
pack-format = "packwiz:1.1.0"

[versions]
minecraft = "1.21.1"
neoforge = "%s"
`

const jeiToml = `name = "Just Enough Items"
filename = "%s"
side = "both"

[download]
hash-format = "sha1"
hash = "%s"

[update.curseforge]
file-id = %s
project-id = 238222
`

const sodiumToml = `name = "Sodium"
filename = "sodium-neoforge-0.6.0.jar"

[download]
url = "https://cdn.modrinth.com/data/AANobbMI/versions/abc/sodium-neoforge-0.6.0.jar"
hash-format = "sha512"
hash = "deadbeef"

[update.modrinth]
mod-id = "AANobbMI"
version = "abc"
`

type packRepo struct {
	dir      string
	repo     *git.Repository
	worktree *git.Worktree
	when     time.Time
}

func newPackRepo(t *testing.T) *packRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	return &packRepo{dir: dir, repo: repo, worktree: worktree, when: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *packRepo) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(r.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (r *packRepo) remove(t *testing.T, name string) {
	t.Helper()
	_, err := r.worktree.Remove(filepath.ToSlash(name))
	require.NoError(t, err)
}

func (r *packRepo) commit(t *testing.T, message string) string {
	t.Helper()
	require.NoError(t, r.worktree.AddWithOptions(&git.AddOptions{All: true}))
	r.when = r.when.Add(time.Hour)
	hash, err := r.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.when},
	})
	require.NoError(t, err)
	return hash.String()
}

func packwizSettings(dir string) *entities.Settings {
	return entities.DefaultSettings().WithOverrides(entities.Overrides{RepoPath: dir})
}

func TestPackwizManifestRepository(t *testing.T) {
	t.Parallel()

	t.Run("should read both snapshots from git revisions", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newPackRepo(t)
		repo.write(t, "pack.toml", fmt.Sprintf(packToml, "1.4.0", "21.1.80"))
		repo.write(t, "mods/jei.pw.toml", fmt.Sprintf(jeiToml, "jei-19.8.jar", "aaa", "5101"))
		repo.write(t, "mods/sodium.pw.toml", sodiumToml)
		baselineRev := repo.commit(t, "bump to 1.4.0")

		repo.write(t, "pack.toml", fmt.Sprintf(packToml, "1.5.0", "21.1.90"))
		repo.write(t, "mods/jei.pw.toml", fmt.Sprintf(jeiToml, "jei-19.9.jar", "bbb", "5202"))
		repo.remove(t, "mods/sodium.pw.toml")
		repo.commit(t, "update jei")

		source := packwiz.NewManifestRepository(packwizSettings(repo.dir))

		// when
		baseline, baselineErr := source.Baseline(context.Background(), baselineRev)
		current, currentErr := source.Current(context.Background())

		// then
		require.NoError(t, baselineErr)
		require.NoError(t, currentErr)

		assert.Equal(t, "1.4.0", baseline.PackVersion)
		assert.Equal(t, entities.Loader{Name: "NeoForge", Version: "21.1.80"}, baseline.Loader)
		require.Len(t, baseline.Dependencies, 2)
		sodium := baseline.Dependencies["AANobbMI"]
		assert.Equal(t, "https://modrinth.com/mod/AANobbMI", sodium.URL)
		assert.Equal(t, "abc", sodium.File.ID)

		assert.Equal(t, "1.5.0", current.PackVersion)
		assert.Equal(t, "Craftoria", current.PackName)
		require.Len(t, current.Dependencies, 1)
		jei := current.Dependencies["238222"]
		assert.Equal(t, "bbb", jei.Hash)
		assert.Equal(t, entities.InstalledFile{ID: "5202", Name: "jei-19.9.jar"}, jei.File)
		assert.Equal(t, "https://curseforge.com/projects/238222", jei.URL)
	})

	t.Run("should take pack metadata from an uncommitted pack.toml", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newPackRepo(t)
		repo.write(t, "pack.toml", fmt.Sprintf(packToml, "1.4.0", "21.1.80"))
		repo.commit(t, "bump to 1.4.0")
		repo.write(t, "pack.toml", fmt.Sprintf(packToml, "1.5.0", "21.1.90"))
		source := packwiz.NewManifestRepository(packwizSettings(repo.dir))

		// when
		current, err := source.Current(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", current.PackVersion)
		assert.Equal(t, "21.1.90", current.Loader.Version)
		assert.Empty(t, current.Dependencies)
	})

	t.Run("should report a directory outside git as a path error", func(t *testing.T) {
		t.Parallel()

		// given
		source := packwiz.NewManifestRepository(packwizSettings(t.TempDir()))

		// when
		err := source.Check(context.Background())

		// then
		require.ErrorIs(t, err, entities.ErrPath)
	})

	t.Run("should refuse an empty baseline revision", func(t *testing.T) {
		t.Parallel()

		// given
		source := packwiz.NewManifestRepository(packwizSettings(t.TempDir()))

		// when
		_, err := source.Baseline(context.Background(), "")

		// then
		require.ErrorIs(t, err, entities.ErrSourceUnavailable)
	})

	t.Run("should report an unknown revision as unavailable", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newPackRepo(t)
		repo.write(t, "pack.toml", fmt.Sprintf(packToml, "1.4.0", "21.1.80"))
		repo.commit(t, "initial")
		source := packwiz.NewManifestRepository(packwizSettings(repo.dir))

		// when
		_, err := source.Baseline(context.Background(), "does-not-exist")

		// then
		require.ErrorIs(t, err, entities.ErrSourceUnavailable)
	})
}

func TestParseMod(t *testing.T) {
	t.Parallel()

	t.Run("should key a mod without update sources by its file name", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("name = \"Local\"\nfilename = \"local.jar\"\n\n[download]\nurl = \"https://example.com/local.jar\"\nhash = \"ff\"\n")

		// when
		dep, err := packwiz.ParseMod(data)

		// then
		require.NoError(t, err)
		assert.Equal(t, "local.jar", dep.Key)
		assert.Equal(t, "https://example.com/local.jar", dep.URL)
		assert.Equal(t, "ff", dep.Hash)
	})

	t.Run("should prefer the curseforge source when both are declared", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`name = "Both"
filename = "both.jar"

[update.modrinth]
mod-id = "MR"
version = "v1"

[update.curseforge]
project-id = 42
file-id = 7
`)

		// when
		dep, err := packwiz.ParseMod(data)

		// then
		require.NoError(t, err)
		assert.Equal(t, "42", dep.Key)
		assert.Equal(t, "7", dep.File.ID)
		assert.Len(t, dep.Update.Sources, 2)
	})

	t.Run("should reject malformed TOML", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("name = ")

		// when
		_, err := packwiz.ParseMod(data)

		// then
		require.Error(t, err)
	})
}
