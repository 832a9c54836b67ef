//go:build unit

package gitlog_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/packlog/internal/infrastructure/repositories/gitlog"
)

func missingFromPath(string) (string, error) { return "", errors.New("not in PATH") }

func TestLocatorFind(t *testing.T) {
	t.Parallel()

	t.Run("should prefer the PATH lookup", func(t *testing.T) {
		t.Parallel()

		// given
		locator := gitlog.NewLocatorWith(
			func(name string) (string, error) { return "/custom/bin/" + name, nil },
			func(string) bool { return true },
			func() (string, error) { return "/home/test", nil },
			"linux",
		)

		// when
		path, err := locator.Find()

		// then
		require.NoError(t, err)
		assert.Equal(t, "/custom/bin/git", path)
	})

	t.Run("should fall back to a common unix location", func(t *testing.T) {
		t.Parallel()

		// given
		locator := gitlog.NewLocatorWith(
			missingFromPath,
			func(path string) bool { return path == "/opt/homebrew/bin/git" },
			func() (string, error) { return "/home/test", nil },
			"darwin",
		)

		// when
		path, err := locator.Find()

		// then
		require.NoError(t, err)
		assert.Equal(t, "/opt/homebrew/bin/git", path)
	})

	t.Run("should look in the user programs directory on windows", func(t *testing.T) {
		t.Parallel()

		// given
		home := filepath.Join("C:", "Users", "dev")
		expected := filepath.Join(home, "AppData", "Local", "Programs", "Git", "cmd", "git.exe")
		locator := gitlog.NewLocatorWith(
			missingFromPath,
			func(path string) bool { return path == expected },
			func() (string, error) { return home, nil },
			"windows",
		)

		// when
		path, err := locator.Find()

		// then
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})

	t.Run("should report when git is nowhere to be found", func(t *testing.T) {
		t.Parallel()

		// given
		locator := gitlog.NewLocatorWith(
			missingFromPath,
			func(string) bool { return false },
			func() (string, error) { return "", errors.New("no home") },
			"windows",
		)

		// when
		_, err := locator.Find()

		// then
		require.ErrorIs(t, err, gitlog.ErrGitNotFound)
	})
}
