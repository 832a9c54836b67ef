//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/test/domain/entitybuilders"
)

func depWithHash(key, hash string) entities.Dependency {
	return entitybuilders.NewDependencyBuilder().
		WithKey(key).
		WithName("Mod " + key).
		WithHash(hash).
		BuildDependency()
}

func index(deps ...entities.Dependency) map[string]entities.Dependency {
	result := make(map[string]entities.Dependency, len(deps))
	for _, dep := range deps {
		result[dep.Key] = dep
	}
	return result
}

func keysOf(deps []entities.Dependency) []string {
	keys := make([]string, 0, len(deps))
	for _, dep := range deps {
		keys = append(keys, dep.Key)
	}
	return keys
}

func TestDiff(t *testing.T) {
	t.Parallel()

	t.Run("should report added and removed keys when one dependency is swapped", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := index(depWithHash("A", "h1"), depWithHash("B", "h2"))
		current := index(depWithHash("A", "h1"), depWithHash("C", "h3"))

		// when
		result := entities.Diff(baseline, current, entities.SameInstalledFile)

		// then
		assert.Equal(t, []string{"C"}, keysOf(result.Added))
		assert.Equal(t, []string{"B"}, keysOf(result.Removed))
		assert.Empty(t, result.Updated)
		assert.Empty(t, result.Incomplete)
	})

	t.Run("should return an empty result when a snapshot is diffed with itself", func(t *testing.T) {
		t.Parallel()

		// given
		snapshot := index(depWithHash("1", "a"), depWithHash("2", "b"), depWithHash("3", "c"))

		// when
		result := entities.Diff(snapshot, snapshot, nil)

		// then
		assert.True(t, result.IsEmpty())
		assert.Empty(t, result.Incomplete)
	})

	t.Run("should report a dependency as updated when its hash changed", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := index(depWithHash("A", "h1"))
		current := index(depWithHash("A", "h9"))

		// when
		result := entities.Diff(baseline, current, nil)

		// then
		require.Len(t, result.Updated, 1)
		assert.Equal(t, "h1", result.Updated[0].Old.Hash)
		assert.Equal(t, "h9", result.Updated[0].New.Hash)
		assert.Empty(t, result.Added)
		assert.Empty(t, result.Removed)
	})

	t.Run("should fall back to file ids when hashes are missing", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewDependencyBuilder().WithKey("238222")
		baseline := index(builder.WithFile("100", "jei-1.jar").BuildDependency())
		current := index(builder.WithFile("200", "jei-2.jar").BuildDependency())

		// when
		result := entities.Diff(baseline, current, nil)

		// then
		require.Len(t, result.Updated, 1)
		assert.Equal(t, "jei-1.jar", result.Updated[0].Old.File.Name)
		assert.Equal(t, "jei-2.jar", result.Updated[0].New.File.Name)
	})

	t.Run("should list keys without file identity as incomplete instead of updated", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewDependencyBuilder().WithKey("7")
		baseline := index(builder.WithFile("", "mod.jar").BuildDependency())
		current := index(builder.WithFile("42", "mod.jar").BuildDependency())

		// when
		result := entities.Diff(baseline, current, nil)

		// then
		assert.True(t, result.IsEmpty())
		assert.Equal(t, []string{"7"}, result.Incomplete)
	})

	t.Run("should keep the three change sets disjoint", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := index(depWithHash("1", "a"), depWithHash("2", "b"), depWithHash("3", "c"))
		current := index(depWithHash("2", "b2"), depWithHash("3", "c"), depWithHash("4", "d"))

		// when
		result := entities.Diff(baseline, current, nil)

		// then
		seen := map[string]int{}
		for _, key := range keysOf(result.Added) {
			seen[key]++
		}
		for _, key := range keysOf(result.Removed) {
			seen[key]++
		}
		for _, change := range result.Updated {
			seen[change.New.Key]++
		}
		assert.Equal(t, map[string]int{"1": 1, "2": 1, "4": 1}, seen)
	})

	t.Run("should order numeric keys numerically", func(t *testing.T) {
		t.Parallel()

		// given
		current := index(depWithHash("100", "x"), depWithHash("9", "y"), depWithHash("25", "z"))

		// when
		result := entities.Diff(map[string]entities.Dependency{}, current, nil)

		// then
		assert.Equal(t, []string{"9", "25", "100"}, keysOf(result.Added))
	})

	t.Run("should not modify its inputs", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := index(depWithHash("A", "h1"))
		current := index(depWithHash("B", "h2"))

		// when
		_ = entities.Diff(baseline, current, nil)

		// then
		assert.Len(t, baseline, 1)
		assert.Len(t, current, 1)
		assert.Contains(t, baseline, "A")
		assert.Contains(t, current, "B")
	})

	t.Run("should use the given equality function", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := index(depWithHash("A", "h1"))
		current := index(depWithHash("A", "h2"))
		alwaysEqual := func(_, _ entities.Dependency) bool { return true }

		// when
		result := entities.Diff(baseline, current, alwaysEqual)

		// then
		assert.True(t, result.IsEmpty())
	})
}

func TestSameInstalledFile(t *testing.T) {
	t.Parallel()

	t.Run("should prefer hashes over file ids", func(t *testing.T) {
		t.Parallel()

		// given
		old := entitybuilders.NewDependencyBuilder().WithFile("1", "a.jar").WithHash("same").BuildDependency()
		current := entitybuilders.NewDependencyBuilder().WithFile("2", "b.jar").WithHash("same").BuildDependency()

		// when
		same := entities.SameInstalledFile(old, current)

		// then
		assert.True(t, same)
	})

	t.Run("should treat dependencies without any identity as equal", func(t *testing.T) {
		t.Parallel()

		// given
		old := entitybuilders.NewDependencyBuilder().WithFile("", "a.jar").BuildDependency()
		current := entitybuilders.NewDependencyBuilder().WithFile("", "b.jar").BuildDependency()

		// when
		same := entities.SameInstalledFile(old, current)

		// then
		assert.True(t, same)
	})
}
