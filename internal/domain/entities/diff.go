package entities

import (
	"slices"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"
)

// EqualFunc reports whether two versions of the same dependency are the same install.
type EqualFunc func(old, current Dependency) bool

// DependencyChange pairs the baseline and current versions of an updated dependency.
type DependencyChange struct {
	Old Dependency
	New Dependency
}

// DiffResult holds the changes between two snapshots. Each slice is ordered by identity key.
type DiffResult struct {
	Added   []Dependency
	Removed []Dependency
	Updated []DependencyChange

	// Incomplete lists keys present on both sides that could not be compared because a
	// file identity was missing. They are treated as unchanged.
	Incomplete []string
}

// IsEmpty reports whether nothing was added, removed or updated.
func (r DiffResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Updated) == 0
}

// SameInstalledFile compares content hashes when both sides carry one, otherwise installed
// file ids. Dependencies that cannot be compared are reported as equal.
func SameInstalledFile(old, current Dependency) bool {
	if old.Hash != "" && current.Hash != "" {
		return old.Hash == current.Hash
	}
	if old.File.ID != "" && current.File.ID != "" {
		return old.File.ID == current.File.ID
	}
	return true
}

// Diff computes the added, removed and updated dependencies between a baseline and a current
// collection. A nil equals uses SameInstalledFile. Neither input is modified.
func Diff(baseline, current map[string]Dependency, equals EqualFunc) DiffResult {
	if equals == nil {
		equals = SameInstalledFile
	}

	baselineKeys := set.From(lo.Keys(baseline))
	currentKeys := set.From(lo.Keys(current))

	result := DiffResult{}

	for _, key := range sortedKeys(current) {
		dep := current[key]
		if !baselineKeys.Contains(key) {
			result.Added = append(result.Added, dep)
			continue
		}

		old := baseline[key]
		if !old.HasFileIdentity() || !dep.HasFileIdentity() {
			result.Incomplete = append(result.Incomplete, key)
			continue
		}
		if !equals(old, dep) {
			result.Updated = append(result.Updated, DependencyChange{Old: old, New: dep})
		}
	}

	for _, key := range sortedKeys(baseline) {
		if !currentKeys.Contains(key) {
			result.Removed = append(result.Removed, baseline[key])
		}
	}

	return result
}

func sortedKeys(deps map[string]Dependency) []string {
	keys := lo.Keys(deps)
	slices.SortFunc(keys, compareKeys)
	return keys
}
