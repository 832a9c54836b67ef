package entities

import (
	"slices"

	"github.com/samber/lo"
)

// Loader describes the mod loader a pack is built on.
type Loader struct {
	Name    string // e.g. "NeoForge"
	Version string // e.g. "21.1.90"
}

// Manifest is a point-in-time snapshot of the installed dependencies of a pack.
type Manifest struct {
	PackName     string
	PackVersion  string
	Loader       Loader
	Dependencies map[string]Dependency
}

// NewManifest indexes the given dependencies by key. Later duplicates win.
func NewManifest(packName, packVersion string, loader Loader, deps []Dependency) *Manifest {
	return &Manifest{
		PackName:     packName,
		PackVersion:  packVersion,
		Loader:       loader,
		Dependencies: lo.Associate(deps, func(d Dependency) (string, Dependency) { return d.Key, d }),
	}
}

// Keys returns the dependency keys in identity order.
func (m *Manifest) Keys() []string {
	keys := lo.Keys(m.Dependencies)
	slices.SortFunc(keys, compareKeys)
	return keys
}
