//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/packlog/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestBuilder helps create manifest snapshots with a fluent interface.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	packName    string
	packVersion string
	loader      entities.Loader
	deps        []entities.Dependency
}

func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		packName:    "Test Pack",
		packVersion: "1.0.0",
		loader:      entities.Loader{Name: "NeoForge", Version: "21.1.90"},
	}
}

func (b *ManifestBuilder) WithPackName(name string) *ManifestBuilder {
	b.packName = name
	return b
}

func (b *ManifestBuilder) WithPackVersion(version string) *ManifestBuilder {
	b.packVersion = version
	return b
}

func (b *ManifestBuilder) WithLoader(name, version string) *ManifestBuilder {
	b.loader = entities.Loader{Name: name, Version: version}
	return b
}

func (b *ManifestBuilder) WithDependency(dep entities.Dependency) *ManifestBuilder {
	b.deps = append(b.deps, dep)
	return b
}

func (b *ManifestBuilder) Build() interface{} {
	return b.BuildManifest()
}

func (b *ManifestBuilder) BuildManifest() *entities.Manifest {
	return entities.NewManifest(b.packName, b.packVersion, b.loader, b.deps)
}

func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.packName = "Test Pack"
	b.packVersion = "1.0.0"
	b.loader = entities.Loader{Name: "NeoForge", Version: "21.1.90"}
	b.deps = nil
	return b
}

func (b *ManifestBuilder) Clone() testkit.Builder {
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		packName:    b.packName,
		packVersion: b.packVersion,
		loader:      b.loader,
		deps:        append([]entities.Dependency(nil), b.deps...),
	}
}
