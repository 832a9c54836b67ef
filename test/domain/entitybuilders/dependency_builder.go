//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/packlog/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	key      string
	name     string
	url      string
	author   string
	fileID   string
	fileName string
	hash     string
	sources  []entities.UpdateSource
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	b := &DependencyBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.defaults()
	return b
}

func (b *DependencyBuilder) defaults() {
	b.key = "1000"
	b.name = "Test Mod"
	b.url = "https://www.curseforge.com/minecraft/mc-mods/test-mod"
	b.author = ""
	b.fileID = "5000"
	b.fileName = "test-mod-1.0.0.jar"
	b.hash = ""
	b.sources = nil
}

// WithKey sets the identity key.
func (b *DependencyBuilder) WithKey(key string) *DependencyBuilder {
	b.key = key
	return b
}

// WithName sets the display name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithURL sets the project page.
func (b *DependencyBuilder) WithURL(url string) *DependencyBuilder {
	b.url = url
	return b
}

// WithAuthor sets the primary author.
func (b *DependencyBuilder) WithAuthor(author string) *DependencyBuilder {
	b.author = author
	return b
}

// WithFile sets the installed file id and name.
func (b *DependencyBuilder) WithFile(id, name string) *DependencyBuilder {
	b.fileID = id
	b.fileName = name
	return b
}

// WithHash sets the content hash of the installed file.
func (b *DependencyBuilder) WithHash(hash string) *DependencyBuilder {
	b.hash = hash
	return b
}

// WithUpdateSource appends an update source.
func (b *DependencyBuilder) WithUpdateSource(provider, projectID, fileID string) *DependencyBuilder {
	b.sources = append(b.sources, entities.UpdateSource{Provider: provider, ProjectID: projectID, FileID: fileID})
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	return entities.Dependency{
		Key:    b.key,
		Name:   b.name,
		URL:    b.url,
		Author: b.author,
		File:   entities.InstalledFile{ID: b.fileID, Name: b.fileName},
		Hash:   b.hash,
		Update: entities.UpdateDescriptor{Sources: append([]entities.UpdateSource(nil), b.sources...)},
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.defaults()
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		key:         b.key,
		name:        b.name,
		url:         b.url,
		author:      b.author,
		fileID:      b.fileID,
		fileName:    b.fileName,
		hash:        b.hash,
		sources:     append([]entities.UpdateSource(nil), b.sources...),
	}
}
