package entities

import (
	"strconv"
	"strings"
)

const (
	SourceCurseForge = "curseforge"
	SourceModrinth   = "modrinth"
)

// sourcePriority is the order in which update sources are considered authoritative.
// Providers outside this list rank after it, in declaration order.
var sourcePriority = []string{SourceCurseForge, SourceModrinth} //nolint:gochecknoglobals // fixed lookup table

// InstalledFile identifies the concrete file installed for a dependency.
type InstalledFile struct {
	ID   string // Provider file id, empty when unknown
	Name string // File name on disk
}

// UpdateSource is one place a dependency can be updated from.
type UpdateSource struct {
	Provider  string // "curseforge", "modrinth", ...
	ProjectID string
	FileID    string
}

// UpdateDescriptor lists the alternative update sources of a dependency in declaration order.
type UpdateDescriptor struct {
	Sources []UpdateSource
}

// Primary returns the authoritative update source and whether one exists.
func (d UpdateDescriptor) Primary() (UpdateSource, bool) {
	for _, provider := range sourcePriority {
		for _, source := range d.Sources {
			if source.Provider == provider {
				return source, true
			}
		}
	}
	if len(d.Sources) > 0 {
		return d.Sources[0], true
	}
	return UpdateSource{}, false
}

// Dependency is one entry of a manifest snapshot (a mod).
type Dependency struct {
	Key    string // Identity, unique within a snapshot
	Name   string // Display name
	URL    string // Project page
	Author string // Primary author, empty when the source does not carry it
	File   InstalledFile
	Hash   string // Content hash of the installed file, empty when unknown
	Update UpdateDescriptor
}

// HasFileIdentity reports whether the dependency carries anything to compare versions with.
func (d Dependency) HasFileIdentity() bool {
	return d.Hash != "" || d.File.ID != ""
}

// FileURL returns the page of the installed file, or an empty string when the file id is unknown.
func (d Dependency) FileURL() string {
	if d.File.ID == "" {
		return ""
	}
	base := strings.TrimSuffix(d.URL, "/")
	if primary, ok := d.Update.Primary(); ok && primary.Provider == SourceModrinth {
		return base + "/version/" + d.File.ID
	}
	return base + "/files/" + d.File.ID
}

// ProjectURL builds the public project page for an update source.
func ProjectURL(source UpdateSource) string {
	switch source.Provider {
	case SourceCurseForge:
		return "https://curseforge.com/projects/" + source.ProjectID
	case SourceModrinth:
		return "https://modrinth.com/mod/" + source.ProjectID
	default:
		return ""
	}
}

// compareKeys orders identity keys numerically when both are integers, lexically otherwise.
func compareKeys(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
