package entities

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionBump is the pair of pack versions a release goes between.
type VersionBump struct {
	Old string
	New string
}

// Validate fails when the versions do not describe a release.
func (b VersionBump) Validate() error {
	if strings.TrimSpace(b.New) == "" || strings.TrimSpace(b.Old) == "" {
		return fmt.Errorf("%w: pack versions could not be resolved (old %q, new %q)", ErrConfiguration, b.Old, b.New)
	}
	if normalizeVersion(b.Old) == normalizeVersion(b.New) {
		return fmt.Errorf("%w: pack version %s was not bumped", ErrConfiguration, b.New)
	}
	return nil
}

// IsForward reports whether the new version is newer than the old one. Versions that are
// not semver fall back to a string comparison.
func (b VersionBump) IsForward() bool {
	return IsNewerVersion(b.Old, b.New)
}

// IsNewerVersion compares two version strings and returns true if newVersion is newer.
func IsNewerVersion(currentVersion, newVersion string) bool {
	current := normalizeVersion(currentVersion)
	next := normalizeVersion(newVersion)

	if semver.IsValid(current) && semver.IsValid(next) {
		return semver.Compare(next, current) > 0
	}

	return newVersion > currentVersion
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
