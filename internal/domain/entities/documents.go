package entities

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	noFeatures   = "* No new features"
	noFixes      = "* No bug fixes"
	noMods       = "* No mods found"
	noAddedMods  = "* No new mods"
	noRemovedMod = "* No removed mods"
	noUpdatedMod = "* No updated mods"

	DefaultAuthorURL = "https://www.curseforge.com/members/{author}/projects"
)

// ListOrder selects the sort key of the dependency list.
type ListOrder string

const (
	ListOrderFileName ListOrder = "filename"
	ListOrderName     ListOrder = "name"
)

// Link is a labelled URL shown in a document header or footer.
type Link struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// RenderOptions carries the run metadata the documents are rendered with.
type RenderOptions struct {
	PackName   string
	OldVersion string
	NewVersion string

	// Broadcast renders the changelog for a chat announcement instead of a file.
	Broadcast bool
	Mention   string
	Emoji     string
	Links     []Link // footer, broadcast only

	HeaderLinks []Link // file mode only
	AuthorURL   string // template, {author} is replaced
	ListOrder   ListOrder
}

// Documents are the three rendered artifacts of a run.
type Documents struct {
	Changelog         string
	DependencyList    string
	DependencyChanges string
}

// RenderDocuments renders all three documents.
func RenderDocuments(
	classification Classification,
	diff DiffResult,
	baseline, current *Manifest,
	opts RenderOptions,
) Documents {
	return Documents{
		Changelog:         RenderChangelog(classification, diff, current, opts),
		DependencyList:    RenderDependencyList(current, opts),
		DependencyChanges: RenderDependencyChanges(diff, baseline, current, opts),
	}
}

// RenderChangelog renders the release changelog. Empty feature and fix sections keep a
// placeholder line; empty added and removed sections are left out.
func RenderChangelog(classification Classification, diff DiffResult, current *Manifest, opts RenderOptions) string {
	sections := []string{changelogTitle(opts)}

	if !opts.Broadcast {
		if header := headerLine(current, opts); header != "" {
			sections = append(sections, header)
		}
	}

	sections = append(sections, "### Changes/Improvements ⭐\n\n"+bullets(classification.Features, noFeatures))

	if len(diff.Added) > 0 {
		sections = append(sections, "### Added Mods ✅\n\n"+strings.Join(lo.Map(diff.Added, formatLinkItem), "\n"))
	}
	if len(diff.Removed) > 0 {
		sections = append(sections, "### Removed Mods ❌\n\n"+strings.Join(lo.Map(diff.Removed, formatLinkItem), "\n"))
	}

	sections = append(sections, "### Bug Fixes 🪲\n\n"+bullets(classification.Fixes, noFixes))

	if opts.Broadcast && len(opts.Links) > 0 {
		lines := lo.Map(opts.Links, func(link Link, _ int) string {
			return strings.TrimSpace(fmt.Sprintf("%s **[%s](%s)**", link.Icon, link.Label, expand(link.URL, opts)))
		})
		sections = append(sections, "### Links\n\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// RenderDependencyList renders every current dependency, sorted and labelled by file name or
// by display name.
func RenderDependencyList(current *Manifest, opts RenderOptions) string {
	deps := lo.Map(lo.Values(current.Dependencies), func(dep Dependency, _ int) Dependency {
		if opts.ListOrder != ListOrderName && dep.File.Name != "" {
			dep.Name = dep.File.Name
		}
		return dep
	})
	slices.SortFunc(deps, func(a, b Dependency) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), compareKeys(a.Key, b.Key))
	})

	lines := lo.Map(deps, func(dep Dependency, _ int) string {
		return FormatLinkWithAuthor(dep, opts.AuthorURL)
	})

	return fmt.Sprintf("# %s - v%s\n\n%s\n", opts.PackName, opts.NewVersion, bullets(lines, noMods))
}

// RenderDependencyChanges renders the per-release mod change log. Every section keeps a
// placeholder line when empty.
func RenderDependencyChanges(diff DiffResult, baseline, current *Manifest, opts RenderOptions) string {
	sections := []string{fmt.Sprintf("## %s - %s -> %s", opts.PackName, opts.OldVersion, opts.NewVersion)}

	if current.Loader.Version != "" && baseline.Loader.Version != current.Loader.Version {
		sections = append(sections, fmt.Sprintf(
			"### %s - %s -> %s", current.Loader.Name, baseline.Loader.Version, current.Loader.Version,
		))
	}

	withAuthor := func(dep Dependency, _ int) string { return FormatLinkWithAuthor(dep, opts.AuthorURL) }
	updated := lo.FilterMap(diff.Updated, func(change DependencyChange, _ int) (string, bool) {
		return FormatUpdateLink(change)
	})

	sections = append(sections,
		"### Added\n"+bullets(lo.Map(diff.Added, withAuthor), noAddedMods),
		"### Removed\n"+bullets(lo.Map(diff.Removed, withAuthor), noRemovedMod),
		"### Updated\n"+bullets(updated, noUpdatedMod),
	)

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatLink renders `* [name](url)`.
func FormatLink(dep Dependency) string {
	return fmt.Sprintf("* [%s](%s)", displayName(dep), dep.URL)
}

// FormatLinkWithAuthor renders the link followed by the author, when the author is known.
func FormatLinkWithAuthor(dep Dependency, authorURL string) string {
	if dep.Author == "" {
		return FormatLink(dep)
	}
	if authorURL == "" {
		authorURL = DefaultAuthorURL
	}
	return fmt.Sprintf("%s - (by [%s](%s))",
		FormatLink(dep), dep.Author, strings.ReplaceAll(authorURL, "{author}", dep.Author))
}

// FormatUpdateLink renders `* [old](oldURL) -> [new](newURL)`. It reports false when either
// file id is missing or both are the same.
func FormatUpdateLink(change DependencyChange) (string, bool) {
	oldFile, newFile := change.Old.File, change.New.File
	if oldFile.ID == "" || newFile.ID == "" || oldFile.ID == newFile.ID {
		return "", false
	}
	return fmt.Sprintf("* [%s](%s) -> [%s](%s)",
		oldFile.Name, change.Old.FileURL(), newFile.Name, change.New.FileURL()), true
}

// ExpandPlaceholders replaces {version}, {old_version} and {pack} in a template.
func ExpandPlaceholders(template, pack, oldVersion, newVersion string) string {
	return strings.NewReplacer(
		"{version}", newVersion,
		"{old_version}", oldVersion,
		"{pack}", pack,
	).Replace(template)
}

func expand(template string, opts RenderOptions) string {
	return ExpandPlaceholders(template, opts.PackName, opts.OldVersion, opts.NewVersion)
}

func changelogTitle(opts RenderOptions) string {
	title := fmt.Sprintf("%s | v%s", opts.PackName, opts.NewVersion)
	if !opts.Broadcast {
		return "# " + title
	}
	if opts.Emoji != "" {
		title = opts.Emoji + " " + title + " " + opts.Emoji
	}
	if opts.Mention != "" {
		return opts.Mention + "\n# " + title
	}
	return "# " + title
}

func headerLine(current *Manifest, opts RenderOptions) string {
	var parts []string
	if current.Loader.Name != "" {
		parts = append(parts, strings.TrimSpace("_"+current.Loader.Name+"_ "+current.Loader.Version))
	}
	for _, link := range opts.HeaderLinks {
		parts = append(parts, fmt.Sprintf("_[%s](%s)_", link.Label, expand(link.URL, opts)))
	}
	return strings.Join(parts, " | ")
}

func bullets(lines []string, placeholder string) string {
	if len(lines) == 0 {
		return placeholder
	}
	return strings.Join(lo.Map(lines, func(line string, _ int) string {
		if strings.HasPrefix(line, "* ") {
			return line
		}
		return "* " + line
	}), "\n")
}

func formatLinkItem(dep Dependency, _ int) string {
	return FormatLink(dep)
}

func displayName(dep Dependency) string {
	if dep.Name != "" {
		return dep.Name
	}
	return dep.File.Name
}

// DocumentKind names one of the three artifacts.
type DocumentKind string

const (
	DocumentChangelog         DocumentKind = "changelog"
	DocumentDependencyList    DocumentKind = "dependency list"
	DocumentDependencyChanges DocumentKind = "dependency changes"
)

// Document is a rendered artifact on its way to an output sink.
type Document struct {
	Kind    DocumentKind
	Path    string // Absolute destination, ignored by console sinks
	Content string
	Prepend bool // Place Content on top of an existing file instead of replacing it
}
