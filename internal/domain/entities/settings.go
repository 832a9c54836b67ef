package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	SourceTypeInstance = "instance"
	SourceTypePackwiz  = "packwiz"

	HistoryBackendGoGit = "gogit"
	HistoryBackendExec  = "exec"

	OutputModeFile   = "file"
	OutputModeStdout = "stdout"

	// DateLayout is the layout of history.since.
	DateLayout = "2006-01-02"

	defaultGameID = 432
)

// Settings is the resolved configuration of one run. It is built once and never modified;
// WithOverrides returns a new value.
type Settings struct {
	Pack           PackSettings        `yaml:"pack"`
	Repository     RepositorySettings  `yaml:"repository"`
	Version        VersionSettings     `yaml:"version"`
	History        HistorySettings     `yaml:"history"`
	Source         SourceSettings      `yaml:"source"`
	Output         OutputSettings      `yaml:"output"`
	Render         RenderSettings      `yaml:"render"`
	Names          NameTable           `yaml:"names"`
	Classification ClassificationRules `yaml:"classification"`
	Bump           BumpSettings        `yaml:"bump"`
}

// PackSettings names the pack. An empty name is taken from the current manifest.
type PackSettings struct {
	Name string `yaml:"name"`
}

// RepositorySettings points at the pack repository.
type RepositorySettings struct {
	Path   string `yaml:"path"`
	Branch string `yaml:"branch"`
}

// VersionSettings pins the version labels. Empty labels are read from the snapshots.
type VersionSettings struct {
	Old         string `yaml:"old"`
	New         string `yaml:"new"`
	BumpPattern string `yaml:"bump_pattern"` // subject pattern of version bump commits
}

// HistorySettings selects the commit range and how it is read.
type HistorySettings struct {
	Backend       string `yaml:"backend"`        // "gogit" or "exec"
	Cutoff        string `yaml:"cutoff"`         // exclusive lower bound revision
	Since         string `yaml:"since"`          // date cutoff, YYYY-MM-DD
	IncludeAuthor bool   `yaml:"include_author"` // append `author` to each commit
}

// SourceSettings describes where manifest snapshots come from.
type SourceSettings struct {
	Type         string `yaml:"type"`          // "packwiz" or "instance"
	PackFile     string `yaml:"pack_file"`     // packwiz
	ModsDir      string `yaml:"mods_dir"`      // packwiz
	Path         string `yaml:"path"`          // instance: current manifest
	GameID       int    `yaml:"game_id"`       // instance
	RemoteURL    string `yaml:"remote_url"`    // instance: baseline, {branch} is replaced
	RemoteBranch string `yaml:"remote_branch"` // instance
	BaselinePath string `yaml:"baseline_path"` // instance: local fallback
}

// OutputSettings describes where documents go. Paths accept {version}.
type OutputSettings struct {
	Mode              string `yaml:"mode"` // "file" or "stdout"
	Changelog         string `yaml:"changelog"`
	DependencyList    string `yaml:"dependency_list"`
	DependencyChanges string `yaml:"dependency_changes"`
	PrependChangelog  bool   `yaml:"prepend_changelog"`
}

// RenderSettings holds document decoration.
type RenderSettings struct {
	AuthorURL   string            `yaml:"author_url"`
	ListOrder   ListOrder         `yaml:"list_order"`
	HeaderLinks []Link            `yaml:"header_links"`
	Broadcast   BroadcastSettings `yaml:"broadcast"`
}

// BroadcastSettings decorates the changelog when it is printed for an announcement.
type BroadcastSettings struct {
	Mention string `yaml:"mention"`
	Emoji   string `yaml:"emoji"`
	Links   []Link `yaml:"links"`
}

// BumpSettings lists the files the bump command rewrites.
type BumpSettings struct {
	Files []BumpFile `yaml:"files"`
}

// BumpFile is one file rewritten on a version bump.
type BumpFile struct {
	Path         string        `yaml:"path"`
	Replacements []Replacement `yaml:"replacements"`
}

// Replacement rewrites every match of Pattern with Value; Value accepts {version} and
// {old_version}.
type Replacement struct {
	Pattern string `yaml:"pattern"`
	Value   string `yaml:"value"`
}

// Overrides are the CLI flags that take precedence over the configuration file.
type Overrides struct {
	RepoPath   string
	Branch     string
	OldVersion string
	NewVersion string
	Cutoff     string
	Since      string
	Stdout     bool
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Repository: RepositorySettings{Path: ".", Branch: "HEAD"},
		Version:    VersionSettings{BumpPattern: `(?i)\bbump`},
		History:    HistorySettings{Backend: HistoryBackendGoGit, IncludeAuthor: true},
		Source: SourceSettings{
			Type:         SourceTypePackwiz,
			PackFile:     "pack.toml",
			ModsDir:      "mods",
			Path:         "minecraftinstance.json",
			GameID:       defaultGameID,
			RemoteBranch: "main",
		},
		Output: OutputSettings{
			Mode:              OutputModeFile,
			Changelog:         filepath.Join("changelogs", "CHANGELOG.md"),
			DependencyList:    filepath.Join("changelogs", "modlist_{version}.md"),
			DependencyChanges: filepath.Join("changelogs", "changelog_mods_{version}.md"),
			PrependChangelog:  true,
		},
		Render: RenderSettings{
			AuthorURL: DefaultAuthorURL,
			ListOrder: ListOrderFileName,
		},
		Classification: DefaultClassificationRules(),
		Bump: BumpSettings{
			Files: []BumpFile{{
				Path: filepath.Join("automation", "settings.ps1"),
				Replacements: []Replacement{
					{Pattern: `\$MODPACK_VERSION\s*=\s*".*?"`, Value: `$MODPACK_VERSION = "{version}"`},
					{Pattern: `\$LAST_MODPACK_VERSION\s*=\s*".*?"`, Value: `$LAST_MODPACK_VERSION = "{old_version}"`},
				},
			}},
		},
	}
}

// NewSettings reads a configuration file over the defaults, expanding ${ENV_VAR}
// references. An empty path yields the defaults.
func NewSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, settings.Validate()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: config file %q does not exist", ErrPath, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal([]byte(expandEnv(string(data))), settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
		"automation",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".packlog.yaml",
		".packlog.yml",
		"packlog.yaml",
		"packlog.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// WithOverrides returns a copy of the settings with the non-empty overrides applied.
func (s *Settings) WithOverrides(o Overrides) *Settings {
	copied := *s
	if o.RepoPath != "" {
		copied.Repository.Path = o.RepoPath
	}
	if o.Branch != "" {
		copied.Repository.Branch = o.Branch
	}
	if o.OldVersion != "" {
		copied.Version.Old = o.OldVersion
	}
	if o.NewVersion != "" {
		copied.Version.New = o.NewVersion
	}
	if o.Cutoff != "" {
		copied.History.Cutoff = o.Cutoff
	}
	if o.Since != "" {
		copied.History.Since = o.Since
	}
	if o.Stdout {
		copied.Output.Mode = OutputModeStdout
	}
	return &copied
}

// SinceTime parses history.since; nil when unset.
func (s *Settings) SinceTime() (*time.Time, error) {
	if s.History.Since == "" {
		return nil, nil //nolint:nilnil // unset is not an error
	}
	since, err := time.ParseInLocation(DateLayout, s.History.Since, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: history.since %q is not a %s date", ErrConfiguration, s.History.Since, DateLayout)
	}
	return &since, nil
}

// ResolvePath makes a path relative to the repository root absolute.
func (s *Settings) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Repository.Path, path)
}

// IsStdout reports whether documents are printed instead of written.
func (s *Settings) IsStdout() bool {
	return s.Output.Mode == OutputModeStdout
}

// RenderOptions builds the renderer input for a resolved release.
func (s *Settings) RenderOptions(packName string, bump VersionBump) RenderOptions {
	return RenderOptions{
		PackName:    packName,
		OldVersion:  bump.Old,
		NewVersion:  bump.New,
		Broadcast:   s.IsStdout(),
		Mention:     s.Render.Broadcast.Mention,
		Emoji:       s.Render.Broadcast.Emoji,
		Links:       s.Render.Broadcast.Links,
		HeaderLinks: s.Render.HeaderLinks,
		AuthorURL:   s.Render.AuthorURL,
		ListOrder:   s.Render.ListOrder,
	}
}

// Validate checks for required and well-formed configuration values.
func (s *Settings) Validate() error {
	if !slices.Contains([]string{SourceTypePackwiz, SourceTypeInstance}, s.Source.Type) {
		return fmt.Errorf("source.type must be %q or %q, got %q", SourceTypePackwiz, SourceTypeInstance, s.Source.Type)
	}
	if !slices.Contains([]string{HistoryBackendGoGit, HistoryBackendExec}, s.History.Backend) {
		return fmt.Errorf("history.backend must be %q or %q, got %q",
			HistoryBackendGoGit, HistoryBackendExec, s.History.Backend)
	}
	if !slices.Contains([]string{OutputModeFile, OutputModeStdout}, s.Output.Mode) {
		return fmt.Errorf("output.mode must be %q or %q, got %q", OutputModeFile, OutputModeStdout, s.Output.Mode)
	}
	if !slices.Contains([]RuleStyle{RuleStyleKeyword, RuleStyleConventional}, s.Classification.Style) {
		return fmt.Errorf("classification.style must be %q or %q, got %q",
			RuleStyleKeyword, RuleStyleConventional, s.Classification.Style)
	}
	if !slices.Contains([]ListOrder{ListOrderFileName, ListOrderName}, s.Render.ListOrder) {
		return fmt.Errorf("render.list_order must be %q or %q, got %q",
			ListOrderFileName, ListOrderName, s.Render.ListOrder)
	}
	if _, err := s.SinceTime(); err != nil {
		return err
	}
	if _, err := regexp.Compile(s.Version.BumpPattern); err != nil {
		return fmt.Errorf("version.bump_pattern: %w", err)
	}

	if s.Source.Type == SourceTypeInstance {
		if s.Source.Path == "" {
			return errors.New("source.path is required for instance sources")
		}
		if s.Source.GameID <= 0 {
			return fmt.Errorf("source.game_id must be positive, got %d", s.Source.GameID)
		}
	}
	if s.Output.Mode == OutputModeFile &&
		(s.Output.Changelog == "" || s.Output.DependencyList == "" || s.Output.DependencyChanges == "") {
		return errors.New("output.changelog, output.dependency_list and output.dependency_changes are required")
	}

	for i, file := range s.Bump.Files {
		if file.Path == "" {
			return fmt.Errorf("bump.files[%d].path is required", i)
		}
		for j, replacement := range file.Replacements {
			if _, err := regexp.Compile(replacement.Pattern); err != nil {
				return fmt.Errorf("bump.files[%d].replacements[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

// expandEnv expands ${ENV_VAR} references. Unset variables expand to an empty string.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
