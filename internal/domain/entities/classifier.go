package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/samber/lo"
)

// RuleStyle selects how commits are sorted into categories.
type RuleStyle string

const (
	// RuleStyleKeyword matches lowercase substrings anywhere in the commit text.
	RuleStyleKeyword RuleStyle = "keyword"
	// RuleStyleConventional matches anchored conventional-commit prefixes.
	RuleStyleConventional RuleStyle = "conventional"
)

const (
	DefaultFeaturePattern = `^feat(?:\((?!(?:dev|debug)\))[^)]*\))?!?:\s*`
	DefaultFixPattern     = `^fix(?:\((?!(?:dev|debug)\))[^)]*\))?!?:\s*`
	DefaultFixMarker      = "Fixed"

	patternTimeout = time.Second
)

// ClassificationRules is the configured rule set of the classifier.
type ClassificationRules struct {
	Style          RuleStyle `yaml:"style"`
	Features       []string  `yaml:"features"`
	Fixes          []string  `yaml:"fixes"`
	Exclude        []string  `yaml:"exclude"`
	FeaturePattern string    `yaml:"feature_pattern"`
	FixPattern     string    `yaml:"fix_pattern"`
	FixMarker      string    `yaml:"fix_marker"`
}

// DefaultClassificationRules returns the keyword rule set the pack has always used.
func DefaultClassificationRules() ClassificationRules {
	return ClassificationRules{
		Style:          RuleStyleKeyword,
		Features:       []string{"add", "implement", "feature", "feat", "chapter"},
		Fixes:          []string{"fix", "bug", "resolve", "patch"},
		Exclude:        []string{"vscode", "config", "sure", "revert", "lab", "dev", "nope", "nuh", "ugh"},
		FeaturePattern: DefaultFeaturePattern,
		FixPattern:     DefaultFixPattern,
		FixMarker:      DefaultFixMarker,
	}
}

// Classification holds the formatted feature and fix lines, in commit order.
type Classification struct {
	Features []string
	Fixes    []string
}

// categoryMatcher decides whether a commit belongs to a category and returns the text left
// once the category prefix is stripped.
type categoryMatcher interface {
	match(text string) (string, bool)
}

// Classifier sorts commits into features and fixes.
type Classifier struct {
	exclude   []string
	features  categoryMatcher
	fixes     categoryMatcher
	fixMarker string
	names     NameTable
}

// NewClassifier compiles the rule set. It only fails on invalid patterns.
func NewClassifier(rules ClassificationRules, names NameTable) (*Classifier, error) {
	compiledNames, err := names.Compile()
	if err != nil {
		return nil, err
	}

	classifier := &Classifier{
		exclude:   lowerAll(rules.Exclude),
		fixMarker: rules.FixMarker,
		names:     compiledNames,
	}

	switch rules.Style {
	case RuleStyleKeyword, "":
		if classifier.features, err = newKeywordMatcher(rules.Features); err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		if classifier.fixes, err = newKeywordMatcher(rules.Fixes); err != nil {
			return nil, fmt.Errorf("fixes: %w", err)
		}
	case RuleStyleConventional:
		if classifier.features, err = newConventionalMatcher(
			lo.Ternary(rules.FeaturePattern == "", DefaultFeaturePattern, rules.FeaturePattern),
		); err != nil {
			return nil, fmt.Errorf("feature_pattern: %w", err)
		}
		if classifier.fixes, err = newConventionalMatcher(
			lo.Ternary(rules.FixPattern == "", DefaultFixPattern, rules.FixPattern),
		); err != nil {
			return nil, fmt.Errorf("fix_pattern: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown classification style %q", rules.Style)
	}

	return classifier, nil
}

// Classify partitions commits into features and fixes. Excluded commits appear nowhere.
func (c *Classifier) Classify(commits []Commit) Classification {
	result := Classification{}
	for _, commit := range commits {
		text := commit.Text()
		if c.excluded(text) {
			continue
		}
		if rest, ok := c.features.match(text); ok {
			result.Features = append(result.Features, c.format(rest, ""))
		}
		if rest, ok := c.fixes.match(text); ok {
			result.Fixes = append(result.Fixes, c.format(rest, c.fixMarker))
		}
	}
	return result
}

func (c *Classifier) excluded(text string) bool {
	lower := strings.ToLower(text)
	return lo.SomeBy(c.exclude, func(word string) bool {
		return word != "" && strings.Contains(lower, word)
	})
}

func (c *Classifier) format(rest, marker string) string {
	text := strings.TrimSpace(c.names.Apply(rest))
	if marker != "" {
		text = strings.TrimSpace(marker + " " + text)
	}
	return capitalize(text)
}

type keywordMatcher struct {
	keywords []string
	prefix   *regexp.Regexp
}

func newKeywordMatcher(keywords []string) (*keywordMatcher, error) {
	lowered := lo.Filter(lowerAll(keywords), func(word string, _ int) bool { return word != "" })
	matcher := &keywordMatcher{keywords: lowered}
	if len(lowered) == 0 {
		return matcher, nil
	}

	quoted := lo.Map(lowered, func(word string, _ int) string { return regexp.QuoteMeta(word) })
	prefix, err := regexp.Compile(`(?i)^(?:` + strings.Join(quoted, "|") + `):?`)
	if err != nil {
		return nil, err
	}
	matcher.prefix = prefix
	return matcher, nil
}

func (m *keywordMatcher) match(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !lo.SomeBy(m.keywords, func(word string) bool { return strings.Contains(lower, word) }) {
		return "", false
	}
	if loc := m.prefix.FindStringIndex(text); loc != nil {
		return text[loc[1]:], true
	}
	return text, true
}

type conventionalMatcher struct {
	pattern *regexp2.Regexp
}

func newConventionalMatcher(pattern string) (*conventionalMatcher, error) {
	compiled, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	compiled.MatchTimeout = patternTimeout
	return &conventionalMatcher{pattern: compiled}, nil
}

func (m *conventionalMatcher) match(text string) (string, bool) {
	found, err := m.pattern.FindStringMatch(text)
	if err != nil || found == nil || found.Index != 0 {
		return "", false
	}
	// regexp2 reports rune offsets
	return string([]rune(text)[found.Length:]), true
}

func lowerAll(words []string) []string {
	return lo.Map(words, func(word string, _ int) string { return strings.ToLower(word) })
}

func capitalize(text string) string {
	first, size := utf8.DecodeRuneInString(text)
	if first == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(first)) + text[size:]
}
