package entities

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// NameSubstitution replaces a VCS author handle with a display name.
type NameSubstitution struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Regex bool   `yaml:"regex"` // treat From as a regular expression

	pattern *regexp.Regexp
}

// NameTable is an ordered list of substitutions, applied in definition order.
type NameTable []NameSubstitution

// NewNameTable builds a table of literal substitutions from (from, to) pairs.
func NewNameTable(pairs ...string) NameTable {
	table := make(NameTable, 0, len(pairs)/2) //nolint:mnd // pairs
	for i := 0; i+1 < len(pairs); i += 2 {
		table = append(table, NameSubstitution{From: pairs[i], To: pairs[i+1]})
	}
	return table
}

// UnmarshalYAML accepts either a mapping (`handle: Display`, document order kept) or a
// sequence of {from, to, regex} entries.
func (t *NameTable) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		table := make(NameTable, 0, len(node.Content)/2) //nolint:mnd // key/value pairs
		for i := 0; i+1 < len(node.Content); i += 2 {
			table = append(table, NameSubstitution{
				From: node.Content[i].Value,
				To:   node.Content[i+1].Value,
			})
		}
		*t = table
		return nil
	case yaml.SequenceNode:
		var entries []NameSubstitution
		if err := node.Decode(&entries); err != nil {
			return err
		}
		*t = entries
		return nil
	default:
		return fmt.Errorf("names: expected a mapping or a list at line %d", node.Line)
	}
}

// Compile prepares the regex entries. Literal entries need no preparation.
func (t NameTable) Compile() (NameTable, error) {
	compiled := make(NameTable, len(t))
	for i, entry := range t {
		if entry.Regex {
			pattern, err := regexp.Compile(entry.From)
			if err != nil {
				return nil, fmt.Errorf("names[%d]: invalid pattern %q: %w", i, entry.From, err)
			}
			entry.pattern = pattern
		}
		compiled[i] = entry
	}
	return compiled, nil
}

// Apply runs every substitution over text in order. Later entries see the output of
// earlier ones.
func (t NameTable) Apply(text string) string {
	for _, entry := range t {
		if entry.From == "" {
			continue
		}
		if entry.Regex {
			pattern := entry.pattern
			if pattern == nil {
				var err error
				if pattern, err = regexp.Compile(entry.From); err != nil {
					continue
				}
			}
			text = pattern.ReplaceAllLiteralString(text, entry.To)
			continue
		}
		text = strings.ReplaceAll(text, entry.From, entry.To)
	}
	return text
}
