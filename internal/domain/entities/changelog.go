package entities

import "strings"

const (
	titlePrefix    = "# "
	entrySeparator = "---"
)

// PrependChangelogEntry places a new release entry on top of an existing changelog.
//
// Behaviour:
//   - If the existing content is blank, the entry is returned on its own.
//   - If the content starts with a "# " title followed by blank lines, the entry is
//     placed right after that title block.
//   - Otherwise the entry is placed at the very top.
//
// The entry and the older releases, when there are any, are separated by a "---" line.
func PrependChangelogEntry(existing, entry string) string {
	entry = strings.TrimRight(entry, "\n")
	if strings.TrimSpace(existing) == "" {
		return entry + "\n"
	}

	lines := strings.Split(existing, "\n")
	at := findEntryInsertIndex(lines)

	block := strings.Split(entry, "\n")
	if hasContent(lines[at:]) {
		block = append(block, "", entrySeparator, "")
	} else {
		lines, block = lines[:at], append(block, "")
	}
	if at > 0 && strings.TrimSpace(lines[at-1]) != "" {
		block = append([]string{""}, block...)
	}

	return strings.Join(insertLines(lines, at, block), "\n")
}

// findEntryInsertIndex returns the line index new entries go to: after a leading
// document title and its trailing blank lines, or 0.
func findEntryInsertIndex(lines []string) int {
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first >= len(lines) || !isDocumentTitle(lines[first]) || isReleaseTitle(lines[first:]) {
		return 0
	}

	at := first + 1
	for at < len(lines) && strings.TrimSpace(lines[at]) == "" {
		at++
	}
	return at
}

// isDocumentTitle reports whether the line is a level-1 heading.
func isDocumentTitle(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), titlePrefix)
}

// isReleaseTitle reports whether the heading at lines[0] opens a release entry rather than
// the document: release titles carry a " | v" version marker.
func isReleaseTitle(lines []string) bool {
	return strings.Contains(lines[0], " | v")
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// insertLines inserts extra lines into slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}
