package entities

import (
	"strings"
	"time"
)

// Commit is one entry of the history between the baseline and the current state.
type Commit struct {
	Hash    string
	Subject string
	Author  string
}

// Text is what the classifier sees: the subject followed by the author in backticks,
// or the bare subject when the author is unknown.
func (c Commit) Text() string {
	if c.Author == "" {
		return c.Subject
	}
	return c.Subject + " `" + c.Author + "`"
}

// WithoutAuthor returns a copy of the commit that renders as its bare subject.
func (c Commit) WithoutAuthor() Commit {
	c.Author = ""
	return c
}

// ParseCommitLine splits one line of `git log` output into a commit. Fields are hash,
// subject and author separated by delim; missing trailing fields are left empty.
func ParseCommitLine(line, delim string) Commit {
	fields := strings.SplitN(strings.TrimRight(line, "\r"), delim, 3) //nolint:mnd // hash, subject, author
	commit := Commit{}
	switch len(fields) {
	case 3: //nolint:mnd // hash, subject, author
		commit.Author = strings.TrimSpace(fields[2])
		fallthrough
	case 2: //nolint:mnd // hash, subject
		commit.Hash = strings.TrimSpace(fields[0])
		commit.Subject = strings.TrimSpace(fields[1])
	default:
		commit.Subject = strings.TrimSpace(fields[0])
	}
	return commit
}

// HistoryRange selects the commits between two points of history.
type HistoryRange struct {
	From  string     // Exclusive lower bound revision, empty for none
	To    string     // Inclusive upper bound revision
	Since *time.Time // Optional date cutoff
}
