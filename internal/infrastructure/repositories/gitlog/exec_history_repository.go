package gitlog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

const (
	backendExec = entities.HistoryBackendExec

	// fieldDelimiter separates the fields of one `git log` record.
	fieldDelimiter = "\x1f"
)

// ExecHistoryRepository reads history by running the git executable.
type ExecHistoryRepository struct {
	repoDir string
	gitPath string
}

// NewExecHistoryRepository locates git and creates a history reader for repoDir.
func NewExecHistoryRepository(repoDir string, locator *Locator) (repositories.HistoryRepository, error) {
	gitPath, err := locator.Find()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrConfiguration, err)
	}
	return &ExecHistoryRepository{repoDir: repoDir, gitPath: gitPath}, nil
}

func (r *ExecHistoryRepository) Name() string { return backendExec }

// Commits runs `git log` over the range and parses one commit per line.
func (r *ExecHistoryRepository) Commits(
	ctx context.Context,
	historyRange entities.HistoryRange,
) ([]entities.Commit, error) {
	output, err := r.run(ctx, LogArgs(historyRange, "%h"+fieldDelimiter+"%s"+fieldDelimiter+"%an")...)
	if err != nil {
		return nil, err
	}

	commits := ParseLog(output)
	logger.Debugf("Read %d commits with %s", len(commits), r.gitPath)
	return commits, nil
}

// LatestMatching scans `git log` of revision for the newest subject matching pattern.
func (r *ExecHistoryRepository) LatestMatching(ctx context.Context, revision, pattern string) (string, error) {
	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	output, err := r.run(ctx, LogArgs(entities.HistoryRange{To: revision}, "%H"+fieldDelimiter+"%s")...)
	if err != nil {
		return "", err
	}

	for _, commit := range ParseLog(output) {
		if matcher.MatchString(commit.Subject) {
			return commit.Hash, nil
		}
	}
	return "", fmt.Errorf("no commit matching %q reachable from %s", pattern, revision)
}

func (r *ExecHistoryRepository) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = r.repoDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// LogArgs builds the `git log` arguments for a range and a pretty format.
func LogArgs(historyRange entities.HistoryRange, format string) []string {
	args := []string{"log", "--pretty=format:" + format}
	if historyRange.Since != nil {
		args = append(args, "--since="+historyRange.Since.Format(entities.DateLayout))
	}

	to := historyRange.To
	if to == "" {
		to = "HEAD"
	}
	if historyRange.From != "" {
		args = append(args, historyRange.From+".."+to)
	} else {
		args = append(args, to)
	}
	return append(args, "--")
}

// ParseLog splits `git log` output into commits, skipping blank lines.
func ParseLog(output []byte) []entities.Commit {
	var commits []entities.Commit
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		commits = append(commits, entities.ParseCommitLine(line, fieldDelimiter))
	}
	return commits
}
