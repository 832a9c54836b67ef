package gitlog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/hashicorp/go-set/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

const (
	backendGoGit  = entities.HistoryBackendGoGit
	ancestorsHint = 256
)

// GoGitHistoryRepository reads history with go-git, without a git executable.
type GoGitHistoryRepository struct {
	repoDir string
}

// NewGoGitHistoryRepository creates a history reader for the repository containing repoDir.
func NewGoGitHistoryRepository(repoDir string) repositories.HistoryRepository {
	return &GoGitHistoryRepository{repoDir: repoDir}
}

func (r *GoGitHistoryRepository) Name() string { return backendGoGit }

// Commits walks history from To, skipping every ancestor of From (git's From..To).
func (r *GoGitHistoryRepository) Commits(
	ctx context.Context,
	historyRange entities.HistoryRange,
) ([]entities.Commit, error) {
	gitRepo, err := OpenRepository(r.repoDir)
	if err != nil {
		return nil, err
	}

	to, err := ResolveRevision(gitRepo, historyRange.To)
	if err != nil {
		return nil, err
	}

	excluded := set.New[plumbing.Hash](ancestorsHint)
	if historyRange.From != "" {
		from, fromErr := ResolveRevision(gitRepo, historyRange.From)
		if fromErr != nil {
			return nil, fromErr
		}
		if walkErr := walk(ctx, gitRepo, &git.LogOptions{From: from}, func(c *object.Commit) error {
			excluded.Insert(c.Hash)
			return nil
		}); walkErr != nil {
			return nil, fmt.Errorf("failed to walk history of %s: %w", historyRange.From, walkErr)
		}
	}

	var commits []entities.Commit
	walkErr := walk(ctx, gitRepo, &git.LogOptions{
		From:  to,
		Order: git.LogOrderCommitterTime,
		Since: historyRange.Since,
	}, func(c *object.Commit) error {
		if excluded.Contains(c.Hash) {
			return nil
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk history of %s: %w", historyRange.To, walkErr)
	}

	logger.Debugf("Read %d commits from %s", len(commits), r.repoDir)
	return commits, nil
}

// LatestMatching returns the newest commit reachable from revision whose subject matches.
func (r *GoGitHistoryRepository) LatestMatching(ctx context.Context, revision, pattern string) (string, error) {
	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	gitRepo, err := OpenRepository(r.repoDir)
	if err != nil {
		return "", err
	}

	from, err := ResolveRevision(gitRepo, revision)
	if err != nil {
		return "", err
	}

	var found string
	walkErr := walk(ctx, gitRepo, &git.LogOptions{From: from, Order: git.LogOrderCommitterTime},
		func(c *object.Commit) error {
			if matcher.MatchString(subject(c.Message)) {
				found = c.Hash.String()
				return storer.ErrStop
			}
			return nil
		})
	if walkErr != nil {
		return "", walkErr
	}
	if found == "" {
		return "", fmt.Errorf("no commit matching %q reachable from %s", pattern, revision)
	}
	return found, nil
}

// OpenRepository opens the git repository containing dir.
func OpenRepository(dir string) (*git.Repository, error) {
	gitRepo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a git repository: %w", entities.ErrPath, dir, err)
	}
	return gitRepo, nil
}

// ResolveRevision resolves a branch, tag, hash or expression such as HEAD~1.
func ResolveRevision(gitRepo *git.Repository, revision string) (plumbing.Hash, error) {
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := gitRepo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}
	return *hash, nil
}

func walk(ctx context.Context, gitRepo *git.Repository, opts *git.LogOptions, fn func(*object.Commit) error) error {
	commitsIter, err := gitRepo.Log(opts)
	if err != nil {
		return err
	}
	defer commitsIter.Close()

	err = commitsIter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fn(c)
	})
	if errors.Is(err, storer.ErrStop) {
		return nil
	}
	return err
}

func toCommit(c *object.Commit) entities.Commit {
	return entities.Commit{
		Hash:    c.Hash.String()[:7],
		Subject: subject(c.Message),
		Author:  c.Author.Name,
	}
}

func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(line)
}
