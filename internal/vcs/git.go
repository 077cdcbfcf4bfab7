package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrNoCommits is returned when no commit touches the path.
	ErrNoCommits = errors.New("no commits found for path")

	// ErrGitNotFound is returned when the git executable is not on PATH.
	ErrGitNotFound = errors.New("git executable not found")
)

// DefaultGitBinary is the executable used when none is configured.
const DefaultGitBinary = "git"

// Git reads commit dates from a repository working tree.
type Git struct {
	repo   string
	binary string
}

// GitOption configures Git.
type GitOption func(*Git)

// WithBinary sets the git executable.
func WithBinary(path string) GitOption {
	return func(g *Git) {
		g.binary = path
	}
}

// NewGit creates a lookup rooted at repo. An empty repo means the current directory.
func NewGit(repo string, opts ...GitOption) *Git {
	g := &Git{repo: repo, binary: DefaultGitBinary}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LastModified returns the committer date of the last commit touching path.
// Relative paths are resolved against the repository root.
func (g *Git) LastModified(ctx context.Context, path string) (time.Time, error) {
	args := []string{"log", "-1", "--format=%cI", "--", path}
	if g.repo != "" {
		args = append([]string{"-C", g.repo}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.binary, args...) //nolint:gosec // arguments are not passed through a shell
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return time.Time{}, ErrGitNotFound
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return time.Time{}, fmt.Errorf("git log %s: %w: %s", path, err, msg)
		}
		return time.Time{}, fmt.Errorf("git log %s: %w", path, err)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoCommits, path)
	}
	ts, err := parseCommitDate(out)
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", path, err)
	}
	return ts, nil
}

// commitDateFormats are tried in order. %cI is strict ISO 8601; %ci is the
// older human-readable form some git versions fall back to.
var commitDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
}

func parseCommitDate(s string) (time.Time, error) {
	for _, layout := range commitDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized commit date %q", s)
}
