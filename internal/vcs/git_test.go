package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestParseCommitDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso strict", "2024-03-05T10:11:12-05:00", "03-05-24", false},
		{"iso human", "2023-12-31 23:59:59 +0000", "12-31-23", false},
		{"garbage", "yesterday", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseCommitDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("01-02-06") != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Format("01-02-06"))
			}
		})
	}
}

func TestGitLastModified(t *testing.T) {
	t.Parallel()

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		g := NewGit(t.TempDir(), WithBinary("inventoryaudit-no-such-git"))
		_, err := g.LastModified(context.Background(), "x.csv")
		if !errors.Is(err, ErrGitNotFound) {
			t.Errorf("expected ErrGitNotFound, got %v", err)
		}
	})

	t.Run("committed file", func(t *testing.T) {
		t.Parallel()

		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}

		repo := t.TempDir()
		run := func(args ...string) {
			t.Helper()
			cmd := exec.Command("git", append([]string{"-C", repo}, args...)...)
			cmd.Env = append(os.Environ(),
				"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
				"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
				"GIT_COMMITTER_DATE=2024-02-03T04:05:06Z",
			)
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Fatalf("git %v: %v\n%s", args, err, out)
			}
		}

		run("init", "-q")
		if err := os.MkdirAll(filepath.Join(repo, "snapshots"), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(repo, "snapshots", "gsa.csv"), []byte("a\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		run("add", ".")
		run("commit", "-q", "-m", "snapshot")

		g := NewGit(repo)
		got, err := g.LastModified(context.Background(), "snapshots/gsa.csv")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}

		_, err = g.LastModified(context.Background(), "snapshots/missing.csv")
		if !errors.Is(err, ErrNoCommits) {
			t.Errorf("expected ErrNoCommits, got %v", err)
		}
	})
}
