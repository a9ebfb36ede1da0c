// Package gitops keeps a books directory under git so every posting,
// import and completed reconciliation leaves a commit behind.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// env sets committer identity to the author so commits work on machines
// without a global git identity.
func (a Author) env() []string {
	return append(os.Environ(),
		"GIT_AUTHOR_NAME="+a.Name,
		"GIT_AUTHOR_EMAIL="+a.Email,
		"GIT_COMMITTER_NAME="+a.Name,
		"GIT_COMMITTER_EMAIL="+a.Email,
	)
}

func run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := run(ctx, dir, nil, "init", "--quiet")
	return err
}

// CommitAll stages everything and commits. It returns the short hash, or
// "" when there was nothing to commit.
func CommitAll(ctx context.Context, dir, message string, author Author) (string, error) {
	env := author.env()
	if _, err := run(ctx, dir, env, "add", "-A"); err != nil {
		return "", err
	}
	status, err := run(ctx, dir, env, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", nil
	}
	if _, err := run(ctx, dir, env, "commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	return run(ctx, dir, env, "rev-parse", "--short", "HEAD")
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
