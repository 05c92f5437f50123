package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitSource implements port.SyncSource using the git CLI. The corpus
// repository is cloned under basePath on first refresh and pulled afterwards.
type GitSource struct {
	url      string
	branch   string
	basePath string
}

// NewGitSource creates a Git-backed sync source.
func NewGitSource(url, branch, basePath string) *GitSource {
	return &GitSource{url: url, branch: branch, basePath: basePath}
}

func (g *GitSource) checkoutPath() string {
	return filepath.Join(g.basePath, "checkout")
}

// Refresh clones the repository on first use and pulls afterwards, returning
// the commit hash of the resulting checkout.
func (g *GitSource) Refresh(ctx context.Context) (string, error) {
	dest := g.checkoutPath()

	if _, err := os.Stat(filepath.Join(dest, ".git")); os.IsNotExist(err) {
		if err := os.MkdirAll(g.basePath, 0o755); err != nil {
			return "", fmt.Errorf("create base path: %w", err)
		}
		cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--branch", g.branch, g.url, dest)
		if out, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("git clone %s: %w: %s", g.url, err, strings.TrimSpace(string(out)))
		}
	} else {
		cmd := exec.CommandContext(ctx, "git", "-C", dest, "pull", "--ff-only", "origin", g.branch)
		if out, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("git pull %s: %w: %s", dest, err, strings.TrimSpace(string(out)))
		}
	}

	out, err := exec.CommandContext(ctx, "git", "-C", dest, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ListMarkdownFiles returns the relative paths of all tracked markdown files.
func (g *GitSource) ListMarkdownFiles(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", g.checkoutPath(), "ls-files", "*.md", "**/*.md")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// ReadFile reads a file's content by its relative path within the checkout.
func (g *GitSource) ReadFile(ctx context.Context, relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(g.checkoutPath(), filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return data, nil
}
