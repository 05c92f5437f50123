package port

import "context"

// SyncSource abstracts the Git repository the corpus is synced from.
// Implementations handle cloning, updating, and file access.
type SyncSource interface {
	// Refresh clones the repository on first use and pulls afterwards.
	// It returns the commit hash of the resulting checkout.
	Refresh(ctx context.Context) (string, error)

	// ListMarkdownFiles returns the relative paths of all markdown files
	// in the checkout.
	ListMarkdownFiles(ctx context.Context) ([]string, error)

	// ReadFile reads a file's content by its relative path.
	ReadFile(ctx context.Context, relPath string) ([]byte, error)
}
