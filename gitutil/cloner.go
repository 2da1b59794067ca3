// Package gitutil handles temporary shallow clones of remote repositories.
package gitutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
)

// Cloner checks out remote repositories into temporary directories.
type Cloner struct {
	logger *slog.Logger
}

// NewCloner creates a Cloner. A nil logger falls back to slog.Default().
func NewCloner(logger *slog.Logger) *Cloner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cloner{logger: logger}
}

// Clone performs a depth-1 clone into a fresh temp directory and returns
// the path together with a cleanup function that removes it.
func (c *Cloner) Clone(ctx context.Context, repoURL string) (string, func(), error) {
	tempPath, err := os.MkdirTemp("", "docpipe-repo-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	cleanup := func() {
		_ = os.RemoveAll(tempPath)
	}

	c.logger.InfoContext(ctx, "Cloning repository", "url", repoURL, "path", tempPath)

	_, err = git.PlainCloneContext(ctx, tempPath, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone %s: %w", repoURL, err)
	}

	return tempPath, cleanup, nil
}
