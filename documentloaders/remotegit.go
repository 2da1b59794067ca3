package documentloaders

import (
	"context"
	"log/slog"

	"github.com/sevigo/docpipe/gitutil"
	"github.com/sevigo/docpipe/schema"
)

// RemoteGitLoader shallow-clones a remote repository and loads its
// documentation files with a DirLoader. The clone is removed after the
// load finishes.
type RemoteGitLoader struct {
	repoURL string
	dirOpts []DirLoaderOption
	logger  *slog.Logger
}

// NewRemoteGit creates a loader for a remote repository URL. The dirOpts
// are passed through to the DirLoader used on the clone.
func NewRemoteGit(repoURL string, logger *slog.Logger, dirOpts ...DirLoaderOption) *RemoteGitLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteGitLoader{repoURL: repoURL, dirOpts: dirOpts, logger: logger}
}

// Load clones the repository and loads its documents. Each document gets
// a "repository_url" metadata entry alongside its relative "source" path.
func (l *RemoteGitLoader) Load(ctx context.Context) ([]schema.Document, error) {
	cloner := gitutil.NewCloner(l.logger)
	tempPath, cleanup, err := cloner.Clone(ctx, l.repoURL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	opts := append([]DirLoaderOption{WithDirLogger(l.logger)}, l.dirOpts...)
	documents, err := NewDir(tempPath, opts...).Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range documents {
		documents[i].Metadata["repository_url"] = l.repoURL
	}
	return documents, nil
}
