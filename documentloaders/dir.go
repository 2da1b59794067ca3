package documentloaders

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sevigo/docpipe/schema"
)

// Files larger than this are skipped to keep memory use bounded.
const maxFileSize = 10 * 1024 * 1024

// DirLoader walks a directory tree and loads every documentation file it
// finds. Build directories, hidden directories and binary files are
// skipped. Unreadable files are logged and skipped rather than aborting
// the walk.
type DirLoader struct {
	path       string
	extensions []string
	logger     *slog.Logger
}

// DirLoaderOption configures a DirLoader.
type DirLoaderOption func(*DirLoader)

// WithExtensions restricts loading to the given file extensions
// (including the dot, e.g. ".md").
func WithExtensions(exts ...string) DirLoaderOption {
	return func(l *DirLoader) {
		if len(exts) > 0 {
			l.extensions = exts
		}
	}
}

// WithDirLogger sets a custom logger for the loader.
func WithDirLogger(logger *slog.Logger) DirLoaderOption {
	return func(l *DirLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewDir creates a loader rooted at path. By default it loads markdown,
// plain text and reStructuredText files.
func NewDir(path string, opts ...DirLoaderOption) *DirLoader {
	loader := &DirLoader{
		path:       path,
		extensions: []string{".md", ".markdown", ".txt", ".rst"},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load walks the tree and returns one document per loadable file. Each
// document's "source" metadata is the path relative to the loader root.
func (l *DirLoader) Load(ctx context.Context) ([]schema.Document, error) {
	l.logger.Info("Loading documents from directory", "path", l.path)

	var documents []schema.Document
	err := filepath.WalkDir(l.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if shouldSkipDir(d.Name()) && path != l.path {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			l.logger.Warn("Could not stat file, skipping", "path", path, "error", err)
			return nil
		}
		if info.Size() > maxFileSize || !l.wantedExtension(path) {
			return nil
		}

		docs, err := NewFile(path, WithFileLogger(l.logger)).Load(ctx)
		if err != nil {
			l.logger.Warn("Cannot load file, skipping", "path", path, "error", err)
			return nil
		}

		relPath, relErr := filepath.Rel(l.path, path)
		if relErr != nil {
			relPath = path
		}
		for i := range docs {
			docs[i].Metadata[schema.MetaSource] = relPath
		}
		documents = append(documents, docs...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Directory load completed", "path", l.path, "documents", len(documents))
	return documents, nil
}

func (l *DirLoader) wantedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(l.extensions, ext)
}

func shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	skip := []string{"vendor", "node_modules", "__pycache__", "build", "dist", "target", "out", "bin"}
	return slices.Contains(skip, name)
}
