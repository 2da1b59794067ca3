package documentloaders

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/docpipe/schema"
)

const frontmatterSeparator = "---"

var titleCaser = cases.Title(language.English)

// FileLoader loads a single text or markdown file. YAML frontmatter, when
// present, is stripped from the content and merged into the document
// metadata. A "title" metadata value is always set: from the frontmatter,
// the first top-level heading, or the filename.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

// FileLoaderOption configures a FileLoader.
type FileLoaderOption func(*FileLoader)

// WithFileLogger sets a custom logger for the loader.
func WithFileLogger(logger *slog.Logger) FileLoaderOption {
	return func(l *FileLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewFile creates a loader for a single file.
func NewFile(path string, opts ...FileLoaderOption) *FileLoader {
	loader := &FileLoader{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load reads the file and returns it as a single document.
func (l *FileLoader) Load(_ context.Context) ([]schema.Document, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.path, err)
	}

	content, metadata := l.parseFrontmatter(string(raw))
	metadata[schema.MetaSource] = l.path
	if _, ok := metadata[schema.MetaTitle]; !ok {
		metadata[schema.MetaTitle] = l.deriveTitle(content)
	}

	return []schema.Document{schema.NewDocument(content, metadata)}, nil
}

// parseFrontmatter splits off a leading YAML frontmatter block. Malformed
// frontmatter is left in place and the document is returned unchanged.
func (l *FileLoader) parseFrontmatter(content string) (string, map[string]any) {
	metadata := make(map[string]any)

	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimRight(lines[0], "\r") != frontmatterSeparator {
		return content, metadata
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == frontmatterSeparator {
			endIdx = i
			break
		}
	}
	if endIdx <= 1 {
		return content, metadata
	}

	var parsed map[string]any
	yamlContent := strings.Join(lines[1:endIdx], "\n")
	if err := yaml.Unmarshal([]byte(yamlContent), &parsed); err != nil {
		l.logger.Debug("Failed to parse YAML frontmatter, keeping it in content",
			"path", l.path, "error", err)
		return content, metadata
	}

	for key, value := range parsed {
		metadata[key] = value
	}
	body := strings.Join(lines[endIdx+1:], "\n")
	return strings.TrimLeft(body, "\n"), metadata
}

// deriveTitle prefers the first top-level markdown heading, then falls
// back to a title-cased filename.
func (l *FileLoader) deriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}

	base := strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return titleCaser.String(base)
}
