package documentloaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_Frontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", `---
title: Routing Guide
library_id: /vercel/next.js
---

# Routing

Pages map to routes.`)

	docs, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "Routing Guide", doc.Metadata[schema.MetaTitle])
	assert.Equal(t, "/vercel/next.js", doc.Metadata[schema.MetaLibraryID])
	assert.Equal(t, path, doc.Metadata[schema.MetaSource])
	assert.NotContains(t, doc.PageContent, "---")
	assert.Contains(t, doc.PageContent, "# Routing")
}

func TestFileLoader_TitleFromHeading(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.md", "# Getting Started\n\nSome text.")

	docs, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Getting Started", docs[0].Metadata[schema.MetaTitle])
}

func TestFileLoader_TitleFromFilename(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api_reference-v2.txt", "raw text without headings")

	docs, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Api Reference V2", docs[0].Metadata[schema.MetaTitle])
}

func TestFileLoader_MalformedFrontmatterKept(t *testing.T) {
	dir := t.TempDir()
	content := "---\n: [broken\n---\nbody"
	path := writeFile(t, dir, "broken.md", content)

	docs, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, docs[0].PageContent)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.md")).Load(context.Background())
	require.Error(t, err)
}
