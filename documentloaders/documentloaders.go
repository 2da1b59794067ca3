// Package documentloaders turns external sources (files, directories,
// remote git repositories, PDFs, command output) into schema.Document
// values ready for splitting and ingestion.
package documentloaders

import (
	"context"

	"github.com/sevigo/docpipe/schema"
)

// Loader retrieves documents from a source. Implementations handle the
// source-specific details and return documents with metadata describing
// where each one came from.
type Loader interface {
	Load(ctx context.Context) ([]schema.Document, error)
}
