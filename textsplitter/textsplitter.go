// Package textsplitter partitions documents into chunks suitable for
// embedding. It provides several interchangeable strategies: character-based
// splitting with sentence-boundary snapping, sentence and paragraph grouping,
// token-budget splitting and markdown-header splitting.
//
// All splitters are stateless and pure: configuration is validated at
// construction time, inputs are never mutated and every call allocates its
// own output.
package textsplitter

import (
	"context"
	"maps"

	"github.com/sevigo/docpipe/schema"
)

// TextSplitter is the common contract of the string-producing strategies.
type TextSplitter interface {
	SplitText(ctx context.Context, text string) ([]string, error)
}

// SplitDocuments maps every document through the given splitter, carrying the
// source metadata onto each produced chunk and tagging it with its index.
func SplitDocuments(ctx context.Context, splitter TextSplitter, docs []schema.Document) ([]schema.Document, error) {
	var out []schema.Document

	for _, doc := range docs {
		chunks, err := splitter.SplitText(ctx, doc.PageContent)
		if err != nil {
			return nil, err
		}

		for i, chunk := range chunks {
			metadata := make(map[string]any, len(doc.Metadata)+1)
			maps.Copy(metadata, doc.Metadata)
			metadata[schema.MetaChunkIndex] = i
			out = append(out, schema.NewDocument(chunk, metadata))
		}
	}

	return out, nil
}
