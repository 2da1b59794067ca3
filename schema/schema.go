package schema

import (
	"context"
	"fmt"
)

// Document is a single unit of ingestable content: the raw text of one file,
// one API response, or one chunk produced by a splitter. Metadata travels with
// the content through the pipeline and into the vector store payload.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

func (d Document) String() string {
	return d.PageContent
}

func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Document{
		PageContent: content,
		Metadata:    metadata,
	}
}

// Common metadata keys used across loaders, splitters and stores.
const (
	MetaSource     = "source"
	MetaChunkIndex = "chunk_index"
	MetaLibraryID  = "library_id"
	MetaTitle      = "title"
)

type Retriever interface {
	GetRelevantDocuments(ctx context.Context, query string) ([]Document, error)
}

type CollectionInfo struct {
	Name           string `json:"name"`            // Name of the collection.
	PointsCount    uint64 `json:"points_count"`    // Number of points (vectors) in the collection.
	VectorSize     uint64 `json:"vector_size"`     // Dimensionality of the vectors in this collection.
	VectorDistance string `json:"vector_distance"` // Distance metric used by the collection (e.g., "Cosine").
}

func (ci CollectionInfo) String() string {
	return fmt.Sprintf("%s (points: %d, dim: %d, distance: %s)",
		ci.Name, ci.PointsCount, ci.VectorSize, ci.VectorDistance)
}
