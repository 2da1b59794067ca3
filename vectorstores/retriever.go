package vectorstores

import (
	"context"

	"github.com/sevigo/docpipe/schema"
)

type retriever struct {
	store   VectorStore
	numDocs int
	options []Option
}

func (r retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	return r.store.SimilaritySearch(ctx, query, r.numDocs, r.options...)
}

// ToRetriever adapts a vector store to the schema.Retriever interface.
// The given options are applied to every search.
func ToRetriever(store VectorStore, numDocs int, options ...Option) schema.Retriever {
	return retriever{store: store, numDocs: numDocs, options: options}
}
