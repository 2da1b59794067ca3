// Package fake provides an in-memory vector store for tests and examples.
// With an embedder it ranks results by cosine similarity; without one it
// returns documents in insertion order.
package fake

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sevigo/docpipe/embeddings"
	"github.com/sevigo/docpipe/schema"
	"github.com/sevigo/docpipe/vectorstores"
)

type entry struct {
	id     string
	doc    schema.Document
	vector []float32
}

// Store is an in-memory vector store.
type Store struct {
	mu       sync.RWMutex
	embedder embeddings.Embedder
	entries  []entry
	idSeq    int
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates an empty in-memory store. The embedder may be nil.
func New(embedder embeddings.Embedder) *Store {
	return &Store{embedder: embedder}
}

// AddDocuments stores the documents, embedding them when an embedder is set.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	vectors := make([][]float32, len(docs))
	if s.embedder != nil && len(docs) > 0 {
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.PageContent
		}
		embedded, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("fake store embedding failed: %w", err)
		}
		vectors = embedded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = fmt.Sprintf("fake-id-%d", s.idSeq)
		s.entries = append(s.entries, entry{id: ids[i], doc: doc, vector: vectors[i]})
		s.idSeq++
	}
	return ids, nil
}

// SimilaritySearch returns up to numDocuments documents for the query.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	scored, err := s.SimilaritySearchWithScores(ctx, query, numDocuments, options...)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, len(scored))
	for i, result := range scored {
		docs[i] = result.Document
	}
	return docs, nil
}

// SimilaritySearchWithScores ranks stored documents against the query.
func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	opts := vectorstores.ParseOptions(options...)

	var queryVector []float32
	if s.embedder != nil {
		vec, err := s.embedder.EmbedQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fake store query embedding failed: %w", err)
		}
		queryVector = vec
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]vectorstores.DocumentWithScore, 0, len(s.entries))
	for _, e := range s.entries {
		if !matchesFilters(e.doc, opts.Filters) {
			continue
		}
		score := float32(1.0)
		if queryVector != nil {
			score = cosine(queryVector, e.vector)
		}
		if score < opts.ScoreThreshold {
			continue
		}
		results = append(results, vectorstores.DocumentWithScore{Document: e.doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > numDocuments {
		results = results[:numDocuments]
	}
	return results, nil
}

// ListCollections returns a single placeholder collection name.
func (s *Store) ListCollections(context.Context) ([]string, error) {
	return []string{"fake-collection"}, nil
}

// Docs returns all stored documents in insertion order.
func (s *Store) Docs() []schema.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]schema.Document, len(s.entries))
	for i, e := range s.entries {
		docs[i] = e.doc
	}
	return docs
}

func matchesFilters(doc schema.Document, filters map[string]any) bool {
	for key, want := range filters {
		if doc.Metadata[key] != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
