// Package vectorstores defines the storage contract for embedded document
// chunks and shared per-call options for search and ingestion.
package vectorstores

import (
	"context"
	"errors"
	"maps"

	"github.com/sevigo/docpipe/schema"
)

var ErrCollectionNotFound = errors.New("collection not found")

// VectorStore persists documents with their embeddings and serves
// similarity queries over them.
type VectorStore interface {
	AddDocuments(ctx context.Context, docs []schema.Document, options ...Option) ([]string, error)
	SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...Option) ([]schema.Document, error)
	SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...Option) ([]DocumentWithScore, error)
	ListCollections(ctx context.Context) ([]string, error)
}

// CollectionManager is implemented by stores that expose collection
// lifecycle operations beyond the basic VectorStore surface.
type CollectionManager interface {
	DeleteCollection(ctx context.Context, collectionName string) error
	CollectionInfo(ctx context.Context, collectionName string) (*schema.CollectionInfo, error)
}

// DocumentWithScore pairs a retrieved document with its similarity score.
type DocumentWithScore struct {
	Document schema.Document
	Score    float32
}

// Options are per-call overrides shared by all store implementations.
type Options struct {
	NameSpace      string
	ScoreThreshold float32
	Filters        map[string]any
}

type Option func(*Options)

// WithNameSpace routes the call to a different collection than the store
// default.
func WithNameSpace(namespace string) Option {
	return func(opts *Options) {
		opts.NameSpace = namespace
	}
}

// WithScoreThreshold drops results scoring below the threshold.
func WithScoreThreshold(threshold float32) Option {
	return func(opts *Options) {
		opts.ScoreThreshold = threshold
	}
}

// WithFilters merges metadata equality filters into the call.
func WithFilters(filters map[string]any) Option {
	return func(opts *Options) {
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		maps.Copy(opts.Filters, filters)
	}
}

// WithFilter adds a single metadata equality filter.
func WithFilter(key string, value any) Option {
	return func(opts *Options) {
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		opts.Filters[key] = value
	}
}

// ParseOptions folds per-call options into an Options struct.
func ParseOptions(options ...Option) Options {
	opts := Options{Filters: make(map[string]any)}
	for _, option := range options {
		option(&opts)
	}
	return opts
}
