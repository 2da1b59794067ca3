// Package ingestion wires loaders, splitters and vector stores into a
// single pipeline: load documents, split them into chunks, attach chunk
// metadata and persist everything in one call.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/docpipe/documentloaders"
	"github.com/sevigo/docpipe/schema"
	"github.com/sevigo/docpipe/textsplitter"
	"github.com/sevigo/docpipe/vectorstores"
)

var (
	ErrMissingSplitter = errors.New("ingestion: splitter is required")
	ErrMissingStore    = errors.New("ingestion: vector store is required")
)

// Result summarizes one ingestion run.
type Result struct {
	DocumentIDs []string           `json:"document_ids"`
	Stats       textsplitter.Stats `json:"stats"`
	Duration    time.Duration      `json:"duration"`
}

// Pipeline splits documents and stores the resulting chunks.
type Pipeline struct {
	splitter textsplitter.TextSplitter
	store    vectorstores.VectorStore
	logger   *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline from a splitter and a store.
func NewPipeline(splitter textsplitter.TextSplitter, store vectorstores.VectorStore, opts ...PipelineOption) (*Pipeline, error) {
	if splitter == nil {
		return nil, ErrMissingSplitter
	}
	if store == nil {
		return nil, ErrMissingStore
	}

	p := &Pipeline{
		splitter: splitter,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "ingestion_pipeline")
	return p, nil
}

// Ingest splits the documents into chunks, drops whitespace-only chunks
// and stores the rest. Store options (namespace, filters) are passed
// through to AddDocuments.
func (p *Pipeline) Ingest(ctx context.Context, docs []schema.Document, storeOpts ...vectorstores.Option) (*Result, error) {
	start := time.Now()

	chunks, err := textsplitter.SplitDocuments(ctx, p.splitter, docs)
	if err != nil {
		return nil, fmt.Errorf("splitting failed: %w", err)
	}

	kept := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk.PageContent) != "" {
			kept = append(kept, chunk)
		}
	}
	chunks = kept

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.PageContent
	}
	stats := textsplitter.ComputeStats(contents)

	if len(chunks) == 0 {
		p.logger.InfoContext(ctx, "Nothing to ingest", "input_documents", len(docs))
		return &Result{DocumentIDs: []string{}, Stats: stats, Duration: time.Since(start)}, nil
	}

	ids, err := p.store.AddDocuments(ctx, chunks, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("storing chunks failed: %w", err)
	}

	result := &Result{DocumentIDs: ids, Stats: stats, Duration: time.Since(start)}
	p.logger.InfoContext(ctx, "Ingestion completed",
		"input_documents", len(docs),
		"chunks", stats.Count,
		"avg_chunk_length", stats.AvgLength,
		"duration", result.Duration)
	return result, nil
}

// IngestFrom loads documents from the loader and ingests them.
func (p *Pipeline) IngestFrom(ctx context.Context, loader documentloaders.Loader, storeOpts ...vectorstores.Option) (*Result, error) {
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading failed: %w", err)
	}
	return p.Ingest(ctx, docs, storeOpts...)
}
