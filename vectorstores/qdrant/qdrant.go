// Package qdrant implements the vectorstores.VectorStore interface backed
// by a Qdrant server over gRPC. Collections are created on first write
// using the embedder's reported dimension.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sevigo/docpipe/embeddings"
	"github.com/sevigo/docpipe/schema"
	"github.com/sevigo/docpipe/vectorstores"
)

var (
	ErrMissingEmbedder     = errors.New("qdrant: embedder is required")
	ErrMissingCollection   = errors.New("qdrant: collection name is required")
	ErrInvalidNumDocuments = errors.New("qdrant: number of documents must be positive")
)

// Store is a Qdrant-backed vector store.
type Store struct {
	client     *qdrant.Client
	embedder   embeddings.Embedder
	collection string
	contentKey string
	logger     *slog.Logger
	opts       options
}

var (
	_ vectorstores.VectorStore       = (*Store)(nil)
	_ vectorstores.CollectionManager = (*Store)(nil)
)

// New connects to a Qdrant server and returns a store bound to the
// configured collection.
func New(opts ...Option) (*Store, error) {
	o, err := parseOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("qdrant: invalid options: %w", err)
	}

	config := &qdrant.Config{Host: o.host, Port: o.port, UseTLS: o.useTLS}
	if o.apiKey != "" {
		config.APIKey = o.apiKey
	}
	client, err := qdrant.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	logger := o.logger.With("component", "qdrant_store", "collection", o.collection)
	logger.Info("Qdrant store initialized", "host", o.host, "port", o.port)

	return &Store{
		client:     client,
		embedder:   o.embedder,
		collection: o.collection,
		contentKey: o.contentKey,
		logger:     logger,
		opts:       o,
	}, nil
}

// AddDocuments embeds the documents and upserts them in batches. Returned
// IDs are in input order. A document with a non-empty string "id" metadata
// value keeps that ID; all others get a fresh UUID.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}
	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collection := s.resolveCollection(opts)

	if err := s.ensureCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("collection preparation failed: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}

	start := time.Now()
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}
	s.logger.DebugContext(ctx, "Embedding stage complete",
		"documents", len(docs), "duration", time.Since(start))

	ids := make([]string, len(docs))
	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		ids[i] = s.documentID(doc)
		points[i] = &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: ids[i]}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vectors[i]}}},
			Payload: s.documentToPayload(doc),
		}
	}

	if err := s.upsertBatches(ctx, collection, points); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Documents added",
		"count", len(docs), "collection", collection, "duration", time.Since(start))
	return ids, nil
}

func (s *Store) upsertBatches(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	batchSize := s.opts.batchSize
	numBatches := (len(points) + batchSize - 1) / batchSize
	errs := make([]error, numBatches)

	sem := make(chan struct{}, s.opts.maxConcurrency)
	var wg sync.WaitGroup
	for i := 0; i < numBatches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			start := i * batchSize
			end := min(start+batchSize, len(points))
			if err := s.upsertWithRetry(ctx, collection, points[start:end]); err != nil {
				errs[i] = fmt.Errorf("batch %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (s *Store) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	var lastErr error
	delay := s.opts.retryDelay

	for attempt := 0; attempt <= s.opts.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		wait := true
		_, err := s.client.GetPointsClient().Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Wait:           &wait,
			Points:         points,
		})
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.WarnContext(ctx, "Upsert attempt failed",
			"attempt", attempt+1, "points", len(points), "error", err)
	}
	return fmt.Errorf("upsert failed after %d attempts: %w", s.opts.retryAttempts+1, lastErr)
}

// SimilaritySearch returns up to numDocuments documents relevant to the query.
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

// SimilaritySearchWithScores returns relevant documents with similarity scores.
func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	if strings.TrimSpace(query) == "" {
		return []vectorstores.DocumentWithScore{}, nil
	}
	if numDocuments <= 0 {
		return nil, ErrInvalidNumDocuments
	}
	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collection := s.resolveCollection(opts)

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := s.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         queryVector,
		Limit:          uint64(numDocuments),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
		ScoreThreshold: &opts.ScoreThreshold,
		Filter:         buildFilter(opts.Filters),
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return nil, vectorstores.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := searchResult.GetResult()
	scored := make([]vectorstores.DocumentWithScore, len(results))
	for i, point := range results {
		scored[i] = vectorstores.DocumentWithScore{
			Document: s.payloadToDocument(point.GetPayload()),
			Score:    point.GetScore(),
		}
	}

	s.logger.DebugContext(ctx, "Similarity search completed",
		"collection", collection, "results", len(scored))
	return scored, nil
}

// DeleteDocuments removes points by ID.
func (s *Store) DeleteDocuments(ctx context.Context, ids []string, options ...vectorstores.Option) error {
	if len(ids) == 0 {
		return nil
	}

	opts := vectorstores.ParseOptions(options...)
	collection := s.resolveCollection(opts)

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}}
	}

	wait := true
	_, err := s.client.GetPointsClient().Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	s.logger.InfoContext(ctx, "Documents deleted", "count", len(ids), "collection", collection)
	return nil
}

// DeleteByFilter removes all points matching the metadata filters. An
// empty filter is rejected to avoid wiping a collection by accident.
func (s *Store) DeleteByFilter(ctx context.Context, filters map[string]any, options ...vectorstores.Option) error {
	filter := buildFilter(filters)
	if filter == nil {
		return errors.New("qdrant: cannot delete with an empty filter")
	}

	opts := vectorstores.ParseOptions(options...)
	collection := s.resolveCollection(opts)

	wait := true
	_, err := s.client.GetPointsClient().Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete documents by filter: %w", err)
	}

	s.logger.InfoContext(ctx, "Documents deleted by filter", "collection", collection)
	return nil
}

// ListCollections returns the names of all collections on the server.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	resp, err := s.client.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	collections := resp.GetCollections()
	names := make([]string, len(collections))
	for i, col := range collections {
		names[i] = col.GetName()
	}
	return names, nil
}

// DeleteCollection drops a collection and all its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingCollection
	}

	_, err := s.client.GetCollectionsClient().Delete(ctx, &qdrant.DeleteCollection{CollectionName: name})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return vectorstores.ErrCollectionNotFound
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	s.logger.InfoContext(ctx, "Collection deleted", "name", name)
	return nil
}

// CollectionInfo returns point count and vector dimension for a collection.
func (s *Store) CollectionInfo(ctx context.Context, name string) (*schema.CollectionInfo, error) {
	resp, err := s.client.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: name})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return nil, vectorstores.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	info := resp.GetResult()
	out := &schema.CollectionInfo{
		Name:        name,
		PointsCount: info.GetPointsCount(),
	}
	if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
		out.VectorSize = params.GetSize()
		out.VectorDistance = params.GetDistance().String()
	}
	return out, nil
}

// Health verifies the server is reachable.
func (s *Store) Health(ctx context.Context) error {
	if _, err := s.client.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{}); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

func (s *Store) resolveCollection(opts vectorstores.Options) string {
	if opts.NameSpace != "" {
		return opts.NameSpace
	}
	return s.collection
}

func (s *Store) documentID(doc schema.Document) string {
	if id, ok := doc.Metadata["id"].(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

func (s *Store) ensureCollection(ctx context.Context, name string) error {
	exists, err := s.collectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	dimension, err := s.embedder.GetDimension(ctx)
	if err != nil {
		return fmt.Errorf("could not determine embedder dimension: %w", err)
	}

	s.logger.InfoContext(ctx, "Creating collection", "name", name, "dimension", dimension)

	_, err = s.client.GetCollectionsClient().Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: name})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) documentToPayload(doc schema.Document) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(doc.Metadata)+1)
	payload[s.contentKey] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: doc.PageContent}}
	for key, value := range doc.Metadata {
		if qv := toQdrantValue(value); qv != nil {
			payload[key] = qv
		}
	}
	return payload
}

func (s *Store) payloadToDocument(payload map[string]*qdrant.Value) schema.Document {
	doc := schema.Document{Metadata: make(map[string]any, len(payload))}
	for key, value := range payload {
		if key == s.contentKey {
			doc.PageContent = value.GetStringValue()
			continue
		}
		if converted := fromQdrantValue(value); converted != nil {
			doc.Metadata[key] = converted
		}
	}
	return doc
}

func toQdrantValue(value any) *qdrant.Value {
	switch v := value.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: v}}
	case float32:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: float64(v)}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: v}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: v}}
	case []string:
		values := make([]*qdrant.Value, len(v))
		for i, item := range v {
			values[i] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: item}}
		}
		return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: values}}}
	case nil:
		return &qdrant.Value{Kind: &qdrant.Value_NullValue{}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", v)}}
	}
}

func fromQdrantValue(value *qdrant.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(v.ListValue.GetValues()))
		for i, item := range v.ListValue.GetValues() {
			list[i] = fromQdrantValue(item)
		}
		return list
	default:
		return nil
	}
}

func buildFilter(filters map[string]any) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}

	conditions := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		var match *qdrant.Match
		switch v := value.(type) {
		case string:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: v}}
		case int:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: int64(v)}}
		case int64:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: v}}
		case bool:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: v}}
		case []string:
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keywords{Keywords: &qdrant.RepeatedStrings{Strings: v}}}
		default:
			slog.Warn("Unsupported filter value type", "key", key, "type", fmt.Sprintf("%T", v))
			continue
		}
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{Key: key, Match: match},
			},
		})
	}

	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}
