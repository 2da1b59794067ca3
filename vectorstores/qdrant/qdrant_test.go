package qdrant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/schema"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}
func (stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) { return nil, nil }
func (stubEmbedder) GetDimension(context.Context) (int, error)             { return 4, nil }

func TestParseOptions(t *testing.T) {
	t.Run("missing collection", func(t *testing.T) {
		_, err := parseOptions(WithEmbedder(stubEmbedder{}))
		require.Error(t, err)
	})

	t.Run("missing embedder", func(t *testing.T) {
		_, err := parseOptions(WithCollectionName("docs"))
		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		o, err := parseOptions(WithCollectionName("docs"), WithEmbedder(stubEmbedder{}))
		require.NoError(t, err)
		assert.Equal(t, defaultHost, o.host)
		assert.Equal(t, defaultPort, o.port)
		assert.Equal(t, defaultContentKey, o.contentKey)
		assert.Equal(t, defaultBatchSize, o.batchSize)
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	store := &Store{contentKey: defaultContentKey}

	doc := schema.Document{
		PageContent: "chunk text",
		Metadata: map[string]any{
			"library_id":  "/vercel/next.js",
			"chunk_index": int64(3),
			"score":       7.5,
			"verified":    true,
			"tags":        []string{"docs", "react"},
		},
	}

	payload := store.documentToPayload(doc)
	restored := store.payloadToDocument(payload)

	assert.Equal(t, doc.PageContent, restored.PageContent)
	assert.Equal(t, "/vercel/next.js", restored.Metadata["library_id"])
	assert.Equal(t, int64(3), restored.Metadata["chunk_index"])
	assert.Equal(t, 7.5, restored.Metadata["score"])
	assert.Equal(t, true, restored.Metadata["verified"])
	assert.Equal(t, []any{"docs", "react"}, restored.Metadata["tags"])
}

func TestBuildFilter(t *testing.T) {
	t.Run("empty filters produce nil", func(t *testing.T) {
		assert.Nil(t, buildFilter(nil))
		assert.Nil(t, buildFilter(map[string]any{}))
	})

	t.Run("unsupported types are skipped", func(t *testing.T) {
		assert.Nil(t, buildFilter(map[string]any{"bad": struct{}{}}))
	})

	t.Run("conditions built per key", func(t *testing.T) {
		filter := buildFilter(map[string]any{
			"library_id": "/vercel/next.js",
			"verified":   true,
		})
		require.NotNil(t, filter)
		assert.Len(t, filter.Must, 2)
	})
}

func TestDocumentID(t *testing.T) {
	store := &Store{}

	t.Run("explicit id preserved", func(t *testing.T) {
		doc := schema.Document{Metadata: map[string]any{"id": "fixed-id"}}
		assert.Equal(t, "fixed-id", store.documentID(doc))
	})

	t.Run("uuid generated otherwise", func(t *testing.T) {
		first := store.documentID(schema.Document{})
		second := store.documentID(schema.Document{})
		assert.NotEmpty(t, first)
		assert.NotEqual(t, first, second)
	})
}
