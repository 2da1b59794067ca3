// Package ollama implements the embeddings.Embedder interface against a
// local or remote Ollama server using its /api/embed endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sevigo/docpipe/embeddings"
)

const (
	DefaultURL   = "http://127.0.0.1:11434"
	DefaultModel = "nomic-embed-text"

	defaultTimeout = 5 * time.Minute
)

var (
	ErrModelNotFound  = errors.New("model not found on ollama server")
	ErrEmptyEmbedding = errors.New("ollama returned an empty embedding")
)

// Embedder talks to an Ollama server. Construct it with New; the zero
// value is not usable.
type Embedder struct {
	baseURL    *url.URL
	httpClient *http.Client
	model      string
	logger     *slog.Logger

	dimOnce   sync.Once
	dimension int
	dimErr    error
}

var _ embeddings.Embedder = (*Embedder)(nil)

// New creates an Ollama embedder. The server URL is taken from options,
// then the OLLAMA_URL environment variable, then DefaultURL.
func New(opts ...Option) (*Embedder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rawURL := o.serverURL
	if rawURL == "" {
		rawURL = os.Getenv("OLLAMA_URL")
	}
	if rawURL == "" {
		rawURL = DefaultURL
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama URL: %w", err)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Embedder{
		baseURL:    baseURL,
		httpClient: httpClient,
		model:      o.model,
		logger:     o.logger.With("component", "ollama_embedder", "model", o.model),
	}, nil
}

// EmbedDocuments embeds a batch of texts in a single API call.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	}

	start := time.Now()
	var resp api.EmbedResponse
	if err := e.doRequest(ctx, "/api/embed", req, &resp); err != nil {
		e.logger.ErrorContext(ctx, "Embedding request failed",
			"error", err, "texts", len(texts), "duration", time.Since(start))
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			embeddings.ErrCountMismatch, len(texts), len(resp.Embeddings))
	}

	e.logger.DebugContext(ctx, "Embedded documents",
		"texts", len(texts), "duration", time.Since(start))
	return resp.Embeddings, nil
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embeddings.ErrEmptyText
	}

	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vectors[0], nil
}

// GetDimension probes the model with a sample text and caches the result.
func (e *Embedder) GetDimension(ctx context.Context) (int, error) {
	e.dimOnce.Do(func() {
		vec, err := e.EmbedQuery(ctx, "dimension probe")
		if err != nil {
			e.dimErr = fmt.Errorf("failed to determine embedding dimension: %w", err)
			return
		}
		e.dimension = len(vec)
	})
	return e.dimension, e.dimErr
}

// ModelExists checks whether the configured model is available on the server.
func (e *Embedder) ModelExists(ctx context.Context) (bool, error) {
	req := &api.ShowRequest{Model: e.model}
	var resp api.ShowResponse
	if err := e.doRequest(ctx, "/api/show", req, &resp); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (e *Embedder) doRequest(ctx context.Context, path string, reqData, respData any) error {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(reqData); err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := e.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return e.decodeError(response)
	}

	if err := json.NewDecoder(response.Body).Decode(respData); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (e *Embedder) decodeError(response *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(response.Body, 4096))
	if err != nil {
		return fmt.Errorf("ollama server returned status %d", response.StatusCode)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Error != "" {
		if response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Error)
		}
		return fmt.Errorf("ollama server error (status %d): %s", response.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("ollama server returned status %d: %s", response.StatusCode, strings.TrimSpace(string(data)))
}
