// Package context7 is a thin client for the Context7 MCP documentation API:
// it resolves free-form library names to Context7-compatible library IDs and
// fetches markdown documentation for a resolved library.
package context7

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"context"
)

const (
	DefaultEndpoint = "https://mcp.context7.com/mcp"
	DefaultTimeout  = 30 * time.Second
)

// Client talks JSON-RPC 2.0 to a Context7 MCP endpoint.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Context7 client. A nil baseURL falls back to the
// CONTEXT7_URL environment variable and then to the public endpoint; a nil
// httpClient gets a sensible default.
func NewClient(baseURL *url.URL, httpClient *http.Client, opts ...Option) (*Client, error) {
	if baseURL == nil {
		var err error
		baseURL, err = getDefaultURL()
		if err != nil {
			return nil, err
		}
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:      100,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     o.logger.With("component", "context7_client"),
	}, nil
}

// NewDefaultClient creates a client against the public endpoint.
func NewDefaultClient(opts ...Option) (*Client, error) {
	return NewClient(nil, nil, opts...)
}

func getDefaultURL() (*url.URL, error) {
	endpoint := os.Getenv("CONTEXT7_URL")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	baseURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CONTEXT7_URL: %w", err)
	}
	return baseURL, nil
}

// ResolveLibrary resolves a free-form library name (e.g. "React") to a
// Context7-compatible library ID plus the metadata the service reports for
// it. The query gives the service context for disambiguation.
func (c *Client) ResolveLibrary(ctx context.Context, libraryName, query string) (*Library, error) {
	if strings.TrimSpace(libraryName) == "" {
		return nil, ErrEmptyLibraryName
	}

	text, err := c.callTool(ctx, "resolve-library-id", map[string]any{
		"libraryName": libraryName,
		"query":       query,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve-library-id failed: %w", err)
	}

	libraryID := extractLibraryID(text)
	if libraryID == "" {
		return nil, ErrNoLibraryID
	}

	library := extractLibraryMetadata(text, libraryID)
	c.logger.Debug("resolved library",
		"name", libraryName, "id", library.ID, "score", library.BenchmarkScore)
	return library, nil
}

// QueryDocs fetches markdown documentation for a resolved library ID.
func (c *Client) QueryDocs(ctx context.Context, libraryID, query string) (string, error) {
	if strings.TrimSpace(libraryID) == "" {
		return "", ErrEmptyLibraryID
	}

	text, err := c.callTool(ctx, "query-docs", map[string]any{
		"libraryId": libraryID,
		"query":     query,
	})
	if err != nil {
		return "", fmt.Errorf("query-docs failed: %w", err)
	}

	c.logger.Debug("fetched documentation", "library_id", libraryID, "chars", len(text))
	return text, nil
}

// callTool performs a tools/call request and returns the first text content
// block of the result.
func (c *Client) callTool(ctx context.Context, tool string, arguments map[string]any) (string, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params: rpcParams{
			Name:      tool,
			Arguments: arguments,
		},
	}

	var resp rpcResponse
	if err := c.doRequest(ctx, req, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil || len(resp.Result.Content) == 0 || resp.Result.Content[0].Text == "" {
		return "", ErrEmptyResponse
	}

	return resp.Result.Content[0].Text, nil
}

func (c *Client) doRequest(ctx context.Context, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
