package context7

import (
	"encoding/json"
	"errors"
)

var (
	ErrEmptyLibraryName = errors.New("context7: library name cannot be empty")
	ErrEmptyLibraryID   = errors.New("context7: library id cannot be empty")
	ErrNoLibraryID      = errors.New("context7: could not extract a library id from the resolve response")
	ErrEmptyResponse    = errors.New("context7: response contained no content")
)

// Library describes a resolved documentation library as reported by the
// resolve-library-id tool.
type Library struct {
	ID             string  `json:"library_id"`
	Name           string  `json:"library_name"`
	Description    string  `json:"description"`
	SnippetCount   int     `json:"snippet_count"`
	Reputation     string  `json:"source_reputation"`
	BenchmarkScore float64 `json:"benchmark_score"`
}

// JSON-RPC 2.0 envelope for the MCP endpoint.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  *toolResult     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

type toolResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
