package context7

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resolveResponseText = `Available Libraries:

----------
- Title: React
- Context7-compatible library ID: /facebook/react
- Description: The library for web and native user interfaces.
- Code Snippets: 3216
- Source Reputation: High
- Benchmark Score: 91.4
----------
- Title: React Router
- Context7-compatible library ID: /remix-run/react-router
- Description: Declarative routing for React.
- Code Snippets: 812
- Source Reputation: High
- Benchmark Score: 74.2
`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	client, err := NewClient(baseURL, server.Client())
	require.NoError(t, err)
	return client
}

func rpcTextResponse(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()

	resp := rpcResponse{
		JSONRPC: "2.0",
		ID:      1,
		Result: &toolResult{
			Content: []contentBlock{{Type: "text", Text: text}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestClient_ResolveLibrary(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tools/call", req.Method)
		assert.Equal(t, "resolve-library-id", req.Params.Name)
		assert.Equal(t, "React", req.Params.Arguments["libraryName"])

		rpcTextResponse(t, w, resolveResponseText)
	})

	library, err := client.ResolveLibrary(ctx, "React", "how to use hooks")
	require.NoError(t, err)

	assert.Equal(t, "/facebook/react", library.ID)
	assert.Equal(t, "React", library.Name)
	assert.Equal(t, "The library for web and native user interfaces.", library.Description)
	assert.Equal(t, 3216, library.SnippetCount)
	assert.Equal(t, "High", library.Reputation)
	assert.InDelta(t, 91.4, library.BenchmarkScore, 1e-9)
}

func TestClient_ResolveLibrary_EmptyName(t *testing.T) {
	client, err := NewDefaultClient()
	require.NoError(t, err)

	_, err = client.ResolveLibrary(context.Background(), "  ", "query")
	assert.ErrorIs(t, err, ErrEmptyLibraryName)
}

func TestClient_ResolveLibrary_NoID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		rpcTextResponse(t, w, "No matching libraries found.")
	})

	_, err := client.ResolveLibrary(context.Background(), "nonexistent", "query")
	assert.ErrorIs(t, err, ErrNoLibraryID)
}

func TestClient_QueryDocs(t *testing.T) {
	const docText = "### Hooks\nUse useState for local state."

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "query-docs", req.Params.Name)
		assert.Equal(t, "/facebook/react", req.Params.Arguments["libraryId"])

		rpcTextResponse(t, w, docText)
	})

	docs, err := client.QueryDocs(context.Background(), "/facebook/react", "hooks")
	require.NoError(t, err)
	assert.Equal(t, docText, docs)
}

func TestClient_QueryDocs_RPCError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := rpcResponse{
			JSONRPC: "2.0",
			ID:      1,
			Error:   &rpcError{Code: -32602, Message: "unknown library"},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := client.QueryDocs(context.Background(), "/no/such", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown library")
}

func TestClient_QueryDocs_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.QueryDocs(context.Background(), "/facebook/react", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestExtractLibraryID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "explicit label",
			text: "Context7-compatible library ID: /vercel/next.js",
			want: "/vercel/next.js",
		},
		{
			name: "fallback pattern",
			text: "see /facebook/react for details",
			want: "/facebook/react",
		},
		{
			name: "placeholder skipped",
			text: "use the form /org/project, for example /clickhouse/clickhouse",
			want: "/clickhouse/clickhouse",
		},
		{
			name: "versioned id",
			text: "Context7-compatible library ID: /vercel/next.js/v14.3.0",
			want: "/vercel/next.js/v14.3.0",
		},
		{
			name: "nothing",
			text: "no ids here",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractLibraryID(tt.text))
		})
	}
}

func TestExtractLibraryMetadata_MissingSection(t *testing.T) {
	library := extractLibraryMetadata("unrelated text", "/facebook/react")
	assert.Equal(t, "/facebook/react", library.ID)
	assert.Equal(t, "react", library.Name)
	assert.Equal(t, "Unknown", library.Reputation)
	assert.Zero(t, library.SnippetCount)
}
