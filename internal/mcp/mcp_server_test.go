package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
	mcp_internal "github.com/huangsam/seoscore/internal/mcp"
	"github.com/huangsam/seoscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<html lang="en"><head>
<title>Handmade oak furniture built to last for generations</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
</head><body><h1>Oak furniture</h1><p>Tables and chairs.</p></body></html>`

func newTestConfig() *contract.Config {
	weights := make(map[string]float64)
	for id, w := range schema.GetDefaultWeights() {
		weights[string(id)] = w
	}
	return &contract.Config{
		Workers:          1,
		ResultLimit:      contract.DefaultResultLimit,
		Timeout:          5 * time.Second,
		UserAgent:        contract.DefaultUserAgent,
		MaxPageBytes:     contract.DefaultMaxPageBytes,
		Include:          contract.DefaultInclude,
		ComputedWeights:  weights,
		CustomWeights:    map[string]float64{},
		WeightPrecedence: schema.ProviderFirst,
	}
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(newTestConfig(), mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestScoreChecksTool(t *testing.T) {
	t.Run("scores checks", func(t *testing.T) {
		res := callTool(t, "score_checks", map[string]any{
			"checks": `{"title_length": {"status": "pass"}, "meta_description": {"status": "warn", "fix_hint": "Lengthen it."}}`,
			"source": "home",
		})
		require.False(t, res.IsError, resultText(t, res))

		var page schema.PageResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &page))
		assert.Equal(t, "home", page.Source)
		// title_length 2.0 pass, meta_description 1.5 warn: 2.75 / 3.5
		assert.Equal(t, 79, page.Aggregate.Score)
		assert.Equal(t, schema.YellowStatus, page.Aggregate.Status)
		assert.Len(t, page.Aggregate.Recommendations, 1)
	})

	tests := []struct {
		name   string
		args   map[string]any
		errMsg string
	}{
		{name: "missing checks", args: map[string]any{}, errMsg: "checks is required"},
		{name: "not a mapping", args: map[string]any{"checks": `[1, 2]`}, errMsg: "invalid checks"},
		{name: "bad precedence", args: map[string]any{"checks": `{}`, "precedence": "newest"}, errMsg: "invalid precedence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, "score_checks", tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.errMsg)
		})
	}
}

func TestAnalyzePageTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pageHTML))
	}))
	defer srv.Close()

	t.Run("url", func(t *testing.T) {
		res := callTool(t, "analyze_page", map[string]any{"url": srv.URL})
		require.False(t, res.IsError, resultText(t, res))

		var page schema.PageResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &page))
		assert.Equal(t, srv.URL, page.Source)
		assert.Equal(t, schema.PassStatus, page.Checks[string(schema.TitleLengthCheck)].Status)
	})

	t.Run("html", func(t *testing.T) {
		res := callTool(t, "analyze_page", map[string]any{"html": pageHTML, "base_url": "https://example.com/"})
		require.False(t, res.IsError, resultText(t, res))

		var page schema.PageResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &page))
		assert.Equal(t, "https://example.com/", page.Source)
		assert.Len(t, page.Checks, len(schema.AllCheckIDs))
	})

	tests := []struct {
		name   string
		args   map[string]any
		errMsg string
	}{
		{name: "no input", args: map[string]any{}, errMsg: "either url or html is required"},
		{name: "not http", args: map[string]any{"url": "ftp://example.com"}, errMsg: "invalid url"},
		{name: "not found", args: map[string]any{"url": srv.URL + "/missing"}, errMsg: "analysis failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, "analyze_page", tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.errMsg)
		})
	}
}

func TestGetWeightsTool(t *testing.T) {
	res := callTool(t, "get_weights", nil)
	require.False(t, res.IsError)

	var entries []schema.WeightEntry
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entries))
	require.Len(t, entries, len(schema.AllCheckIDs))
	assert.Equal(t, string(schema.TitleLengthCheck), entries[0].CheckID)
}
