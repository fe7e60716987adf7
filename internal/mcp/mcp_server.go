// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the seoscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"SEO Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: score_checks ---
	s.AddTool(mcp.NewTool("score_checks",
		mcp.WithDescription("Aggregate pre-computed SEO check results into a 0-100 score with a green/yellow/red status, a per-check breakdown and ordered recommendations."),
		mcp.WithString("checks", mcp.Description("JSON or YAML mapping of check id to {status, weight, label, fix_hint}."), mcp.Required()),
		mcp.WithString("source", mcp.Description("Name of the page the checks belong to.")),
		mcp.WithString("precedence", mcp.Description("Which weight wins when both exist. Defaults to the server setting."),
			mcp.Enum(string(schema.ProviderFirst), string(schema.EmbeddedFirst))),
	), h.handleScoreChecks)

	// --- 2. Tool: analyze_page ---
	s.AddTool(mcp.NewTool("analyze_page",
		mcp.WithDescription("Run the built-in on-page SEO checks on a URL or an HTML document and score the result."),
		mcp.WithString("url", mcp.Description("http or https URL of the page to fetch.")),
		mcp.WithString("html", mcp.Description("Raw HTML of the page. Used when no url is given.")),
		mcp.WithString("base_url", mcp.Description("URL the html was served from, used to resolve relative links.")),
	), h.handleAnalyzePage)

	// --- 3. Tool: get_weights ---
	s.AddTool(mcp.NewTool("get_weights",
		mcp.WithDescription("List the active weight of every check, including custom overrides."),
	), h.handleGetWeights)

	return s
}

// StartMCPServer starts the seoscore MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
