package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/seoscore/core"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/fetch"
	"github.com/huangsam/seoscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// jsonResult encodes v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleScoreChecks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("precedence", ""); p != "" {
		precedence := schema.WeightPrecedence(strings.ToLower(p))
		if _, ok := schema.ValidWeightPrecedences[precedence]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid precedence %q: must be provider or embedded", p)), nil
		}
		cfg.WeightPrecedence = precedence
	}

	doc := request.GetString("checks", "")
	if strings.TrimSpace(doc) == "" {
		return mcp.NewToolResultError("checks is required"), nil
	}
	parsed, err := schema.ParseChecks([]byte(doc))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid checks: %v", err)), nil
	}

	source := request.GetString("source", "checks")
	return jsonResult(core.ScoreChecks(cfg.NewScoreEngine(), source, parsed))
}

func (h *toolHandler) handleAnalyzePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	pageURL := strings.TrimSpace(request.GetString("url", ""))
	html := request.GetString("html", "")

	var (
		result schema.PageResult
		err    error
	)
	switch {
	case pageURL != "":
		if !fetch.IsURL(pageURL) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid url %q: only http and https are supported", pageURL)), nil
		}
		result, err = core.AnalyzeSource(core.WithSuppressHeader(ctx), cfg, h.mgr, pageURL)
	case strings.TrimSpace(html) != "":
		baseURL := request.GetString("base_url", "")
		source := baseURL
		if source == "" {
			source = "html"
		}
		result, err = core.AnalyzeHTML(ctx, cfg, source, []byte(html), baseURL)
	default:
		return mcp.NewToolResultError("either url or html is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetWeights(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.BuildWeightEntries(h.baseCfg.Clone()))
}
