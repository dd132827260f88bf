package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/adviz/core"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.ResultSource
}

// prepare clones the base config and applies the request arguments to it.
func (h *toolHandler) prepare(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateToolArgs(cfg, contract.ToolArgs{
		DetectorID: request.GetString("detector_id", ""),
		Start:      request.GetString("start", ""),
		End:        request.GetString("end", ""),
		Entities:   request.GetStringSlice("entities", nil),
		Children:   request.GetStringSlice("children", nil),
		Feature:    request.GetString("feature", ""),
		MaxPoints:  request.GetInt("max_points", 0),
		NumCells:   request.GetInt("num_cells", 0),
		Top:        request.GetInt("top", 0),
		Sort:       request.GetString("sort", ""),
	})
	return cfg, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, err := core.GetSeriesResult(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetMissingData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid missing-data parameters: %v", err)), nil
	}

	result, err := core.GetMissingResult(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing-data check failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid heatmap parameters: %v", err)), nil
	}
	cfg.Precomputed = request.GetBool("precomputed", cfg.Precomputed)

	result, err := core.GetHeatmapResult(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleExpandEntityCombos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid combo parameters: %v", err)), nil
	}
	if len(cfg.Children) == 0 {
		return mcp.NewToolResultError("invalid combo parameters: at least one child field is required"), nil
	}
	cfg.Fetch = request.GetBool("fetch", false)

	result, err := core.GetComboResult(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("combo expansion failed: %v", err)), nil
	}
	return jsonResult(result)
}
