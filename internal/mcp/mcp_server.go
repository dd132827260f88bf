// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Shared argument descriptions.
const (
	detectorIDDesc = "ID of the anomaly detector or forecaster."
	startDesc      = "Range start as RFC3339 or 'N units ago' (defaults to 7 days before end)."
	endDesc        = "Range end as RFC3339 or 'N units ago' (defaults to now)."
	entitiesDesc   = "Entity filter as field=value pairs, e.g. ['host=a', 'region=us']."
)

// NewMCPServer initializes and configures the adviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.ResultSource) *server.MCPServer {
	s := server.NewMCPServer(
		"Adviz Result Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
	}

	// --- 1. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Get the downsampled anomaly or feature series of a detector with missing-data annotations."),
		mcp.WithString("detector_id", mcp.Description(detectorIDDesc), mcp.Required()),
		mcp.WithString("start", mcp.Description(startDesc)),
		mcp.WithString("end", mcp.Description(endDesc)),
		mcp.WithArray("entities", mcp.Description(entitiesDesc+" Required for high-cardinality detectors."), mcp.WithStringItems()),
		mcp.WithString("feature", mcp.Description("Feature to chart instead of the anomaly grade.")),
		mcp.WithNumber("max_points", mcp.Description("Point budget for the downsampled series.")),
	), h.handleGetSeries)

	// --- 2. Tool: get_missing_data ---
	s.AddTool(mcp.NewTool("get_missing_data",
		mcp.WithDescription("List every expected detection interval of a series and whether its data arrived."),
		mcp.WithString("detector_id", mcp.Description(detectorIDDesc), mcp.Required()),
		mcp.WithString("start", mcp.Description(startDesc)),
		mcp.WithString("end", mcp.Description(endDesc)),
		mcp.WithArray("entities", mcp.Description(entitiesDesc), mcp.WithStringItems()),
		mcp.WithString("feature", mcp.Description("Feature whose data points are checked.")),
	), h.handleGetMissingData)

	// --- 3. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Build the entity by time heatmap of a high-cardinality detector."),
		mcp.WithString("detector_id", mcp.Description(detectorIDDesc), mcp.Required()),
		mcp.WithString("start", mcp.Description(startDesc)),
		mcp.WithString("end", mcp.Description(endDesc)),
		mcp.WithArray("entities", mcp.Description(entitiesDesc+" Used as the parent of child fields."), mcp.WithStringItems()),
		mcp.WithArray("children", mcp.Description("Child fields as field=v1,v2; a bare field lists all values."), mcp.WithStringItems()),
		mcp.WithNumber("num_cells", mcp.Description("Number of time columns.")),
		mcp.WithNumber("top", mcp.Description("Number of entity rows kept.")),
		mcp.WithString("sort", mcp.Description("Row order. Defaults to 'severity'."), mcp.Enum("severity", "occurrence")),
		mcp.WithBoolean("precomputed", mcp.Description("Use buckets aggregated by the source instead of raw results.")),
	), h.handleGetHeatmap)

	// --- 4. Tool: expand_entity_combos ---
	s.AddTool(mcp.NewTool("expand_entity_combos",
		mcp.WithDescription("Expand parent entities by child field values into entity combinations."),
		mcp.WithString("detector_id", mcp.Description(detectorIDDesc), mcp.Required()),
		mcp.WithArray("entities", mcp.Description(entitiesDesc), mcp.WithStringItems()),
		mcp.WithArray("children", mcp.Description("Child fields as field=v1,v2; a bare field lists all values."), mcp.WithStringItems(), mcp.Required()),
		mcp.WithBoolean("fetch", mcp.Description("Also return the downsampled series of every combination.")),
		mcp.WithString("start", mcp.Description(startDesc)),
		mcp.WithString("end", mcp.Description(endDesc)),
	), h.handleExpandEntityCombos)

	return s
}

// StartMCPServer starts the adviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.ResultSource) error {
	s := NewMCPServer(baseCfg, src)
	return server.ServeStdio(s)
}
