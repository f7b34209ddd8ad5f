// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Lightbox MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Lightbox Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_metadata ---
	s.AddTool(mcp.NewTool("analyze_metadata",
		mcp.WithDescription("Scan a photo folder and aggregate capture metadata (aperture, shutter speed, ISO, focal length, lens) into distributions."),
		mcp.WithString("folder", mcp.Description("Path to the photo folder (defaults to the configured folder if not specified).")),
		mcp.WithNumber("crop_factor", mcp.Description("Sensor crop factor; adds a 35mm-equivalent focal length view when > 0 (e.g. 1.5 for APS-C).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of buckets per metric.")),
		mcp.WithBoolean("recursive", mcp.Description("Walk subfolders as well. Defaults to true.")),
	), h.handleAnalyzeMetadata)

	// --- 2. Tool: score_sharpness ---
	s.AddTool(mcp.NewTool("score_sharpness",
		mcp.WithDescription("Score every image in a folder for sharpness via block Laplacian variance and label each as sharp, acceptable or blurry."),
		mcp.WithString("folder", mcp.Description("Path to the photo folder.")),
		mcp.WithNumber("grid", mcp.Description("Block grid size per side; the center crop is split into grid x grid blocks. Defaults to 8.")),
		mcp.WithNumber("blur_threshold", mcp.Description("Scores below this count as blurry. Defaults to 100.")),
		mcp.WithNumber("sharp_threshold", mcp.Description("Scores at or above this count as sharp. Defaults to 500.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleScoreSharpness)

	// --- 3. Tool: find_duplicates ---
	s.AddTool(mcp.NewTool("find_duplicates",
		mcp.WithDescription("Find exact-content duplicate images by size bucketing and content hashing. Never deletes anything."),
		mcp.WithString("folder", mcp.Description("Path to the photo folder.")),
		mcp.WithBoolean("recursive", mcp.Description("Walk subfolders as well. Defaults to true.")),
	), h.handleFindDuplicates)

	return s
}

// StartMCPServer starts the Lightbox MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
