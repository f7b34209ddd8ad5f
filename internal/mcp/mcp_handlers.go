package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/lightbox/core"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyFolderOverride resolves and validates a folder argument, if present.
func applyFolderOverride(cfg *contract.Config, request mcp.CallToolRequest) error {
	p := request.GetString("folder", "")
	if p == "" {
		return nil
	}
	folder, err := contract.ResolveFolder(p)
	if err != nil {
		return err
	}
	cfg.Folder = folder
	return nil
}

func (h *toolHandler) handleAnalyzeMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyFolderOverride(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid folder: %v", err)), nil
	}
	if c := request.GetFloat("crop_factor", 0); c > 0 {
		cfg.CropFactor = c
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	cfg.Recursive = request.GetBool("recursive", cfg.Recursive)

	report, err := core.GetMetaReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("metadata scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleScoreSharpness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyFolderOverride(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid folder: %v", err)), nil
	}
	if g := request.GetInt("grid", 0); g != 0 {
		if g < 1 || g > contract.MaxGridSize {
			return mcp.NewToolResultError(fmt.Sprintf("grid must be between 1 and %d (received %d)", contract.MaxGridSize, g)), nil
		}
		cfg.GridSize = g
	}
	if b := request.GetFloat("blur_threshold", -1); b >= 0 {
		cfg.BlurThreshold = b
	}
	if s := request.GetFloat("sharp_threshold", -1); s >= 0 {
		cfg.SharpThreshold = s
	}
	if cfg.SharpThreshold < cfg.BlurThreshold {
		return mcp.NewToolResultError(fmt.Sprintf("sharp_threshold (%g) cannot be below blur_threshold (%g)", cfg.SharpThreshold, cfg.BlurThreshold)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	// The MCP surface never trashes files; culling stays a CLI decision.
	cfg.Trash = false
	cfg.CullBelow = 0

	report, err := core.GetSharpnessReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sharpness scan failed: %v", err)), nil
	}

	enriched := schema.EnrichSharpnessResults(report.Results)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFindDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyFolderOverride(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid folder: %v", err)), nil
	}
	cfg.Recursive = request.GetBool("recursive", cfg.Recursive)

	// The MCP surface never trashes files.
	cfg.Trash = false

	report, err := core.GetDupeReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duplicate scan failed: %v", err)), nil
	}

	enriched := schema.EnrichDuplicateGroups(report.Groups)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
