// Package tools provides the MCP tool implementations for visakha-admin.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

const (
	defaultSearchLimit = 3
	maxSearchLimit     = 25
)

// KnowledgeToolDeps contains dependencies for the knowledge search tool.
type KnowledgeToolDeps struct {
	Repo   repositories.KnowledgeRepository
	Logger *zap.Logger
}

// RegisterKnowledgeTools registers the golden knowledge MCP tools.
func RegisterKnowledgeTools(s *server.MCPServer, deps *KnowledgeToolDeps) {
	registerSearchGoldenKnowledgeTool(s, deps)
}

// registerSearchGoldenKnowledgeTool adds the search_golden_knowledge tool over
// the synced rag_knowledge collection.
func registerSearchGoldenKnowledgeTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"search_golden_knowledge",
		mcp.WithDescription(
			"Search the curated golden knowledge base for answers reviewed by the "+
				"support team. Matches the query as a case-insensitive substring of "+
				"the question, answer, or tags. Use this before answering questions "+
				"the team may already have an approved answer for.",
		),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Search text (e.g., 'refund policy', 'password reset')"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of results to return (default 3, max 25)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		query = strings.TrimSpace(query)
		if query == "" {
			return NewErrorResult("invalid_parameters", "query parameter cannot be empty"), nil
		}

		limit := defaultSearchLimit
		if limitVal, ok := req.Params.Arguments.(map[string]any)["limit"]; ok {
			if limitFloat, ok := limitVal.(float64); ok && limitFloat > 0 {
				limit = int(limitFloat)
			}
		}
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}

		results, err := deps.Repo.SearchRagResults(ctx, query, int64(limit))
		if err != nil {
			deps.Logger.Error("Golden knowledge search failed",
				zap.String("query", query),
				zap.Error(err))
			return nil, fmt.Errorf("failed to search golden knowledge: %w", err)
		}

		jsonResult, err := json.Marshal(results)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}

		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
