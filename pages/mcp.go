package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers read-only page inspection tools on an MCP server.
// Generation stays on the HTTP surface; these tools only observe the store.
func RegisterMCP(srv *mcp.Server, s *Store) {
	registerGetTool(srv, s)
	registerListTool(srv, s)
	registerHistoryTool(srv, s)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// addTool wires a typed endpoint as an MCP tool: decode arguments, run,
// marshal the result as JSON text content.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		resp, err := endpoint(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- page_get ---

type getReq struct {
	Path string `json:"path"`
}

func registerGetTool(srv *mcp.Server, s *Store) {
	tool := &mcp.Tool{
		Name:        "page_get",
		Description: "Fetch the stored page at an exact path, including its HTML content.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Normalized page path, e.g. /about"},
		}, []string{"path"}),
	}
	addTool(srv, tool, func(ctx context.Context, r *getReq) (any, error) {
		page, err := s.Get(ctx, r.Path)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, fmt.Errorf("no page at %s", r.Path)
		}
		return page, nil
	})
}

// --- page_list ---

type listReq struct{}

func registerListTool(srv *mcp.Server, s *Store) {
	tool := &mcp.Tool{
		Name:        "page_list",
		Description: "List all stored pages with timestamps and history length (no content).",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(ctx context.Context, _ *listReq) (any, error) {
		all, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		type entry struct {
			Path      string `json:"path"`
			Prompts   int    `json:"prompts"`
			CreatedAt string `json:"created_at"`
			UpdatedAt string `json:"updated_at"`
		}
		entries := make([]entry, 0, len(all))
		for _, p := range all {
			entries = append(entries, entry{
				Path:      p.Path,
				Prompts:   len(p.PromptHistory),
				CreatedAt: p.CreatedAt,
				UpdatedAt: p.UpdatedAt,
			})
		}
		return map[string]any{"pages": entries, "count": len(entries)}, nil
	})
}

// --- page_history ---

type historyReq struct {
	Path string `json:"path"`
}

func registerHistoryTool(srv *mcp.Server, s *Store) {
	tool := &mcp.Tool{
		Name:        "page_history",
		Description: "Return the full prompt history of a page, oldest first.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Normalized page path"},
		}, []string{"path"}),
	}
	addTool(srv, tool, func(ctx context.Context, r *historyReq) (any, error) {
		page, err := s.Get(ctx, r.Path)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, fmt.Errorf("no page at %s", r.Path)
		}
		return map[string]any{"path": page.Path, "prompt_history": page.PromptHistory}, nil
	})
}
