package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WeekProvider supplies the most recently built week and when its source
// document was fetched.
type WeekProvider func() (DishesByDay, time.Time)

// RegisterMCP registers the menu tools on an MCP server.
func RegisterMCP(srv *mcp.Server, provider WeekProvider) {
	registerWeekTool(srv, provider)
	registerDayTool(srv, provider)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type weekResult struct {
	FetchedAt time.Time   `json:"fetched_at"`
	Dishes    DishesByDay `json:"dishes"`
}

func registerWeekTool(srv *mcp.Server, provider WeekProvider) {
	tool := &mcp.Tool{
		Name:        "menu_week",
		Description: "Return the filtered dishes of the current week, keyed by weekday.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	registerTool(srv, tool, func(_ context.Context, _ json.RawMessage) (any, error) {
		week, fetchedAt := provider()
		if week == nil {
			return nil, errors.New("no menu parsed yet")
		}
		return weekResult{FetchedAt: fetchedAt, Dishes: week}, nil
	})
}

type dayReq struct {
	Day string `json:"day"`
}

func registerDayTool(srv *mcp.Server, provider WeekProvider) {
	tool := &mcp.Tool{
		Name:        "menu_day",
		Description: "Return the filtered dishes for one weekday (German name, e.g. Montag).",
		InputSchema: inputSchema(map[string]any{
			"day": map[string]any{"type": "string", "description": "Weekday name, Montag through Sonntag"},
		}, []string{"day"}),
	}
	registerTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r dayReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		week, _ := provider()
		if week == nil {
			return nil, errors.New("no menu parsed yet")
		}
		dishes, ok := week[r.Day]
		if !ok {
			return nil, fmt.Errorf("unknown weekday: %q", r.Day)
		}
		return map[string]any{"day": r.Day, "dishes": dishes}, nil
	})
}

// registerTool wires an endpoint as an MCP tool, marshalling the response to
// a single text content block.
func registerTool(srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := endpoint(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
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
