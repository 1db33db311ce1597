package track

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/revue/kit"
	"github.com/hazyhaar/revue/report"
)

// RegisterMCP registers the revue tools on an MCP server, exposing the
// session to AI-agent clients: report export, pause/resume, option merge,
// manual highlight.
func (t *Tracker) RegisterMCP(srv *mcp.Server) {
	t.registerReportsTool(srv)
	t.registerPauseTool(srv)
	t.registerResumeTool(srv)
	t.registerOptionsTool(srv)
	t.registerHighlightTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
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

func mcpCtx(ctx context.Context) context.Context {
	return kit.WithTransport(ctx, "mcp")
}

// --- reports ---

func (t *Tracker) registerReportsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "revue_reports",
		Description: "Export the latest render record for every observed component: name, update count, timestamp.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"reports": t.AllReports()}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil, EnrichCtx: mcpCtx}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- pause / resume ---

func (t *Tracker) registerPauseTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "revue_pause",
		Description: "Pause instrumentation: subsequent render events are ignored and the overlay is cleared.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		t.Stop()
		return map[string]any{"paused": true}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil, EnrichCtx: mcpCtx}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (t *Tracker) registerResumeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "revue_resume",
		Description: "Resume instrumentation after a pause.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		t.Start()
		return map[string]any{"paused": false}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil, EnrichCtx: mcpCtx}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- update options ---

func (t *Tracker) registerOptionsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "revue_update_options",
		Description: "Merge a partial option update. Absent fields are preserved; present fields override, including with false.",
		InputSchema: inputSchema(map[string]any{
			"enabled":       map[string]any{"type": "boolean", "description": "Gate instrumentation registration"},
			"log":           map[string]any{"type": "boolean", "description": "Log every render record"},
			"play_sound":    map[string]any{"type": "boolean", "description": "Play a 440Hz cue per render"},
			"show_overlay":  map[string]any{"type": "boolean", "description": "Draw fading highlight rectangles"},
			"track_updates": map[string]any{"type": "boolean", "description": "Master switch for the event pipeline"},
		}, nil),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		p := req.(*report.OptionsPatch)
		return t.UpdateOptions(*p), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p report.OptionsPatch
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &p, EnrichCtx: mcpCtx}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- highlight ---

type highlightRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (t *Tracker) registerHighlightTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "revue_highlight",
		Description: "Draw a one-off fading highlight rectangle at viewport coordinates, clearing prior shapes first.",
		InputSchema: inputSchema(map[string]any{
			"x":      map[string]any{"type": "number", "description": "Left edge, viewport px"},
			"y":      map[string]any{"type": "number", "description": "Top edge, viewport px"},
			"width":  map[string]any{"type": "number", "description": "Width, px"},
			"height": map[string]any{"type": "number", "description": "Height, px"},
		}, []string{"x", "y", "width", "height"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*highlightRequest)
		t.HighlightRect(r.X, r.Y, r.Width, r.Height)
		return map[string]string{"status": "drawn"}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r highlightRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r, EnrichCtx: mcpCtx}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
