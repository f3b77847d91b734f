package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

var scheduleProp = map[string]any{
	"type":        "array",
	"description": "Weekdays the tracker recurs on (mon..sun or 1..7). Empty for an irregular event.",
	"items": map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string", "enum": []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}},
			map[string]any{"type": "integer", "minimum": 1, "maximum": 7},
		},
	},
}

const dateDescription = "Calendar day as YYYY-MM-DD (omit for today)"

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Categories
		{
			Name:        "create_category",
			Description: "Create a category to group trackers",
			InputSchema: objectSchema(map[string]any{
				"id":    stringProp("Category ID (optional, generated if omitted)"),
				"title": stringProp("Unique category title"),
			}, "title"),
		},
		{
			Name:        "list_categories",
			Description: "List categories, optionally with their trackers",
			InputSchema: objectSchema(map[string]any{
				"include_trackers": boolProp("Include each category's trackers"),
			}),
		},
		{
			Name:        "delete_category",
			Description: "Delete an empty category",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Category ID"),
			}, "id"),
		},
		{
			Name:        "select_category",
			Description: "Mark a category as selected; new trackers default to it",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Category ID"),
			}, "id"),
		},
		{
			Name:        "get_selected_category",
			Description: "Get the selected category, or null",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Trackers
		{
			Name:        "create_tracker",
			Description: "Create a habit (with schedule) or irregular event (without)",
			InputSchema: objectSchema(map[string]any{
				"id":          stringProp("Tracker ID (optional, generated if omitted)"),
				"category_id": stringProp("Category ID (omit to use the selected or default category)"),
				"title":       stringProp("Title, at most 38 characters"),
				"color":       stringProp("Display color"),
				"emoji":       stringProp("Display emoji"),
				"schedule":    scheduleProp,
			}, "title", "color", "emoji"),
		},
		{
			Name:        "update_tracker",
			Description: "Update tracker fields; omitted fields are unchanged",
			InputSchema: objectSchema(map[string]any{
				"id":          stringProp("Tracker ID"),
				"category_id": stringProp("New category ID"),
				"title":       stringProp("New title"),
				"color":       stringProp("New color"),
				"emoji":       stringProp("New emoji"),
				"schedule":    scheduleProp,
			}, "id"),
		},
		{
			Name:        "delete_tracker",
			Description: "Delete a tracker and all of its completions",
			InputSchema: objectSchema(map[string]any{
				"id": stringProp("Tracker ID"),
			}, "id"),
		},
		{
			Name:        "pin_tracker",
			Description: "Pin or unpin a tracker",
			InputSchema: objectSchema(map[string]any{
				"id":     stringProp("Tracker ID"),
				"pinned": boolProp("Pinned state (default true)"),
			}, "id"),
		},
		{
			Name:        "get_tracker",
			Description: "Get a tracker with its completion count and state on a date",
			InputSchema: objectSchema(map[string]any{
				"id":   stringProp("Tracker ID"),
				"date": stringProp(dateDescription),
			}, "id"),
		},
		{
			Name:        "list_trackers",
			Description: "List all trackers with completion counts",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Completions
		{
			Name:        "complete_tracker",
			Description: "Mark a tracker done on a date (idempotent)",
			InputSchema: objectSchema(map[string]any{
				"tracker_id": stringProp("Tracker ID"),
				"date":       stringProp(dateDescription),
			}, "tracker_id"),
		},
		{
			Name:        "uncomplete_tracker",
			Description: "Remove a tracker's completion on a date (idempotent)",
			InputSchema: objectSchema(map[string]any{
				"tracker_id": stringProp("Tracker ID"),
				"date":       stringProp(dateDescription),
			}, "tracker_id"),
		},
		{
			Name:        "toggle_completion",
			Description: "Flip a tracker's completion on a date",
			InputSchema: objectSchema(map[string]any{
				"tracker_id": stringProp("Tracker ID"),
				"date":       stringProp(dateDescription),
			}, "tracker_id"),
		},
		{
			Name:        "get_completion",
			Description: "Check whether a tracker is done on a date",
			InputSchema: objectSchema(map[string]any{
				"tracker_id": stringProp("Tracker ID"),
				"date":       stringProp(dateDescription),
			}, "tracker_id"),
		},

		// Board and statistics
		{
			Name:        "get_board",
			Description: "Categories and trackers visible on a date after filter and search",
			InputSchema: objectSchema(map[string]any{
				"date": stringProp(dateDescription),
				"filter": map[string]any{
					"type":        "string",
					"enum":        []string{"all", "today", "completed", "not_completed"},
					"description": "Type filter (default all)",
				},
				"search":       stringProp("Case-insensitive title substring"),
				"group_pinned": boolProp("Lift pinned trackers into a leading Pinned group"),
			}),
		},
		{
			Name:        "get_statistics",
			Description: "Best streak, perfect days, total completions and daily average",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Activity
		{
			Name:        "track_screen_event",
			Description: "Record a screen open, close or click",
			InputSchema: objectSchema(map[string]any{
				"action": map[string]any{
					"type":        "string",
					"enum":        []string{"open", "close", "click"},
					"description": "Screen action",
				},
				"screen": stringProp("Screen name"),
				"item":   stringProp("Clicked item (click only)"),
			}, "action", "screen"),
		},
		{
			Name:        "get_recent_activity",
			Description: "Recent analytics events, newest first",
			InputSchema: objectSchema(map[string]any{
				"tracker_id": stringProp("Only events for this tracker"),
				"session_id": stringProp("Only events from this session"),
				"type":       stringProp("Event type"),
				"since":      stringProp("RFC3339 lower bound"),
				"limit":      intProp("Maximum entries"),
				"offset":     intProp("Entries to skip"),
			}),
		},
	}
}

// registerTools exposes every catalog entry through the handler.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	if handler == nil {
		return
	}
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, getSessionID(ctx), name, args)
			return toolResult(result, err), nil
		})
	}
}

// toolResult renders a handler result, or its mapped error, as JSON text.
func toolResult(result any, err error) *sdkmcp.CallToolResult {
	payload := result
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
		}
		payload = apiErr
	}
	data, mErr := json.Marshal(payload)
	if mErr != nil {
		return &sdkmcp.CallToolResult{
			IsError: true,
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: mErr.Error()}},
		}
	}
	return &sdkmcp.CallToolResult{
		IsError: err != nil,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
