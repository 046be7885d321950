package server

import (
	"github.com/ironsheep/pixasobu-mcp/internal/enhance"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and intensity statistics. The decoded image is cached for subsequent image_enhance calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF or WebP)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_list_filters",
			Description: "List the available enhancement filters with a short explanation of each and the parameters it accepts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_enhance",
			Description: "Apply one enhancement filter to an image. Returns the result base64-encoded, or writes it to output_path when given.",
			InputSchema: enhanceSchema(),
		},
	}
}

// enhanceSchema builds the image_enhance input schema. Filter parameters are
// generated from the registry.
func enhanceSchema() map[string]interface{} {
	kinds := enhance.Kinds()
	ids := make([]string, 0, len(kinds))
	for _, k := range kinds {
		ids = append(ids, k.ID())
	}

	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        ids,
			"description": "Filter to apply. Display names such as \"Gaussian Blur\" are also accepted.",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"png", "jpeg"},
			"description": "Inline output encoding (default from server configuration, normally png)",
		},
		"quality": map[string]interface{}{
			"type":        "integer",
			"description": "JPEG quality 1-100 (default 95)",
			"minimum":     1,
			"maximum":     100,
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional file to write instead of returning image data. Extension selects .png or .jpg",
		},
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Optional preview size: downscale so neither side exceeds this before filtering",
			"minimum":     1,
		},
	}

	for _, k := range kinds {
		for _, p := range k.Params() {
			if _, ok := props[p.Name]; ok {
				continue
			}
			prop := map[string]interface{}{
				"type":        "number",
				"description": p.Description + " (" + k.String() + ")",
				"default":     p.Default,
			}
			if p.Integer {
				prop["type"] = "integer"
				prop["minimum"] = p.Min
			} else {
				prop["exclusiveMinimum"] = p.Min
			}
			if p.Max != 0 {
				prop["maximum"] = p.Max
			}
			props[p.Name] = prop
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path", "filter"},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
