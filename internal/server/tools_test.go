package server

import (
	"encoding/json"
	"testing"

	"github.com/ironsheep/pixasobu-mcp/internal/enhance"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_list_filters",
		"image_enhance",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}

			// Schemas are sent to clients as JSON.
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestEnhanceSchema(t *testing.T) {
	schema := enhanceSchema()

	required, ok := schema["required"].([]string)
	if !ok || len(required) != 2 || required[0] != "path" || required[1] != "filter" {
		t.Errorf("required: got %v, want [path filter]", schema["required"])
	}

	props := schema["properties"].(map[string]interface{})

	filter := props["filter"].(map[string]interface{})
	enum := filter["enum"].([]string)
	if len(enum) != len(enhance.Kinds()) {
		t.Errorf("filter enum: got %d values, want %d", len(enum), len(enhance.Kinds()))
	}
	if enum[0] != "histogram_equalization" || enum[len(enum)-1] != "sobel_edge_detection" {
		t.Errorf("filter enum order: got %v", enum)
	}

	tests := []struct {
		name     string
		typ      string
		def      float64
		hasMax   bool
		maxValue float64
	}{
		{enhance.ParamGamma, "number", 1, false, 0},
		{enhance.ParamKernelSize, "integer", 5, true, 21},
		{enhance.ParamOutMin, "integer", 0, true, 254},
		{enhance.ParamOutMax, "integer", 255, true, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, ok := props[tt.name].(map[string]interface{})
			if !ok {
				t.Fatalf("missing property %s", tt.name)
			}
			if prop["type"] != tt.typ {
				t.Errorf("type: got %v, want %s", prop["type"], tt.typ)
			}
			if prop["default"] != tt.def {
				t.Errorf("default: got %v, want %v", prop["default"], tt.def)
			}
			gotMax, hasMax := prop["maximum"]
			if hasMax != tt.hasMax || (hasMax && gotMax != tt.maxValue) {
				t.Errorf("maximum: got %v (present=%v), want %v (present=%v)", gotMax, hasMax, tt.maxValue, tt.hasMax)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleToolsList(req)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if _, ok := result["tools"].([]Tool); !ok {
		t.Fatal("tools should be a slice of Tool")
	}
}
