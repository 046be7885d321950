package server

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/pixasobu-mcp/internal/enhance"
	"github.com/ironsheep/pixasobu-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("tools/call %s failed after %v: %v", params.Name, time.Since(start), err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	if s.cfg.Debug {
		log.Printf("tools/call %s completed in %v (%d images cached)", params.Name, time.Since(start), s.cache.Len())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_list_filters":
		return s.handleListFilters()
	case "image_enhance":
		return s.handleImageEnhance(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. A missing arguments object is
// treated as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === image_load ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === image_list_filters ===

// FilterInfo describes one filter for image_list_filters.
type FilterInfo struct {
	Name        string              `json:"name"`
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Params      []enhance.ParamInfo `json:"params"`
}

// FilterListResult is the image_list_filters result.
type FilterListResult struct {
	Filters []FilterInfo `json:"filters"`
	Count   int          `json:"count"`
}

func (s *Server) handleListFilters() (interface{}, error) {
	kinds := enhance.Kinds()
	result := &FilterListResult{
		Filters: make([]FilterInfo, 0, len(kinds)),
		Count:   len(kinds),
	}
	for _, k := range kinds {
		params := k.Params()
		if params == nil {
			params = []enhance.ParamInfo{}
		}
		result.Filters = append(result.Filters, FilterInfo{
			Name:        k.String(),
			ID:          k.ID(),
			Description: k.Description(),
			Params:      params,
		})
	}
	return result, nil
}

// === image_enhance ===

// Filter parameters are pointers so an omitted value takes the filter's
// default while an explicit 0 is still validated.
type imageEnhanceArgs struct {
	Path         string   `json:"path"`
	Filter       string   `json:"filter"`
	Gamma        *float64 `json:"gamma"`
	KernelSize   *float64 `json:"kernel_size"`
	OutMin       *float64 `json:"out_min"`
	OutMax       *float64 `json:"out_max"`
	Format       string   `json:"format"`
	Quality      int      `json:"quality"`
	OutputPath   string   `json:"output_path"`
	MaxDimension int      `json:"max_dimension"`
}

func (a *imageEnhanceArgs) params() enhance.Params {
	p := enhance.Params{}
	for name, v := range map[string]*float64{
		enhance.ParamGamma:      a.Gamma,
		enhance.ParamKernelSize: a.KernelSize,
		enhance.ParamOutMin:     a.OutMin,
		enhance.ParamOutMax:     a.OutMax,
	} {
		if v != nil {
			p[name] = *v
		}
	}
	return p
}

// EnhanceResult is the image_enhance result. Exactly one of Image and Saved
// is set.
type EnhanceResult struct {
	Filter   string                  `json:"filter"`
	FilterID string                  `json:"filter_id"`
	Width    int                     `json:"width"`
	Height   int                     `json:"height"`
	Channels int                     `json:"channels"`
	Before   *imaging.IntensityStats `json:"before"`
	After    *imaging.IntensityStats `json:"after"`
	Image    *imaging.EncodeResult   `json:"image,omitempty"`
	Saved    *imaging.SaveResult     `json:"saved,omitempty"`
}

func (s *Server) handleImageEnhance(args json.RawMessage) (interface{}, error) {
	var a imageEnhanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Everything the caller controls is validated before the image is read.
	spec, err := enhance.ParseSpec(a.Filter, a.params())
	if err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = s.cfg.OutputFormat
	}
	if a.Quality == 0 {
		a.Quality = s.cfg.JPEGQuality
	}
	if err := imaging.CheckQuality(a.Quality); err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if _, err := imaging.SaveFormat(a.OutputPath); err != nil {
			return nil, err
		}
	} else if _, err := imaging.ParseFormat(a.Format); err != nil {
		return nil, err
	}
	if a.MaxDimension < 0 {
		return nil, fmt.Errorf("max_dimension must be positive, got %d", a.MaxDimension)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img = imaging.Fit(img, a.MaxDimension)

	src, err := imaging.ToBuffer(img)
	if err != nil {
		return nil, err
	}
	dst, err := enhance.Apply(src, spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Kind(), err)
	}

	before, err := imaging.Stats(src)
	if err != nil {
		return nil, err
	}
	after, err := imaging.Stats(dst)
	if err != nil {
		return nil, err
	}

	out, err := imaging.FromBuffer(dst)
	if err != nil {
		return nil, err
	}

	result := &EnhanceResult{
		Filter:   spec.Kind().String(),
		FilterID: spec.Kind().ID(),
		Width:    dst.Width,
		Height:   dst.Height,
		Channels: dst.Channels,
		Before:   before,
		After:    after,
	}

	if a.OutputPath != "" {
		result.Saved, err = imaging.Save(out, a.OutputPath, a.Quality)
	} else {
		result.Image, err = imaging.Encode(out, a.Format, a.Quality)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
