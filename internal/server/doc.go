// Package server implements the MCP (Model Context Protocol) server that
// exposes the enhancement filters as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and report metadata and intensity statistics
//   - image_list_filters: List filters, their explanations and parameters
//   - image_enhance: Apply a filter and return or save the result
//
// image_enhance is the download path: with output_path set the filtered
// image is written to disk, otherwise it is returned base64 encoded.
//
// # Configuration
//
// Settings come from the environment (see ConfigFromEnv):
//   - PIXASOBU_LOG_LEVEL=debug: log every tool call to stderr
//   - PIXASOBU_OUTPUT_FORMAT: default inline encoding, png or jpeg
//   - PIXASOBU_JPEG_QUALITY: default JPEG quality, 1-100
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// trying several filters on one upload decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "invalid parameter: gamma must be a
//     positive number, got -1"
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.NewWithConfig(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
