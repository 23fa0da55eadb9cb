// Package server implements the MCP (Model Context Protocol) server for the
// histogram equalization tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin and
// one response per line on stdout. Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Histogram Operations:
//   - image_histogram: Intensity histogram, optionally with RGB channel counts
//   - image_equalize: Equalized image plus before/after histograms and mapping
//   - image_histogram_chart: PNG plot of the before/after histograms
//
// Foreground Isolation:
//   - image_background_diff: Foreground mask of a frame against a background
//
// OCR Operations:
//   - image_ocr: Extract text, optionally after equalization
//
// Tools that work on intensities accept an optional region and a gray_mode
// ("luma" or "lightness") selecting the color conversion.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// repeated tool calls on the same file skip disk I/O.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Set HISTEQ_MCP_LOG_LEVEL=debug to log every tool call to stderr.
package server
