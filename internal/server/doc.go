// Package server implements the MCP (Model Context Protocol) server that
// exposes film strip straightening as tools.
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
// Serve runs the same loop over any reader and writer.
//
// # Available Tools
//
// Strip Pipeline:
//   - strip_load: Cache a scan and run a first hole detection
//   - strip_detect_holes: Sprocket hole centers, bounds and areas
//   - strip_group_rows: Group holes into rows
//   - strip_fit_line: Fit a line through arbitrary points
//   - strip_estimate_angle: Rotation of the strip from its two hole rows
//   - strip_straighten: Rotate until level, optionally save the result
//   - strip_overlay: Draw rows and fitted lines over the scan
//   - strip_edge_print: OCR of the edge print outside the hole rows
//   - strip_suggest_threshold: Binarization threshold from sampled pixels
//
// Image Helpers:
//   - image_info: Dimensions, format and color depth
//   - image_crop: Extract a rectangular region
//   - image_sample_color: Color and gray value at a pixel
//
// # Per-Call Configuration
//
// Pipeline tools start from strip.DefaultConfig. Any argument named like a
// strip.Config JSON field replaces that field for the call, and
// tolerance_degrees sets the tolerance in degrees. The grouper argument
// selects distance (default) or kmeans row grouping. The resulting
// configuration is validated before any work is done.
//
// # Image Caching
//
// Scans are cached by path and reused across tool calls, avoiding redundant
// disk I/O and TIFF decoding. The cache persists for the lifetime of the
// server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
