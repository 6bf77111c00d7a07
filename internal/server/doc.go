// Package server implements the MCP (Model Context Protocol) server for
// region clipping.
//
// This package provides a JSON-RPC 2.0 server that exposes the clip pipeline
// to MCP clients: regions of archive page images are cut out in upright
// coordinates and returned as JPEG or PNG carrying an XMP rights packet.
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
//   - image_load: Load an image and report upright and stored dimensions
//   - region_key: Content key, bounding box and center of a region boundary
//   - source_box: Map an upright rectangle to stored pixels
//   - image_clip_region: Clip, encode and stamp a region
//   - image_embed_rights: Stamp an existing JPEG or PNG
//
// Coordinates in region boundaries and boxes are always upright (logical).
// Orientation arguments are EXIF codes 1-8; when omitted, JPEG files use their
// EXIF Orientation tag and everything else is treated as upright.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls for the
// lifetime of the server process.
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
//	srv, err := server.New(cfg, version)
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
