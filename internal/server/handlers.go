package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/region-clip-mcp/internal/embed"
	"github.com/ironsheep/region-clip-mcp/internal/extract"
	"github.com/ironsheep/region-clip-mcp/internal/geometry"
	"github.com/ironsheep/region-clip-mcp/internal/imaging"
	"github.com/ironsheep/region-clip-mcp/internal/logger"
	"github.com/ironsheep/region-clip-mcp/internal/orientation"
	"github.com/ironsheep/region-clip-mcp/internal/region"
	"github.com/ironsheep/region-clip-mcp/internal/xmp"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_clip_region").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.Warn("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
	case "region_key":
		return s.handleRegionKey(args)
	case "source_box":
		return s.handleSourceBox(args)
	case "image_clip_region":
		return s.handleImageClipRegion(args)
	case "image_embed_rights":
		return s.handleImageEmbedRights(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string leaves the data member out.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// parseOrientation validates an optional orientation argument. Zero means
// detect from the file.
func parseOrientation(n int) (orientation.Orientation, error) {
	if n == 0 {
		return 0, nil
	}
	return orientation.Parse(n)
}

// === Image Information ===

type imageLoadArgs struct {
	Path        string `json:"path"`
	Orientation int    `json:"orientation"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := parseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path, o)
}

// === Region Geometry ===

type regionKeyArgs struct {
	Region json.RawMessage `json:"region"`
}

// RegionKeyResult describes a region boundary.
type RegionKeyResult struct {
	RegionKey   string                `json:"region_key,omitempty"`
	HasKey      bool                  `json:"has_key"`
	Groups      int                   `json:"groups"`
	BoundingBox *geometry.BoundingBox `json:"bounding_box,omitempty"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Center      *geometry.Point       `json:"center,omitempty"`
}

func (s *Server) handleRegionKey(args json.RawMessage) (interface{}, error) {
	var a regionKeyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rb, err := region.Parse(a.Region)
	if err != nil {
		return nil, err
	}

	key, ok := rb.Key()
	res := &RegionKeyResult{
		RegionKey: key,
		HasKey:    ok,
		Groups:    len(rb.Groups()),
	}
	bb := rb.BoundingBox()
	if !bb.IsEmpty() {
		res.BoundingBox = &bb
		res.Width = bb.Width()
		res.Height = bb.Height()
		if c, ok := bb.Center(); ok {
			res.Center = &c
		}
	}
	return res, nil
}

type sourceBoxArgs struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Orientation int    `json:"orientation"`
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
}

// Rect is a half-open rectangle in JSON form.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func toRect(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// SourceBoxResult maps an upright rectangle to stored pixels.
type SourceBoxResult struct {
	Orientation    int    `json:"orientation"`
	TransformKey   string `json:"transform_key"`
	PhysicalWidth  int    `json:"physical_width"`
	PhysicalHeight int    `json:"physical_height"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Source         Rect   `json:"source"`
	// Clamped is Source restricted to the stored image; empty when the
	// rectangle lies outside it.
	Clamped Rect `json:"clamped"`
	Inside  bool `json:"inside"`
}

func (s *Server) handleSourceBox(args json.RawMessage) (interface{}, error) {
	var a sourceBoxArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := parseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}

	w, h := a.Width, a.Height
	if a.Path != "" {
		img, err := s.cache.LoadOriented(a.Path, o)
		if err != nil {
			return nil, err
		}
		o = img.Orientation()
		w, h = img.PhysicalWidth(), img.PhysicalHeight()
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New("source_box needs path or a positive width and height")
	}
	o = o.OrDefault()

	box := image.Rect(a.X1, a.Y1, a.X2, a.Y2)
	src := o.SourceRect(w, h, box)
	clamped := src.Intersect(image.Rect(0, 0, w, h))
	lw, lh := o.LogicalSize(w, h)

	return &SourceBoxResult{
		Orientation:    int(o),
		TransformKey:   o.TransformKey(),
		PhysicalWidth:  w,
		PhysicalHeight: h,
		Width:          lw,
		Height:         lh,
		Source:         toRect(src),
		Clamped:        toRect(clamped),
		Inside:         !clamped.Empty() && clamped == src,
	}, nil
}

// === Extraction ===

type imageClipRegionArgs struct {
	Path                string          `json:"path"`
	Orientation         int             `json:"orientation"`
	Region              json.RawMessage `json:"region"`
	MimeType            string          `json:"mime_type"`
	Rights              xmp.Rights      `json:"rights"`
	AllowMissingLicense bool            `json:"allow_missing_license"`
	SourceKey           string          `json:"source_key"`
}

// ClipResult is an encoded clip plus its locators.
type ClipResult struct {
	imaging.EncodeResult
	RegionKey  string `json:"region_key"`
	EPKey      string `json:"ep_key,omitempty"`
	ObjectPath string `json:"object_path,omitempty"`
}

func (s *Server) handleImageClipRegion(args json.RawMessage) (interface{}, error) {
	var a imageClipRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := parseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}
	rb, err := region.Parse(a.Region)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.LoadOriented(a.Path, o)
	if err != nil {
		return nil, err
	}

	res, err := s.extractor.Extract(extract.Request{
		Image:               img,
		Boundary:            rb,
		MimeType:            a.MimeType,
		Rights:              a.Rights,
		AllowMissingLicense: a.AllowMissingLicense,
	})
	if err != nil {
		return nil, err
	}

	out := &ClipResult{
		EncodeResult: *imaging.NewEncodeResult(res.Data, res.MimeType, res.Width, res.Height),
		RegionKey:    res.RegionKey,
	}
	if a.SourceKey != "" {
		out.EPKey = extract.EPKey(a.SourceKey, img.Orientation(), res.RegionKey)
		if dir := s.cfg.Output.Dir; dir != "" {
			path, err := extract.WriteObject(dir, out.EPKey, res.MimeType, res.Data)
			if err != nil {
				return nil, err
			}
			logger.Info("wrote %s", path)
			out.ObjectPath = path
		}
	}
	return out, nil
}

type imageEmbedRightsArgs struct {
	Path                string     `json:"path"`
	Rights              xmp.Rights `json:"rights"`
	AllowMissingLicense bool       `json:"allow_missing_license"`
	OutputPath          string     `json:"output_path"`
}

// EmbedResult reports an embedding.
type EmbedResult struct {
	MimeType    string `json:"mime_type"`
	Bytes       int    `json:"bytes"`
	Embedded    bool   `json:"embedded"`
	OutputPath  string `json:"output_path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (s *Server) handleImageEmbedRights(args json.RawMessage) (interface{}, error) {
	var a imageEmbedRightsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	mimeType, err := imaging.DetectMimeType(data)
	if err != nil {
		return nil, err
	}

	rights := s.cfg.Rights.Defaults.Merge(a.Rights)
	allow := s.cfg.Rights.AllowMissingLicense || a.AllowMissingLicense
	out, err := embed.Serialize(data, mimeType, rights, allow)
	if err != nil {
		return nil, err
	}

	res := &EmbedResult{
		MimeType: mimeType,
		Bytes:    len(out),
		Embedded: len(out) != len(data),
	}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
		res.OutputPath = a.OutputPath
	} else {
		res.ImageBase64 = base64.StdEncoding.EncodeToString(out)
	}
	return res, nil
}
