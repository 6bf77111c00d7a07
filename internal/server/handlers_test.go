package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/region-clip-mcp/internal/config"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the JSON text content.
func callTool(t *testing.T, s *Server, name string, args interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return out, nil
}

var squareRegion = [][][][2]int{{{{2, 2}, {12, 2}, {12, 8}, {2, 8}}}}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	out, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["width"] != float64(100) || out["height"] != float64(80) {
		t.Errorf("size: got %vx%v, want 100x80", out["width"], out["height"])
	}
	if out["transform_key"] != "o1" {
		t.Errorf("transform_key: got %v, want o1", out["transform_key"])
	}

	out, mcpErr = callTool(t, s, "image_load", map[string]interface{}{"path": imgPath, "orientation": 6})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["width"] != float64(80) || out["height"] != float64(100) {
		t.Errorf("rotated size: got %vx%v, want 80x100", out["width"], out["height"])
	}
}

func TestHandleToolsCall_ImageLoad_Errors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	_, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	if mcpErr == nil || mcpErr.Code != -32000 {
		t.Errorf("missing file: got %+v, want code -32000", mcpErr)
	}

	_, mcpErr = callTool(t, s, "image_load", map[string]interface{}{"path": imgPath, "orientation": 9})
	if mcpErr == nil || mcpErr.Code != -32000 {
		t.Errorf("orientation 9: got %+v, want code -32000", mcpErr)
	}
}

func TestHandleToolsCall_RegionKey(t *testing.T) {
	s := newTestServer(t)

	out, mcpErr := callTool(t, s, "region_key", map[string]interface{}{
		"region": [][][][2]int{{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}},
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["region_key"] != "f9e95504ad" || out["has_key"] != true {
		t.Errorf("key: got %v/%v", out["region_key"], out["has_key"])
	}
	if out["width"] != float64(11) || out["height"] != float64(11) {
		t.Errorf("size: got %vx%v, want 11x11", out["width"], out["height"])
	}
	center, _ := out["center"].([]interface{})
	if len(center) != 2 || center[0] != float64(5) || center[1] != float64(5) {
		t.Errorf("center: got %v, want [5,5]", out["center"])
	}

	out, mcpErr = callTool(t, s, "region_key", map[string]interface{}{"region": []interface{}{}})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["has_key"] != false {
		t.Errorf("empty region has_key: got %v", out["has_key"])
	}
	if _, ok := out["region_key"]; ok {
		t.Error("empty region should have no region_key")
	}

	_, mcpErr = callTool(t, s, "region_key", map[string]interface{}{"region": [][]int{{1, 2, 3}}})
	if mcpErr == nil {
		t.Error("malformed region should fail")
	}
}

func TestHandleToolsCall_SourceBox(t *testing.T) {
	s := newTestServer(t)

	out, mcpErr := callTool(t, s, "source_box", map[string]interface{}{
		"width": 100, "height": 60, "orientation": 6,
		"x1": 10, "y1": 5, "x2": 30, "y2": 13,
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	src := out["source"].(map[string]interface{})
	if src["x1"] != float64(5) || src["y1"] != float64(30) || src["x2"] != float64(13) || src["y2"] != float64(50) {
		t.Errorf("source: got %v, want (5,30)-(13,50)", src)
	}
	if out["inside"] != true {
		t.Errorf("inside: got %v", out["inside"])
	}
	if out["width"] != float64(60) || out["height"] != float64(100) {
		t.Errorf("logical size: got %vx%v, want 60x100", out["width"], out["height"])
	}

	imgPath := createTestImageFile(t, 20, 10, color.White)
	out, mcpErr = callTool(t, s, "source_box", map[string]interface{}{
		"path": imgPath, "x1": 15, "y1": 5, "x2": 25, "y2": 8,
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["inside"] != false {
		t.Errorf("box past the edge should not be inside")
	}
	clamped := out["clamped"].(map[string]interface{})
	if clamped["x2"] != float64(20) {
		t.Errorf("clamped x2: got %v, want 20", clamped["x2"])
	}

	_, mcpErr = callTool(t, s, "source_box", map[string]interface{}{"x1": 0, "y1": 0, "x2": 1, "y2": 1})
	if mcpErr == nil {
		t.Error("source_box without dimensions should fail")
	}
}

func TestHandleToolsCall_ImageClipRegion(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 30, 20, color.RGBA{0, 0, 255, 255})

	out, mcpErr := callTool(t, s, "image_clip_region", map[string]interface{}{
		"path":      imgPath,
		"region":    squareRegion,
		"mime_type": "image/png",
		"rights":    map[string]interface{}{"license": "CC-BY-4.0", "holder": "Archive"},
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["width"] != float64(11) || out["height"] != float64(7) {
		t.Errorf("size: got %vx%v, want 11x7", out["width"], out["height"])
	}
	if out["mime_type"] != "image/png" {
		t.Errorf("mime_type: got %v", out["mime_type"])
	}
	if _, ok := out["ep_key"]; ok {
		t.Error("ep_key should be absent without source_key")
	}

	data, err := base64.StdEncoding.DecodeString(out["image_base64"].(string))
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if !bytes.Contains(data, []byte("XML:com.adobe.xmp")) {
		t.Error("clip should carry an XMP iTXt chunk")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode clip: %v", err)
	}
	if r, g, b, a := img.At(1, 1).RGBA(); r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("(1,1): got %d,%d,%d,%d, want opaque blue", r, g, b, a)
	}
}

func TestHandleToolsCall_ImageClipRegion_WritesObject(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Rights.Defaults.License = "CC0-1.0"
	s, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	imgPath := createTestImageFile(t, 30, 20, color.RGBA{0, 128, 0, 255})

	out, mcpErr := callTool(t, s, "image_clip_region", map[string]interface{}{
		"path":        imgPath,
		"orientation": 3,
		"region":      squareRegion,
		"source_key":  "page-7",
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	key := out["region_key"].(string)
	if out["ep_key"] != ":ep-xo3-page-7-"+key {
		t.Errorf("ep_key: got %v", out["ep_key"])
	}
	wantPath := filepath.Join(cfg.Output.Dir, "xo3-page-7", key+".jpeg")
	if out["object_path"] != wantPath {
		t.Errorf("object_path: got %v, want %s", out["object_path"], wantPath)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("written object is not a JPEG: %v", err)
	}
	if !bytes.Contains(data, []byte("publicdomain/zero/1.0")) {
		t.Error("written object should carry the default licence")
	}
}

func TestHandleToolsCall_ImageClipRegion_WritesPNGObject(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Output.MimeType = "image/png"
	cfg.Rights.AllowMissingLicense = true
	s, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	imgPath := createTestImageFile(t, 30, 20, color.RGBA{0, 0, 255, 255})

	out, mcpErr := callTool(t, s, "image_clip_region", map[string]interface{}{
		"path":       imgPath,
		"region":     squareRegion,
		"source_key": "page-8",
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	key := out["region_key"].(string)
	wantPath := filepath.Join(cfg.Output.Dir, "xo1-page-8", key+".png")
	if out["object_path"] != wantPath {
		t.Errorf("object_path: got %v, want %s", out["object_path"], wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("written object is not a PNG: %v", err)
	}
}

func TestHandleToolsCall_ImageClipRegion_Errors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.White)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			"missing license",
			map[string]interface{}{"path": imgPath, "region": squareRegion},
			"missing license",
		},
		{
			"empty region",
			map[string]interface{}{"path": imgPath, "region": []interface{}{}, "allow_missing_license": true},
			"invalid region",
		},
		{
			"unsupported mime type",
			map[string]interface{}{"path": imgPath, "region": squareRegion, "allow_missing_license": true, "mime_type": "image/webp"},
			"unsupported mime type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mcpErr := callTool(t, s, "image_clip_region", tt.args)
			if mcpErr == nil {
				t.Fatal("expected an error")
			}
			if data, _ := mcpErr.Data.(string); !strings.Contains(data, tt.want) {
				t.Errorf("error data: got %q, want it to contain %q", data, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_ImageEmbedRights(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 8, color.White)
	outPath := filepath.Join(t.TempDir(), "out.png")

	out, mcpErr := callTool(t, s, "image_embed_rights", map[string]interface{}{
		"path":        imgPath,
		"rights":      map[string]interface{}{"license": "CC-BY-SA-4.0", "title": "Plate"},
		"output_path": outPath,
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["mime_type"] != "image/png" || out["embedded"] != true {
		t.Errorf("result: got %v", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Contains(data, []byte("<dl:title>Plate</dl:title>")) {
		t.Error("output should carry the title")
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a valid PNG: %v", err)
	}

	out, mcpErr = callTool(t, s, "image_embed_rights", map[string]interface{}{
		"path":                  imgPath,
		"allow_missing_license": true,
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if out["embedded"] != false {
		t.Error("an empty record should not embed anything")
	}
	orig, _ := os.ReadFile(imgPath)
	if out["image_base64"] != base64.StdEncoding.EncodeToString(orig) {
		t.Error("an empty record should return the input unchanged")
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	_, mcpErr := callTool(t, s, "image_ocr_full", map[string]interface{}{})
	if mcpErr == nil || mcpErr.Code != -32000 {
		t.Fatalf("got %+v, want code -32000", mcpErr)
	}
	if mcpErr.Data != "unknown tool: image_ocr_full" {
		t.Errorf("Data: got %v", mcpErr.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want code -32602", resp.Error)
	}
}
