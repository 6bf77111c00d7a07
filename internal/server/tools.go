package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func orientationProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     8,
		"description": "EXIF orientation 1-8 of the stored pixels. Omit to read it from the file's EXIF data (JPEG only; 1 otherwise).",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Region boundary in upright image coordinates: a list of groups, each a list of polygons, each a list of [x,y] points. The first polygon of a group is filled and later polygons of the group cut holes.",
		"items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "array",
					"items":    map[string]interface{}{"type": "integer"},
					"minItems": 2,
					"maxItems": 2,
				},
			},
		},
	}
}

func rightsProperty() map[string]interface{} {
	str := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "Rights metadata embedded as XMP. Fields left empty fall back to the configured defaults.",
		"properties": map[string]interface{}{
			"license":      str("Licence key: CC0-1.0, CC-BY-4.0 or CC-BY-SA-4.0 map to cc:license; other values are kept as text"),
			"title":        str("Title of the work"),
			"holder":       str("Rights holder"),
			"date":         str("Date of the work"),
			"source":       str("URL of the source page"),
			"credit":       str("Credit line"),
			"language":     str("BCP 47 language tag of the text in the image"),
			"direction":    str("Text direction, e.g. ltr or rtl"),
			"writing_mode": str("Writing mode, e.g. horizontal-tb or vertical-rl"),
			"modified": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the clip was altered beyond cropping",
			},
		},
	}
}

func mimeTypeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"image/jpeg", "image/png"},
		"description": "Output format. Defaults to the configured output.mime_type",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its upright and stored dimensions, orientation and format. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"orientation": orientationProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "region_key",
			Description: "Compute the 10-hex-digit content key of a region boundary, together with its bounding box and center.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "source_box",
			Description: "Map a rectangle in upright coordinates to the rectangle of stored pixels it comes from. Give either path or width and height of the stored image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Stored (physical) image width, used when path is omitted",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Stored (physical) image height, used when path is omitted",
					},
					"orientation": orientationProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_clip_region",
			Description: "Clip a polygonal region out of an image, correcting for orientation, and return it as base64 JPEG or PNG carrying an XMP rights packet. With source_key and a configured output directory the clip is also written to its object path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"orientation": orientationProperty(),
					"region":      regionProperty(),
					"mime_type":   mimeTypeProperty(),
					"rights":      rightsProperty(),
					"allow_missing_license": map[string]interface{}{
						"type":        "boolean",
						"description": "Permit a clip without a licence key",
					},
					"source_key": map[string]interface{}{
						"type":        "string",
						"description": "Key of the source image, used to build the extracted-part key and object path",
					},
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "image_embed_rights",
			Description: "Embed an XMP rights packet into an existing JPEG or PNG file without re-encoding it. Writes output_path when given, otherwise returns the result as base64.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"rights": rightsProperty(),
					"allow_missing_license": map[string]interface{}{
						"type":        "boolean",
						"description": "Permit embedding without a licence key",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the result",
					},
				},
				"required": []string{"path"},
			},
		},
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
