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
		"description": "Absolute path to the scan (PNG, JPEG, TIFF, BMP or GIF)",
	}
}

func pointsProperty(coordType, description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x":     map[string]interface{}{"type": coordType},
				"y":     map[string]interface{}{"type": coordType},
				"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
			},
			"required": []string{"x", "y"},
		},
		"description": description,
	}
}

// pipelineProperties returns the path argument, the per-call overrides of
// the straightening configuration and any tool-specific extras.
func pipelineProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Binarization threshold in [0,1]; brighter pixels count as background or hole. Default 0.902 (230/255)",
		},
		"border_min": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum white padding in pixels added before detection. Default 2",
		},
		"border_percent": map[string]interface{}{
			"type":        "number",
			"description": "Padding relative to the larger image dimension. Default 0",
		},
		"blur_size": map[string]interface{}{
			"type":        "integer",
			"description": "Box blur kernel size in pixels. Default 2",
		},
		"blur_relative": map[string]interface{}{
			"type":        "number",
			"description": "Blur kernel size relative to the larger image dimension, never below blur_size. Default 0",
		},
		"min_hole_area": map[string]interface{}{
			"type":        "integer",
			"description": "Smallest hole in pixels; smaller enclosed specks are rejected. Default 4",
		},
		"max_hole_area": map[string]interface{}{
			"type":        "integer",
			"description": "Largest hole in pixels, 0 for no limit. Default 0",
		},
		"grouper": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"distance", "kmeans"},
			"description": "Row grouping strategy. Default distance",
		},
		"lookahead": map[string]interface{}{
			"type":        "integer",
			"description": "Nearest neighbours each hole proposes when grouping by distance. Default 2",
		},
		"multiplier": map[string]interface{}{
			"type":        "number",
			"description": "Admission bound relative to the running mean distance. Default 1.5",
		},
		"tolerance_degrees": map[string]interface{}{
			"type":        "number",
			"description": "Residual angle below which the strip counts as level. Default 0.05",
		},
		"max_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of measure and rotate passes. Default 3",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Strip Pipeline
		{
			Name:        "strip_load",
			Description: "Load a film strip scan into the cache and report its format together with a first hole detection. Detection problems are reported, not raised.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "strip_detect_holes",
			Description: "Detect the sprocket holes of a film strip scan. Returns each hole's center, bounds and area in scan order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "strip_group_rows",
			Description: "Detect the sprocket holes and group them into rows. Returns every group found; a healthy strip yields exactly two.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "strip_fit_line",
			Description: "Fit a line through a sequence of points by averaging the slope of consecutive segments. Points are used in the given order unless sort_by_x is set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsProperty("number", "At least two points, no two of them equal"),
					"sort_by_x": map[string]interface{}{
						"type":        "boolean",
						"description": "Order points left to right before fitting. Default false",
						"default":     false,
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "strip_estimate_angle",
			Description: "Measure the rotation of a film strip from its two rows of sprocket holes. Positive angles mean the rows descend to the right.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "strip_straighten",
			Description: "Rotate a film strip scan until its sprocket hole rows are level. Optionally saves the result and returns it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path to save the straightened scan; the extension selects the format",
					},
					"return_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the straightened scan as base64 PNG. Default false",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_overlay",
			Description: "Draw the detected hole rows and their fitted lines over the scan and return it as base64 PNG. Every group gets its own color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color of the fitted lines. Default #FF0000",
						"default":     "#FF0000",
					},
					"show_boxes": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline every hole's bounding box. Default true",
						"default":     true,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_edge_print",
			Description: "Straighten a film strip and read the edge print between the hole rows and the film edges with OCR. Requires Tesseract.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"band": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"upper", "lower", "both"},
						"description": "Which edge band to read. Default both",
						"default":     "both",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default eng",
						"default":     "eng",
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Invert the bands first, for light print on dark film. Default false",
						"default":     false,
					},
					"flip_upper": map[string]interface{}{
						"type":        "boolean",
						"description": "Rotate the upper band by 180° before reading. Default false",
						"default":     false,
					},
					"ocr_scale": map[string]interface{}{
						"type":        "integer",
						"description": "Enlargement applied to the bands before reading. Default 3",
						"default":     3,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_suggest_threshold",
			Description: "Suggest a binarization threshold from sample points on the scanner background and on the film.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"background": pointsProperty("integer", "Points on the scanner background or inside holes"),
					"film":       pointsProperty("integer", "Points on the film base"),
				},
				"required": []string{"path", "background", "film"},
			},
		},

		// Image Helpers
		{
			Name:        "image_info",
			Description: "Get the dimensions, format and color depth of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to zoom into holes or edge print.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
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
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate, with its gray value on the binarization scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
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
