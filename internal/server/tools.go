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

func grayModeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"luma", "lightness"},
		"description": "Color to intensity conversion: 'luma' (BT.601 weights) or 'lightness' (CIE L*). Default 'luma'",
		"default":     "luma",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional rectangle to restrict the operation to. Coordinates are 0-based, x2/y2 exclusive",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, bit depth and whether it is already grayscale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Histogram Operations
		{
			Name:        "image_histogram",
			Description: "Compute the intensity histogram of an image: the fraction of pixels at each level 0-255. Optionally also returns per-channel RGB counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"gray_mode": grayModeProperty(),
					"region":    regionProperty(),
					"include_channels": map[string]interface{}{
						"type":        "boolean",
						"description": "Include red, green and blue channel counts. Default false",
						"default":     false,
					},
					"cumulative": map[string]interface{}{
						"type":        "boolean",
						"description": "Return channel counts as running totals. Only used with include_channels. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_equalize",
			Description: "Apply global histogram equalization to the intensity channel of an image. Returns the equalized image as base64-encoded PNG with the before and after histograms and the intensity mapping.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"gray_mode": grayModeProperty(),
					"region":    regionProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to also write the equalized image to. Format follows the extension",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_histogram_chart",
			Description: "Plot the original and equalized intensity histograms of an image as a PNG chart.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"gray_mode": grayModeProperty(),
					"region":    regionProperty(),
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional chart title",
					},
				},
				"required": []string{"path"},
			},
		},

		// Foreground Isolation
		{
			Name:        "image_background_diff",
			Description: "Isolate the foreground of a frame against a background image of the same scene. Returns a binary mask (base64 PNG) and the foreground pixel count, fraction and bounding box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"background_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the background image",
					},
					"frame_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame image",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Difference level (0-255) a pixel must exceed to count as foreground. Default 10",
						"default":     10,
					},
					"kernel_radius": map[string]interface{}{
						"type":        "number",
						"description": "Radius of the noise cleanup window; 0 disables it. Default 1",
						"default":     1.0,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Resize both images to this width first. Default 128",
						"default":     128,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Resize both images to this height first. Default 128",
						"default":     128,
					},
				},
				"required": []string{"background_path", "frame_path"},
			},
		},

		// OCR Operations
		{
			Name:        "image_ocr",
			Description: "Extract text from an image using OCR. Set equalize to improve recognition on low-contrast scans.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"gray_mode": grayModeProperty(),
					"region":    regionProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g., 'eng', 'deu'). Default 'eng'",
						"default":     "eng",
					},
					"equalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Equalize the intensity histogram before recognition. Default false",
						"default":     false,
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
