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

func tileGridProperties(props map[string]interface{}) map[string]interface{} {
	props["tile_grid_x"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of tiles across the width (>= 1). Defaults to the server setting (8).",
	}
	props["tile_grid_y"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of tiles down the height (>= 1). Defaults to the server setting (8).",
	}
	return props
}

func outputProperties(props map[string]interface{}) map[string]interface{} {
	props["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for the returned PNG. Default 1.0",
		"default":     1.0,
	}
	props["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to also write the full-size result to (.png, .jpg or .bmp)",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, channel count and whether it can be contrast-enhanced.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},

		// Contrast Operations
		{
			Name:        "image_enhance_contrast",
			Description: "Apply contrast-limited adaptive histogram equalization (CLAHE) to each RGB channel independently and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": outputProperties(tileGridProperties(map[string]interface{}{
					"path": pathProperty(),
					"clip_limit": map[string]interface{}{
						"type":        "number",
						"description": "Contrast limit (> 0). Defaults to the server setting (2.0).",
					},
				})),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_equalize_histogram",
			Description: "Apply global histogram equalization to each RGB channel independently and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": outputProperties(map[string]interface{}{"path": pathProperty()}),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_channel_histograms",
			Description: "Compute 256-bin histograms with min, max and mean for the red, green and blue channels.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},

		// Visualization
		{
			Name:        "image_mosaic",
			Description: "Lay several images out in a grid with the given number of columns and no spacing; rows are ceil(count/columns).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths of the images, in layout order",
					},
					"columns": map[string]interface{}{
						"type":        "integer",
						"description": "Number of columns (>= 1). Defaults to the server setting (4).",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Figure width in pixels. Default: columns x widest image",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Figure height in pixels. Default: rows x tallest image",
					},
					"colormap": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gray", "viridis", "hot"},
						"description": "Colormap for single-channel images, autoscaled to each image's range. Default viridis",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for empty cells. Default #FFFFFF",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the mosaic to",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "image_tile_grid_overlay",
			Description: "Draw the CLAHE tile boundaries for a tile grid on an image, labelling each tile with its column,row index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": tileGridProperties(map[string]interface{}{
					"path": pathProperty(),
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for the grid lines (#RRGGBB or #RRGGBBAA). Default #FF000080",
					},
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label tiles with their index. Default true",
						"default":     true,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}
