package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/contrast-tools-mcp/internal/imaging"
	"github.com/ironsheep/contrast-tools-mcp/internal/logger"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance_contrast").
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
// Errors wrapping imaging.ErrInvalidArgument, and arguments that fail to
// decode, return -32602; every other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := logger.WithFields(logrus.Fields{
		"tool":     params.Name,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.Is(err, imaging.ErrInvalidArgument) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	entry.Debug("tool call")

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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Contrast Operations
	case "image_enhance_contrast":
		return s.handleImageEnhanceContrast(args)
	case "image_equalize_histogram":
		return s.handleImageEqualizeHistogram(args)
	case "image_channel_histograms":
		return s.handleImageChannelHistograms(args)

	// Visualization
	case "image_mosaic":
		return s.handleImageMosaic(args)
	case "image_tile_grid_overlay":
		return s.handleImageTileGridOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Contrast Operation Handlers ===

// EnhanceResult is returned by the contrast tools.
type EnhanceResult struct {
	imaging.EncodedImage

	// Method is "clahe" or "global".
	Method    string            `json:"method"`
	ClipLimit float64           `json:"clip_limit,omitempty"`
	TileGrid  *imaging.TileGrid `json:"tile_grid,omitempty"`

	// MeanBefore and MeanAfter hold the per-channel means (R, G, B).
	MeanBefore []float64 `json:"mean_before"`
	MeanAfter  []float64 `json:"mean_after"`

	// OutputPath is set when the full-size result was written to disk.
	OutputPath string `json:"output_path,omitempty"`
}

type imageEnhanceContrastArgs struct {
	Path       string   `json:"path"`
	ClipLimit  *float64 `json:"clip_limit"`
	TileGridX  *int     `json:"tile_grid_x"`
	TileGridY  *int     `json:"tile_grid_y"`
	Scale      float64  `json:"scale"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleImageEnhanceContrast(args json.RawMessage) (interface{}, error) {
	var a imageEnhanceContrastArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	clip := s.cfg.ClipLimit
	if a.ClipLimit != nil {
		clip = *a.ClipLimit
	}
	grid := s.tileGrid(a.TileGridX, a.TileGridY)
	if err := imaging.ValidateScale(a.Scale); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.EnhanceContrast(img, clip, grid)
	if err != nil {
		return nil, err
	}

	result, err := s.enhanceResult(img, out, a.Scale, a.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Method = "clahe"
	result.ClipLimit = clip
	result.TileGrid = &grid
	return result, nil
}

type imageEqualizeArgs struct {
	Path       string  `json:"path"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path"`
}

func (s *Server) handleImageEqualizeHistogram(args json.RawMessage) (interface{}, error) {
	var a imageEqualizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := imaging.ValidateScale(a.Scale); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.EqualizeChannels(img)
	if err != nil {
		return nil, err
	}

	result, err := s.enhanceResult(img, out, a.Scale, a.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Method = "global"
	return result, nil
}

func (s *Server) handleImageChannelHistograms(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ChannelHistograms(img)
}

// tileGrid fills omitted grid dimensions from the server settings.
func (s *Server) tileGrid(x, y *int) imaging.TileGrid {
	grid := s.cfg.TileGrid
	if x != nil {
		grid.X = *x
	}
	if y != nil {
		grid.Y = *y
	}
	return grid
}

// enhanceResult encodes out, optionally saves it and records the channel
// means before and after.
func (s *Server) enhanceResult(in image.Image, out *imaging.RGB, scale float64, outputPath string) (*EnhanceResult, error) {
	if scale == 0 {
		scale = 1.0
	}
	enc, err := imaging.EncodeImage(out, scale)
	if err != nil {
		return nil, err
	}

	before, err := imaging.ChannelHistograms(in)
	if err != nil {
		return nil, err
	}
	after, err := imaging.ChannelHistograms(out)
	if err != nil {
		return nil, err
	}

	result := &EnhanceResult{
		EncodedImage: *enc,
		MeanBefore:   channelMeans(before),
		MeanAfter:    channelMeans(after),
	}
	if outputPath != "" {
		if err := imaging.SaveImage(outputPath, out); err != nil {
			return nil, err
		}
		result.OutputPath = outputPath
		logger.WithField("path", outputPath).Info("wrote enhanced image")
	}
	return result, nil
}

func channelMeans(h *imaging.HistogramResult) []float64 {
	means := make([]float64, len(h.Channels))
	for i, c := range h.Channels {
		means[i] = c.Mean
	}
	return means
}

// === Visualization Handlers ===

type imageMosaicArgs struct {
	Paths      []string `json:"paths"`
	Columns    int      `json:"columns"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Colormap   string   `json:"colormap"`
	Background string   `json:"background"`
	OutputPath string   `json:"output_path"`
}

// MosaicToolResult is returned by image_mosaic.
type MosaicToolResult struct {
	imaging.MosaicResult
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageMosaic(args json.RawMessage) (interface{}, error) {
	var a imageMosaicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("%w: paths must not be empty", imaging.ErrInvalidArgument)
	}
	if a.Columns == 0 {
		a.Columns = s.cfg.MosaicColumns
	}

	images, err := s.cache.LoadAll(a.Paths)
	if err != nil {
		return nil, err
	}
	res, figure, err := imaging.MosaicToResult(images, imaging.MosaicOptions{
		Columns:    a.Columns,
		Width:      a.Width,
		Height:     a.Height,
		Colormap:   a.Colormap,
		Background: a.Background,
	})
	if err != nil {
		return nil, err
	}

	result := &MosaicToolResult{MosaicResult: *res}
	if a.OutputPath != "" {
		if err := imaging.SaveImage(a.OutputPath, figure); err != nil {
			return nil, err
		}
		result.OutputPath = a.OutputPath
	}
	return result, nil
}

type imageTileGridOverlayArgs struct {
	Path       string `json:"path"`
	TileGridX  *int   `json:"tile_grid_x"`
	TileGridY  *int   `json:"tile_grid_y"`
	GridColor  string `json:"grid_color"`
	ShowLabels *bool  `json:"show_labels"`
}

func (s *Server) handleImageTileGridOverlay(args json.RawMessage) (interface{}, error) {
	var a imageTileGridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	showLabels := true
	if a.ShowLabels != nil {
		showLabels = *a.ShowLabels
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.TileGridOverlay(img, s.tileGrid(a.TileGridX, a.TileGridY), a.GridColor, showLabels)
}
