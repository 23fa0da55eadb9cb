package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/ironsheep/histeq-tools/internal/equalize"
	"github.com/ironsheep/histeq-tools/internal/gesture"
	"github.com/ironsheep/histeq-tools/internal/imaging"
	"github.com/ironsheep/histeq-tools/internal/ocr"
	"github.com/ironsheep/histeq-tools/internal/plot"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_equalize").
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

	if os.Getenv("HISTEQ_MCP_LOG_LEVEL") == "debug" {
		log.Printf("tools/call %s", params.Name)
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate equalize/gesture/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Histogram Operations
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_equalize":
		return s.handleImageEqualize(args)
	case "image_histogram_chart":
		return s.handleImageHistogramChart(args)

	// Foreground Isolation
	case "image_background_diff":
		return s.handleImageBackgroundDiff(args)

	// OCR Operations
	case "image_ocr":
		return s.handleImageOCR(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
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

// === Histogram Operation Handlers ===

// intensityArgs are shared by every tool that works on one intensity channel.
type intensityArgs struct {
	Path     string          `json:"path"`
	GrayMode string          `json:"gray_mode"`
	Region   *imaging.Region `json:"region"`
}

// loadIntensity loads a.Path, crops it to a.Region and reduces it to one
// intensity channel. The cropped color image is returned as well.
func (s *Server) loadIntensity(a intensityArgs) (*equalize.Image, image.Image, error) {
	mode, err := imaging.ParseGrayMode(a.GrayMode)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	cropped, err := imaging.Crop(img, a.Region)
	if err != nil {
		return nil, nil, err
	}
	return equalize.FromGray(imaging.ToGray(cropped, mode)), cropped, nil
}

type imageHistogramArgs struct {
	intensityArgs
	IncludeChannels bool `json:"include_channels"`
	Cumulative      bool `json:"cumulative"`
}

// HistogramResult is the result of the image_histogram tool.
type HistogramResult struct {
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Histogram equalize.Histogram         `json:"histogram"`
	Channels  *imaging.ChannelHistograms `json:"channels,omitempty"`
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var a imageHistogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gray, cropped, err := s.loadIntensity(a.intensityArgs)
	if err != nil {
		return nil, err
	}
	h, err := equalize.ComputeHistogram(gray)
	if err != nil {
		return nil, err
	}

	res := &HistogramResult{Width: gray.Width, Height: gray.Height, Histogram: h}
	if a.IncludeChannels {
		res.Channels = imaging.RGBHistograms(cropped, a.Cumulative)
	}
	return res, nil
}

type imageEqualizeArgs struct {
	intensityArgs
	OutputPath string `json:"output_path"`
}

// EqualizeResult is the result of the image_equalize tool.
type EqualizeResult struct {
	Image              *imaging.EncodedImage `json:"image"`
	OriginalHistogram  equalize.Histogram    `json:"original_histogram"`
	EqualizedHistogram equalize.Histogram    `json:"equalized_histogram"`
	Mapping            equalize.Mapping      `json:"mapping"`

	// Rounding names how mapped values become integer levels.
	Rounding string `json:"rounding"`

	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageEqualize(args json.RawMessage) (interface{}, error) {
	var a imageEqualizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gray, _, err := s.loadIntensity(a.intensityArgs)
	if err != nil {
		return nil, err
	}
	res, err := equalize.Equalize(gray)
	if err != nil {
		return nil, err
	}

	out := res.Equalized.Gray()
	if a.OutputPath != "" {
		if err := imaging.Save(out, a.OutputPath); err != nil {
			return nil, err
		}
	}
	enc, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	return &EqualizeResult{
		Image:              enc,
		OriginalHistogram:  res.OriginalHistogram,
		EqualizedHistogram: res.EqualizedHistogram,
		Mapping:            res.Mapping,
		Rounding:           "truncate",
		OutputPath:         a.OutputPath,
	}, nil
}

type imageHistogramChartArgs struct {
	intensityArgs
	Title string `json:"title"`
}

func (s *Server) handleImageHistogramChart(args json.RawMessage) (interface{}, error) {
	var a imageHistogramChartArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gray, _, err := s.loadIntensity(a.intensityArgs)
	if err != nil {
		return nil, err
	}
	res, err := equalize.Equalize(gray)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := plot.Comparison(&buf, res, a.Title); err != nil {
		return nil, err
	}
	chart, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}
	return imaging.EncodePNG(chart)
}

// === Foreground Isolation Handlers ===

type imageBackgroundDiffArgs struct {
	BackgroundPath string   `json:"background_path"`
	FramePath      string   `json:"frame_path"`
	Threshold      *int     `json:"threshold"`
	KernelRadius   *float64 `json:"kernel_radius"`
	Width          *int     `json:"width"`
	Height         *int     `json:"height"`
}

// BackgroundDiffResult is the result of the image_background_diff tool.
type BackgroundDiffResult struct {
	Mask       *imaging.EncodedImage `json:"mask"`
	Foreground gesture.Foreground    `json:"foreground"`
}

func (s *Server) handleImageBackgroundDiff(args json.RawMessage) (interface{}, error) {
	var a imageBackgroundDiffArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := gesture.DefaultConfig()
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, fmt.Errorf("threshold %d outside [0,255]", *a.Threshold)
		}
		cfg.Threshold = uint8(*a.Threshold)
	}
	if a.KernelRadius != nil {
		cfg.KernelRadius = *a.KernelRadius
	}
	if a.Width != nil {
		cfg.FrameWidth = *a.Width
	}
	if a.Height != nil {
		cfg.FrameHeight = *a.Height
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	background, err := s.cache.Load(a.BackgroundPath)
	if err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(a.FramePath)
	if err != nil {
		return nil, err
	}

	mask, err := gesture.NewIsolator(cfg).Isolate(
		imaging.Fit(background, cfg.FrameWidth, cfg.FrameHeight),
		imaging.Fit(frame, cfg.FrameWidth, cfg.FrameHeight),
	)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodePNG(mask)
	if err != nil {
		return nil, err
	}
	return &BackgroundDiffResult{Mask: enc, Foreground: gesture.Measure(mask)}, nil
}

// === OCR Operation Handlers ===

type imageOCRArgs struct {
	intensityArgs
	Language string `json:"language"`
	Equalize bool   `json:"equalize"`
}

func (s *Server) handleImageOCR(args json.RawMessage) (interface{}, error) {
	var a imageOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = "eng"
	}
	mode, err := imaging.ParseGrayMode(a.GrayMode)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.Crop(img, a.Region)
	if err != nil {
		return nil, err
	}
	return ocr.Recognize(cropped, ocr.Options{
		Language: a.Language,
		Equalize: a.Equalize,
		GrayMode: mode,
	})
}
