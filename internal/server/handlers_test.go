package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/histeq-tools/internal/imaging"
)

// writeImageFile encodes img as PNG into a temp dir and returns its path.
func writeImageFile(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
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

// grayFile writes a width x height gray image with pixel i set to pix[i].
func grayFile(t *testing.T, width, height int, pix []uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return writeImageFile(t, "gray.png", img)
}

// squareFile writes a uniform image with a brighter square at (x,y)-(x+size,y+size).
func squareFile(t *testing.T, name string, width, height, x, y, size int, bg, fg uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = bg
	}
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			img.SetGray(xx, yy, color.Gray{Y: fg})
		}
	}
	return writeImageFile(t, name, img)
}

// callTool runs a tools/call request and returns the unwrapped text content.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (string, *MCPError) {
	t.Helper()
	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})

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
		return "", resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	return content[0]["text"].(string), nil
}

func mustCall(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()
	text, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %s: %v", name, mcpErr.Message, mcpErr.Data)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode %s result: %v", name, err)
	}
}

func decodeEncoded(t *testing.T, e *imaging.EncodedImage) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(e.ImageBase64)
	if err != nil {
		t.Fatalf("bad base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("bad PNG: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	path := grayFile(t, 4, 3, make([]uint8, 12))

	var info imaging.ImageInfo
	mustCall(t, New(), "image_load", map[string]interface{}{"path": path}, &info)

	if info.Width != 4 || info.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 4x3", info.Width, info.Height)
	}
	if info.Format != "png" || !info.Grayscale {
		t.Errorf("info: got format %s grayscale %v", info.Format, info.Grayscale)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	path := grayFile(t, 7, 2, make([]uint8, 14))

	var dims imaging.DimensionsResult
	mustCall(t, New(), "image_dimensions", map[string]interface{}{"path": path}, &dims)

	if dims.Width != 7 || dims.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 7x2", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	for _, name := range []string{"image_load", "image_dimensions", "image_histogram", "image_equalize"} {
		_, mcpErr := callTool(t, New(), name, map[string]interface{}{"path": "/nonexistent/image.png"})
		if mcpErr == nil {
			t.Errorf("%s: expected error for non-existent file", name)
			continue
		}
		if mcpErr.Code != -32000 {
			t.Errorf("%s: error code got %d, want -32000", name, mcpErr.Code)
		}
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	_, mcpErr := callTool(t, New(), "image_crop", map[string]interface{}{})
	if mcpErr == nil {
		t.Fatal("expected error for unknown tool")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", mcpErr.Code)
	}
	if data, _ := mcpErr.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("error data: got %v", mcpErr.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := New().handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleImageHistogram(t *testing.T) {
	path := grayFile(t, 4, 1, []uint8{3, 3, 3, 9})

	var res HistogramResult
	mustCall(t, New(), "image_histogram", map[string]interface{}{"path": path}, &res)

	if res.Width != 4 || res.Height != 1 {
		t.Errorf("dimensions: got %dx%d, want 4x1", res.Width, res.Height)
	}
	if res.Histogram[3] != 0.75 || res.Histogram[9] != 0.25 {
		t.Errorf("histogram: got [3]=%v [9]=%v, want 0.75 and 0.25", res.Histogram[3], res.Histogram[9])
	}
	if res.Channels != nil {
		t.Error("channels should be omitted by default")
	}
}

func TestHandleImageHistogram_ChannelsAndRegion(t *testing.T) {
	path := grayFile(t, 4, 1, []uint8{3, 3, 3, 9})

	var res HistogramResult
	mustCall(t, New(), "image_histogram", map[string]interface{}{
		"path":             path,
		"region":           map[string]interface{}{"x1": 2, "y1": 0, "x2": 4, "y2": 1},
		"include_channels": true,
	}, &res)

	if res.Width != 2 || res.Height != 1 {
		t.Errorf("region dimensions: got %dx%d, want 2x1", res.Width, res.Height)
	}
	if res.Histogram[3] != 0.5 || res.Histogram[9] != 0.5 {
		t.Errorf("region histogram: got [3]=%v [9]=%v, want 0.5 each", res.Histogram[3], res.Histogram[9])
	}
	if res.Channels == nil {
		t.Fatal("channels requested but missing")
	}
	if res.Channels.Red[3] != 1 || res.Channels.Red[9] != 1 {
		t.Errorf("red counts: got [3]=%d [9]=%d, want 1 each", res.Channels.Red[3], res.Channels.Red[9])
	}
}

func TestHandleImageHistogram_BadArguments(t *testing.T) {
	path := grayFile(t, 4, 4, make([]uint8, 16))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown gray mode", map[string]interface{}{"path": path, "gray_mode": "average"}},
		{"region outside", map[string]interface{}{"path": path, "region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 5, "y2": 4}}},
		{"empty region", map[string]interface{}{"path": path, "region": map[string]interface{}{"x1": 2, "y1": 0, "x2": 2, "y2": 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, mcpErr := callTool(t, New(), "image_histogram", tt.args); mcpErr == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleImageEqualize(t *testing.T) {
	path := grayFile(t, 2, 2, []uint8{0, 0, 255, 255})
	outPath := filepath.Join(t.TempDir(), "equalized.png")

	var res EqualizeResult
	mustCall(t, New(), "image_equalize", map[string]interface{}{
		"path":        path,
		"output_path": outPath,
	}, &res)

	if res.Mapping[0] != 127.5 || res.Mapping[255] != 255 {
		t.Errorf("mapping: got [0]=%v [255]=%v, want 127.5 and 255", res.Mapping[0], res.Mapping[255])
	}
	if res.Rounding != "truncate" {
		t.Errorf("rounding: got %s, want truncate", res.Rounding)
	}
	if res.EqualizedHistogram[127] != 0.5 || res.EqualizedHistogram[255] != 0.5 {
		t.Errorf("equalized histogram: got [127]=%v [255]=%v",
			res.EqualizedHistogram[127], res.EqualizedHistogram[255])
	}
	if res.OutputPath != outPath {
		t.Errorf("output path: got %s, want %s", res.OutputPath, outPath)
	}

	img := decodeEncoded(t, res.Image)
	want := []uint8{127, 127, 255, 255}
	for i, w := range want {
		got := color.GrayModel.Convert(img.At(i%2, i/2)).(color.Gray).Y
		if got != w {
			t.Errorf("pixel %d: got %d, want %d", i, got, w)
		}
	}

	saved, err := imaging.NewImageCache().LoadGray(outPath, imaging.GrayLuma)
	if err != nil {
		t.Fatalf("output file not readable: %v", err)
	}
	if saved.GrayAt(0, 0).Y != 127 || saved.GrayAt(1, 1).Y != 255 {
		t.Errorf("saved pixels: got %d and %d", saved.GrayAt(0, 0).Y, saved.GrayAt(1, 1).Y)
	}
}

func TestHandleImageEqualize_ColorInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 64; i++ {
		img.Set(i%8, i/8, color.RGBA{uint8(100 + i), 80, 60, 255})
	}
	path := writeImageFile(t, "color.png", img)

	for _, mode := range []string{"luma", "lightness"} {
		var res EqualizeResult
		mustCall(t, New(), "image_equalize", map[string]interface{}{"path": path, "gray_mode": mode}, &res)
		if res.Image.Width != 8 || res.Image.Height != 8 {
			t.Errorf("%s: dimensions got %dx%d", mode, res.Image.Width, res.Image.Height)
		}
		if res.Mapping[255] != 255 {
			t.Errorf("%s: mapping[255] got %v", mode, res.Mapping[255])
		}
	}
}

func TestHandleImageHistogramChart(t *testing.T) {
	path := grayFile(t, 4, 4, []uint8{10, 20, 30, 40, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120})

	var res imaging.EncodedImage
	mustCall(t, New(), "image_histogram_chart", map[string]interface{}{"path": path, "title": "test"}, &res)

	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", res.MimeType)
	}
	chart := decodeEncoded(t, &res)
	if chart.Bounds().Dx() != res.Width || chart.Bounds().Dy() != res.Height {
		t.Errorf("chart bounds %v do not match %dx%d", chart.Bounds(), res.Width, res.Height)
	}
	if res.Width == 0 || res.Height == 0 {
		t.Error("chart should not be empty")
	}
}

func TestHandleImageBackgroundDiff(t *testing.T) {
	bg := squareFile(t, "bg.png", 40, 30, 0, 0, 0, 50, 50)
	frame := squareFile(t, "frame.png", 40, 30, 10, 5, 10, 50, 200)

	var res BackgroundDiffResult
	mustCall(t, New(), "image_background_diff", map[string]interface{}{
		"background_path": bg,
		"frame_path":      frame,
		"kernel_radius":   0,
		"width":           0,
		"height":          0,
	}, &res)

	if res.Mask.Width != 40 || res.Mask.Height != 30 {
		t.Errorf("mask dimensions: got %dx%d, want 40x30", res.Mask.Width, res.Mask.Height)
	}
	if res.Foreground.Pixels != 100 {
		t.Errorf("foreground pixels: got %d, want 100", res.Foreground.Pixels)
	}
	b := res.Foreground.Bounds
	if b == nil || b.X1 != 10 || b.Y1 != 5 || b.X2 != 20 || b.Y2 != 15 {
		t.Errorf("bounds: got %+v, want (10,5)-(20,15)", b)
	}
}

func TestHandleImageBackgroundDiff_Defaults(t *testing.T) {
	bg := squareFile(t, "bg.png", 64, 64, 0, 0, 0, 50, 50)
	frame := squareFile(t, "frame.png", 64, 64, 16, 16, 32, 50, 200)

	var res BackgroundDiffResult
	mustCall(t, New(), "image_background_diff", map[string]interface{}{
		"background_path": bg,
		"frame_path":      frame,
	}, &res)

	// Both images are resized to the default 128x128.
	if res.Mask.Width != 128 || res.Mask.Height != 128 {
		t.Errorf("mask dimensions: got %dx%d, want 128x128", res.Mask.Width, res.Mask.Height)
	}
	if res.Foreground.Pixels == 0 || res.Foreground.Bounds == nil {
		t.Fatal("expected foreground")
	}
	if res.Foreground.Fraction <= 0.1 || res.Foreground.Fraction >= 0.5 {
		t.Errorf("fraction: got %v, want roughly a quarter", res.Foreground.Fraction)
	}
}

func TestHandleImageBackgroundDiff_MaxThreshold(t *testing.T) {
	bg := squareFile(t, "bg.png", 20, 20, 0, 0, 0, 0, 0)
	frame := squareFile(t, "frame.png", 20, 20, 0, 0, 20, 0, 255)

	var res BackgroundDiffResult
	mustCall(t, New(), "image_background_diff", map[string]interface{}{
		"background_path": bg,
		"frame_path":      frame,
		"threshold":       255,
	}, &res)

	if res.Foreground.Pixels != 0 || res.Foreground.Bounds != nil {
		t.Errorf("threshold 255 should give an empty mask, got %+v", res.Foreground)
	}
}

func TestHandleImageBackgroundDiff_Errors(t *testing.T) {
	bg := squareFile(t, "bg.png", 20, 20, 0, 0, 0, 0, 0)
	small := squareFile(t, "small.png", 10, 10, 0, 0, 0, 0, 0)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"threshold too high", map[string]interface{}{"background_path": bg, "frame_path": bg, "threshold": 256}},
		{"negative threshold", map[string]interface{}{"background_path": bg, "frame_path": bg, "threshold": -1}},
		{"negative radius", map[string]interface{}{"background_path": bg, "frame_path": bg, "kernel_radius": -1}},
		{"huge radius", map[string]interface{}{"background_path": bg, "frame_path": bg, "kernel_radius": 1e7}},
		{"huge width", map[string]interface{}{"background_path": bg, "frame_path": bg, "width": 1 << 30, "height": 10}},
		{"huge height", map[string]interface{}{"background_path": bg, "frame_path": bg, "width": 10, "height": 100000}},
		{"size mismatch", map[string]interface{}{"background_path": bg, "frame_path": small, "width": 0, "height": 0}},
		{"missing frame", map[string]interface{}{"background_path": bg, "frame_path": "/nonexistent.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, mcpErr := callTool(t, New(), "image_background_diff", tt.args); mcpErr == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleImageOCR_BadRegion(t *testing.T) {
	path := grayFile(t, 4, 4, make([]uint8, 16))
	_, mcpErr := callTool(t, New(), "image_ocr", map[string]interface{}{
		"path":   path,
		"region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 10, "y2": 10},
	})
	if mcpErr == nil {
		t.Error("expected error for region outside image")
	}
}

func TestHandleImageOCR(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 120, 40))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path := writeImageFile(t, "blank.png", img)

	text, mcpErr := callTool(t, New(), "image_ocr", map[string]interface{}{"path": path, "equalize": true})
	if mcpErr != nil {
		data, _ := mcpErr.Data.(string)
		if strings.Contains(data, "tesseract") || strings.Contains(data, "library") {
			t.Skip("Tesseract not available")
		}
		t.Fatalf("image_ocr failed: %v", mcpErr.Data)
	}

	var res struct {
		Equalized bool `json:"equalized"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("bad result: %v", err)
	}
	if !res.Equalized {
		t.Error("equalized flag should be set")
	}
}
