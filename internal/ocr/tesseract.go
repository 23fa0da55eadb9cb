package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/histeq-tools/internal/equalize"
	"github.com/ironsheep/histeq-tools/internal/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is a recognized word with its location and confidence.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words. May be empty if bounding box
	// extraction fails.
	Regions []TextRegion `json:"regions"`

	// Equalized reports whether the equalization pre-pass was applied.
	Equalized bool `json:"equalized"`
}

// Options controls recognition.
type Options struct {
	// Language is the Tesseract language code. Empty means "eng".
	Language string

	// Equalize applies histogram equalization before recognition.
	Equalize bool

	// GrayMode selects the color to intensity conversion used by the
	// equalization pre-pass.
	GrayMode imaging.GrayMode
}

// Prepare returns the image Tesseract will see for opts: img itself, or its
// equalized intensity channel when opts.Equalize is set.
func Prepare(img image.Image, opts Options) (image.Image, error) {
	if !opts.Equalize {
		return img, nil
	}
	res, err := equalize.Equalize(equalize.FromGray(imaging.ToGray(img, opts.GrayMode)))
	if err != nil {
		return nil, fmt.Errorf("failed to equalize: %w", err)
	}
	return res.Equalized.Gray(), nil
}

// Recognize performs OCR on an in-memory image.
//
// The image is PNG-encoded and handed to Tesseract without touching disk.
// Word bounding boxes are in img's coordinate space (top-left at 0,0).
func Recognize(img image.Image, opts Options) (*OCRResult, error) {
	prepared, err := Prepare(img, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	res, err := recognize(client, opts.Language)
	if err != nil {
		return nil, err
	}
	res.Equalized = opts.Equalize
	return res, nil
}

func recognize(client *gosseract.Client, language string) (*OCRResult, error) {
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &OCRResult{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &OCRResult{
		FullText: text,
		Regions:  regions,
	}, nil
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
