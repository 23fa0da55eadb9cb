package gesture

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/histeq-tools/internal/imaging"
)

// BT.601 luma weights, the same conversion as imaging.GrayLuma.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Isolator turns a background/frame pair into a binary foreground mask.
type Isolator struct {
	threshold uint8
	radius    float64
}

// NewIsolator creates an isolator using cfg's threshold and kernel radius.
func NewIsolator(cfg Config) *Isolator {
	return &Isolator{threshold: cfg.Threshold, radius: cfg.KernelRadius}
}

// Isolate returns a mask that is 255 where frame differs from background by
// more than the threshold and 0 elsewhere.
//
//  1. Both images flattened onto an opaque black canvas
//  2. Absolute per-channel difference
//  3. Reduction to one intensity channel with BT.601 weights
//  4. Binary threshold
//  5. Opening (erode then dilate) to drop isolated noise
//  6. One more dilation to close gaps in the foreground
//
// Both images must have the same size.
func (iso *Isolator) Isolate(background, frame image.Image) (*image.Gray, error) {
	bs, fs := background.Bounds().Size(), frame.Bounds().Size()
	if bs != fs {
		return nil, fmt.Errorf("frame size %dx%d does not match background %dx%d", fs.X, fs.Y, bs.X, bs.Y)
	}

	diff := effect.GrayscaleWithWeights(
		blend.Difference(imaging.Flatten(background), imaging.Flatten(frame)),
		lumaR, lumaG, lumaB)

	// segment.Threshold keeps values at or above its level.
	if iso.threshold == 255 {
		return image.NewGray(image.Rect(0, 0, fs.X, fs.Y)), nil
	}
	mask := segment.Threshold(diff, iso.threshold+1)

	if iso.radius <= 0 {
		return rebase(mask), nil
	}
	opened := effect.Dilate(effect.Erode(mask, iso.radius), iso.radius)
	return redChannel(effect.Dilate(opened, iso.radius)), nil
}

// rebase copies g into a gray image anchored at (0,0).
func rebase(g *image.Gray) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], g.Pix[y*g.Stride:])
	}
	return dst
}

// redChannel extracts the R channel of a grayscale-valued RGBA image.
func redChannel(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = row[x*4]
		}
	}
	return dst
}

// Bounds is a bounding box with inclusive top-left and exclusive
// bottom-right corners.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Foreground summarizes the white pixels of a mask.
type Foreground struct {
	// Pixels is the number of foreground pixels.
	Pixels int `json:"pixels"`

	// Fraction is Pixels divided by the mask area.
	Fraction float64 `json:"fraction"`

	// Bounds encloses every foreground pixel. Nil when the mask is empty.
	Bounds *Bounds `json:"bounds,omitempty"`
}

// Measure counts the non-zero pixels of mask and finds their bounding box.
func Measure(mask *image.Gray) Foreground {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	minX, minY := w, h
	maxX, maxY := -1, -1
	var fg Foreground

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			fg.Pixels++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if w*h > 0 {
		fg.Fraction = float64(fg.Pixels) / float64(w*h)
	}
	if fg.Pixels > 0 {
		fg.Bounds = &Bounds{
			X1: minX + b.Min.X,
			Y1: minY + b.Min.Y,
			X2: maxX + b.Min.X + 1,
			Y2: maxY + b.Min.Y + 1,
		}
	}
	return fg
}
