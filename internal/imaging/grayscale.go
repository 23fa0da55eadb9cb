package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// GrayMode selects how a color image is reduced to one intensity channel.
type GrayMode string

const (
	// GrayLuma weights R, G and B by the ITU-R BT.601 coefficients
	// (0.299, 0.587, 0.114). This is the conversion most capture and
	// display stacks use for "grayscale".
	GrayLuma GrayMode = "luma"

	// GrayLightness uses perceptual CIE L* lightness, scaled from [0,1]
	// to [0,255].
	GrayLightness GrayMode = "lightness"
)

// ParseGrayMode converts a user-supplied mode name. An empty string selects
// GrayLuma.
func ParseGrayMode(s string) (GrayMode, error) {
	switch GrayMode(s) {
	case "", GrayLuma:
		return GrayLuma, nil
	case GrayLightness:
		return GrayLightness, nil
	default:
		return "", fmt.Errorf("unknown gray mode %q (want %q or %q)", s, GrayLuma, GrayLightness)
	}
}

// ToGray converts img to an 8-bit grayscale image anchored at (0,0).
//
// Images that are already *image.Gray are copied, not converted, so the
// result never aliases the input.
func ToGray(img image.Image, mode GrayMode) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return copyGray(g)
	}
	if mode == GrayLightness {
		return lightness(img)
	}
	return luma(img)
}

func copyGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[y*src.Stride:])
	}
	return dst
}

// luma relies on imaging.Grayscale, which writes the same BT.601 value into
// R, G and B of an NRGBA image; the R channel is taken as the intensity.
func luma(img image.Image) *image.Gray {
	n := imaging.Grayscale(img)
	b := n.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := n.Pix[y*n.Stride : y*n.Stride+b.Dx()*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()]
		for x := range row {
			row[x] = src[x*4]
		}
	}
	return dst
}

func lightness(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c, _ := colorful.MakeColor(img.At(x+b.Min.X, y+b.Min.Y))
			l, _, _ := c.Lab()
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(math.Max(0, math.Min(1, l)) * 255))
		}
	}
	return dst
}
