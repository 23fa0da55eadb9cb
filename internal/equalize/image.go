package equalize

import (
	"errors"
	"fmt"
	"image"
)

// Levels is the number of distinct 8-bit intensity values.
const Levels = 256

// ErrInvalidInput is returned for empty images and out-of-range samples.
var ErrInvalidInput = errors.New("invalid input")

// Image is a single-channel intensity grid.
//
// Pix holds Width*Height samples in row-major order; the sample at (x, y)
// is Pix[y*Width+x]. Samples outside [0,255] are rejected by Validate.
type Image struct {
	Width  int
	Height int
	Pix    []int
}

// NewImage allocates a zeroed image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]int, width*height),
	}
}

// At returns the sample at (x, y).
func (m *Image) At(x, y int) int {
	return m.Pix[y*m.Width+x]
}

// Set stores v at (x, y).
func (m *Image) Set(x, y, v int) {
	m.Pix[y*m.Width+x] = v
}

// Validate reports whether the image can be equalized.
func (m *Image) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	if m.Width < 1 || m.Height < 1 {
		return fmt.Errorf("%w: image is empty (%dx%d)", ErrInvalidInput, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: have %d samples for %dx%d image", ErrInvalidInput, len(m.Pix), m.Width, m.Height)
	}
	for i, v := range m.Pix {
		if v < 0 || v >= Levels {
			return fmt.Errorf("%w: sample %d at (%d,%d) outside [0,255]",
				ErrInvalidInput, v, i%m.Width, i/m.Width)
		}
	}
	return nil
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	pix := make([]int, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// FromGray copies a grayscale image into an intensity grid. The grid origin
// is the top-left of g's bounds.
func FromGray(g *image.Gray) *Image {
	b := g.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+out.Width]
		dst := out.Pix[y*out.Width : (y+1)*out.Width]
		for x, v := range row {
			dst[x] = int(v)
		}
	}
	return out
}

// Gray converts the grid to an *image.Gray anchored at (0,0). Samples are
// clamped to [0,255].
func (m *Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		g.Pix[i] = clampLevel(v)
	}
	return g
}

func clampLevel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > Levels-1 {
		return Levels - 1
	}
	return uint8(v)
}
