package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
)

// ChannelHistograms contains per-channel pixel counts for a color image.
//
// Each slice has 256 entries indexed by 8-bit channel value. Unlike the
// intensity histograms produced by package equalize, these are raw counts.
type ChannelHistograms struct {
	Red   []int `json:"red"`
	Green []int `json:"green"`
	Blue  []int `json:"blue"`

	// Max is the largest count across the three channels, useful for
	// scaling plots.
	Max int `json:"max"`

	// Cumulative is true when each slice holds running totals.
	Cumulative bool `json:"cumulative"`
}

// RGBHistograms counts R, G and B channel values of img.
//
// When cumulative is true each bin holds the number of pixels with a channel
// value at or below that bin.
func RGBHistograms(img image.Image, cumulative bool) *ChannelHistograms {
	h := histogram.NewRGBAHistogram(img)
	if cumulative {
		h = h.Cumulative()
	}

	res := &ChannelHistograms{
		Red:        h.R.Bins,
		Green:      h.G.Bins,
		Blue:       h.B.Bins,
		Cumulative: cumulative,
	}
	for _, m := range []int{h.R.Max(), h.G.Max(), h.B.Max()} {
		if m > res.Max {
			res.Max = m
		}
	}
	return res
}
