package equalize

// Histogram holds the relative frequency of each intensity level.
type Histogram [Levels]float64

// Sum returns the total mass of the histogram. It is 1 (within floating
// point tolerance) for any histogram computed from a non-empty image.
func (h Histogram) Sum() float64 {
	var s float64
	for _, v := range h {
		s += v
	}
	return s
}

// Mapping is the cumulative-distribution lookup table used to remap
// intensities. Values lie in [0,255] and never decrease.
type Mapping [Levels]float64

// Apply remaps every sample of img through the table, truncating each mapped
// value toward zero. img must already be valid.
func (m Mapping) Apply(img *Image) *Image {
	out := &Image{Width: img.Width, Height: img.Height, Pix: make([]int, len(img.Pix))}
	var lut [Levels]int
	for v, f := range m {
		lut[v] = int(f)
	}
	for i, v := range img.Pix {
		out.Pix[i] = lut[v]
	}
	return out
}

// Result is everything produced by one equalization.
type Result struct {
	// Equalized is the contrast-enhanced image, same size as Original.
	Equalized *Image

	// EqualizedHistogram is the histogram of Equalized.
	EqualizedHistogram Histogram

	// Original is the input image, unmodified.
	Original *Image

	// OriginalHistogram is the histogram of Original.
	OriginalHistogram Histogram

	// Mapping is the lookup table applied to Original.
	Mapping Mapping
}

// Equalize performs global histogram equalization on img.
//
//  1. h[v] = count(v) / (width*height)
//  2. mapping[v] = 255 * (h[0] + ... + h[v])
//  3. out[p] = trunc(mapping[img[p]])
//  4. the histogram of out is computed the same way as step 1
//
// Returns an error wrapping ErrInvalidInput if img is empty, its sample slice
// does not match its dimensions, or any sample is outside [0,255].
func Equalize(img *Image) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	counts := countLevels(img.Pix)
	mapping := mappingFromCounts(counts, len(img.Pix))
	out := mapping.Apply(img)

	return &Result{
		Equalized:          out,
		EqualizedHistogram: normalize(countLevels(out.Pix), len(out.Pix)),
		Original:           img,
		OriginalHistogram:  normalize(counts, len(img.Pix)),
		Mapping:            mapping,
	}, nil
}

// ComputeHistogram returns the relative-frequency histogram of img.
func ComputeHistogram(img *Image) (Histogram, error) {
	if err := img.Validate(); err != nil {
		return Histogram{}, err
	}
	return normalize(countLevels(img.Pix), len(img.Pix)), nil
}

// BuildMapping returns the scaled cumulative distribution of img's
// intensities.
func BuildMapping(img *Image) (Mapping, error) {
	if err := img.Validate(); err != nil {
		return Mapping{}, err
	}
	return mappingFromCounts(countLevels(img.Pix), len(img.Pix)), nil
}

func countLevels(pix []int) [Levels]int {
	var counts [Levels]int
	for _, v := range pix {
		counts[v]++
	}
	return counts
}

func normalize(counts [Levels]int, total int) Histogram {
	var h Histogram
	n := float64(total)
	for v, c := range counts {
		h[v] = float64(c) / n
	}
	return h
}

// mappingFromCounts scales the running count rather than summing
// normalized frequencies, so a complete CDF is exactly 255.
func mappingFromCounts(counts [Levels]int, total int) Mapping {
	var m Mapping
	n := float64(total)
	cum := 0
	for v, c := range counts {
		cum += c
		m[v] = float64(cum) * (Levels - 1) / n
	}
	return m
}
