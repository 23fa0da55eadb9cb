// Package imaging loads, converts and encodes images for the equalization and
// background-difference tools.
//
// It sits between files on disk and the single-channel grids used by package
// equalize: decoding (PNG, JPEG, GIF, BMP, TIFF, WebP), reduction of color
// images to one intensity channel, region cropping, resizing and base64 PNG
// encoding for JSON results. Per-channel RGB histograms of color images are
// also computed here.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, (x1,y1) is inclusive and (x2,y2) is exclusive. Images returned by
// this package are anchored at (0,0) regardless of the input's bounds.
//
// # Intensity Conversion
//
// Two conversions are offered:
//   - GrayLuma: ITU-R BT.601 weights, the usual RGB to gray formula
//   - GrayLightness: CIE L* lightness, perceptually uniform
//
// Inputs that are already *image.Gray are copied unchanged in either mode.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
package imaging
