// Package ocr runs Tesseract text recognition (via gosseract/v2), optionally
// after a histogram-equalization pre-pass.
//
// Low-contrast scans and photographs often OCR poorly because glyph and
// background intensities sit close together. Setting Options.Equalize reduces
// the image to one intensity channel and equalizes it before recognition,
// spreading those intensities over the full range.
//
// # Prerequisites
//
// Tesseract and the language data for the requested language must be
// installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Error Handling
//
// Functions return errors for unreadable images, unsupported language codes
// and Tesseract initialization failures. If word bounding boxes cannot be
// extracted the recognized text is still returned with an empty Regions slice.
package ocr
