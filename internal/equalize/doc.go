// Package equalize implements global histogram equalization for single-channel
// intensity images.
//
// An Image is a row-major grid of samples in [0,255]. Equalize computes the
// relative-frequency histogram of the input, turns it into a cumulative
// mapping scaled to [0,255], remaps every sample through that mapping and
// histograms the result. The input is never modified.
//
// # Truncation Policy
//
// Mapped values are converted to integer intensities by truncation toward
// zero. The cumulative mapping is accumulated from integer counts and scaled
// once, so the last populated level always maps to exactly 255. With this
// policy equalization is idempotent: equalizing an already-equalized image
// returns the same histogram.
//
// Summing normalized frequencies in floating point instead can land a hair
// below an integer (254.99999999999997 rather than 255), which truncation
// then drops a whole level. Outputs of this package can therefore be one
// level higher than a float-accumulated implementation for the same input.
//
// # Error Handling
//
// All validation failures wrap ErrInvalidInput:
//   - Width or height below 1
//   - Sample slice length different from Width*Height
//   - Any sample outside [0,255]
package equalize
