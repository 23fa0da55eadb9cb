// Package gesture isolates a moving foreground (typically a hand) from a
// static background in a live camera feed.
//
// A background frame is captured on request, then every following frame is
// differenced against it, thresholded into a binary mask and cleaned with a
// morphological opening followed by a dilation. The loop is driven through a
// Harness, so it runs the same against a real camera (build with -tags gocv)
// as against a scripted fake in tests.
//
// # Key Handling
//
// Two key codes are recognized, both configurable:
//   - 'b' (98): capture a background / return to background capture
//   - Escape (27): quit
//
// # Phases
//
// The loop starts in background capture, where raw frames are shown until the
// background key is pressed. It then shows masks until the background key is
// pressed again (back to capture) or the quit key ends the loop.
package gesture
