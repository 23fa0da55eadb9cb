package gesture

import (
	"errors"
	"fmt"
	"log"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Key codes reported by Harness.PollKey.
const (
	KeyNone       = -1
	KeyBackground = 98 // 'b'
	KeyEscape     = 27
)

// Upper bounds accepted by Config.Validate.
const (
	MaxKernelRadius = 64
	MaxFrameSize    = 4096
)

// Config holds everything the capture loop needs at construction time.
type Config struct {
	// Threshold is the difference level a pixel must exceed to count as
	// foreground.
	Threshold uint8

	// KernelRadius is the radius of the morphological window; 1 means a
	// 3x3 neighbourhood. Zero disables noise cleanup.
	KernelRadius float64

	// FrameWidth and FrameHeight resize every frame before processing.
	// Either one set to zero disables resizing.
	FrameWidth  int
	FrameHeight int

	// BackgroundKey toggles background capture, QuitKey ends the loop.
	BackgroundKey int
	QuitKey       int

	// MaxFrames bounds the number of frames read. Zero means no bound.
	MaxFrames int

	// Logger receives phase transitions. Nil uses log.Default().
	Logger *log.Logger
}

// DefaultConfig returns a 10-level threshold, a 3x3 window, 128x128 frames
// and the b / Escape keys.
func DefaultConfig() Config {
	return Config{
		Threshold:     10,
		KernelRadius:  1,
		FrameWidth:    128,
		FrameHeight:   128,
		BackgroundKey: KeyBackground,
		QuitKey:       KeyEscape,
	}
}

// Validate reports configuration errors wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.KernelRadius < 0:
		return fmt.Errorf("%w: kernel radius %v is negative", ErrInvalidConfig, c.KernelRadius)
	case c.KernelRadius > MaxKernelRadius:
		return fmt.Errorf("%w: kernel radius %v exceeds %d", ErrInvalidConfig, c.KernelRadius, MaxKernelRadius)
	case c.FrameWidth < 0 || c.FrameHeight < 0:
		return fmt.Errorf("%w: frame size %dx%d is negative", ErrInvalidConfig, c.FrameWidth, c.FrameHeight)
	case c.FrameWidth > MaxFrameSize || c.FrameHeight > MaxFrameSize:
		return fmt.Errorf("%w: frame size %dx%d exceeds %dx%d",
			ErrInvalidConfig, c.FrameWidth, c.FrameHeight, MaxFrameSize, MaxFrameSize)
	case c.MaxFrames < 0:
		return fmt.Errorf("%w: max frames %d is negative", ErrInvalidConfig, c.MaxFrames)
	case c.BackgroundKey == c.QuitKey:
		return fmt.Errorf("%w: background and quit keys are both %d", ErrInvalidConfig, c.QuitKey)
	case c.BackgroundKey == KeyNone || c.QuitKey == KeyNone:
		return fmt.Errorf("%w: key code %d means no key", ErrInvalidConfig, KeyNone)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
