package gesture

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/histeq-tools/internal/imaging"
)

// Harness abstracts the camera, the display and the keyboard.
type Harness interface {
	// NextFrame blocks until the next camera frame is available.
	NextFrame() (image.Image, error)

	// PollKey returns the key pressed since the last poll, or KeyNone.
	PollKey() int

	// Show renders a frame or mask.
	Show(frame image.Image) error
}

// StopReason says why Run returned.
type StopReason string

const (
	StopQuit       StopReason = "quit"
	StopFrameLimit StopReason = "frame_limit"
	StopCanceled   StopReason = "canceled"
)

// Summary describes a finished run.
type Summary struct {
	Frames      int        `json:"frames"`
	Backgrounds int        `json:"backgrounds"`
	Masks       int        `json:"masks"`
	Reason      StopReason `json:"reason"`

	// LastForeground measures the most recent mask, if any was produced.
	LastForeground *Foreground `json:"last_foreground,omitempty"`
}

// Loop is the background-difference capture loop.
type Loop struct {
	cfg     Config
	harness Harness
	iso     *Isolator
	log     *log.Logger

	background image.Image
}

// New validates cfg and binds it to harness.
func New(cfg Config, harness Harness) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if harness == nil {
		return nil, fmt.Errorf("%w: nil harness", ErrInvalidConfig)
	}
	return &Loop{
		cfg:     cfg,
		harness: harness,
		iso:     NewIsolator(cfg),
		log:     cfg.logger(),
	}, nil
}

// Run reads frames until the quit key, the frame limit or ctx cancellation.
//
// Harness errors end the run; the returned Summary is always non-nil and
// reflects the frames handled before the error.
func (l *Loop) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}
	capturing := true
	l.log.Printf("capturing background")

	for {
		if err := ctx.Err(); err != nil {
			sum.Reason = StopCanceled
			return sum, err
		}
		if l.cfg.MaxFrames > 0 && sum.Frames >= l.cfg.MaxFrames {
			sum.Reason = StopFrameLimit
			return sum, nil
		}

		frame, err := l.harness.NextFrame()
		if err != nil {
			return sum, fmt.Errorf("failed to read frame: %w", err)
		}
		frame = imaging.Fit(frame, l.cfg.FrameWidth, l.cfg.FrameHeight)
		sum.Frames++

		shown := frame
		if !capturing {
			mask, err := l.iso.Isolate(l.background, frame)
			if err != nil {
				return sum, err
			}
			fg := Measure(mask)
			sum.Masks++
			sum.LastForeground = &fg
			shown = mask
		}

		if err := l.harness.Show(shown); err != nil {
			return sum, fmt.Errorf("failed to show frame: %w", err)
		}

		switch l.harness.PollKey() {
		case l.cfg.QuitKey:
			l.log.Printf("escape pressed")
			sum.Reason = StopQuit
			return sum, nil
		case l.cfg.BackgroundKey:
			if capturing {
				l.background = frame
				sum.Backgrounds++
				capturing = false
				l.log.Printf("background taken")
			} else {
				capturing = true
				l.log.Printf("capturing background")
			}
		}
	}
}
