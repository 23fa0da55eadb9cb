package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/histeq-tools/internal/gesture"
)

// camera is a harness that holds a device open.
type camera interface {
	gesture.Harness
	Close() error
}

var gestureCmd = &cobra.Command{
	Use:   "gesture",
	Short: "Isolate a hand from the webcam feed by background difference.",
	Long: `Open the camera and show live frames. Press 'b' with an empty scene to
capture the background; from then on the window shows the foreground mask.
Press 'b' again to recapture, ESC to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := gestureConfig()
		if err != nil {
			return err
		}

		camera, err := openCamera(viper.GetInt("gesture.device"), "histeq gesture")
		if err != nil {
			return err
		}
		defer camera.Close()

		loop, err := gesture.New(cfg, camera)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sum, err := loop.Run(ctx)
		if werr := writeSummary(os.Stdout, sum); werr != nil && err == nil {
			err = werr
		}
		return err
	},
}

// writeSummary prints sum as indented JSON. A nil summary writes nothing.
func writeSummary(w io.Writer, sum *gesture.Summary) error {
	if sum == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(gestureCmd)

	def := gesture.DefaultConfig()
	flags := gestureCmd.Flags()
	flags.Int("threshold", int(def.Threshold), "difference level (0-255) a pixel must exceed to count as foreground")
	flags.Float64("kernel-radius", def.KernelRadius, "noise cleanup radius, 0 disables")
	flags.Int("width", def.FrameWidth, "frame width after resizing, 0 keeps camera size")
	flags.Int("height", def.FrameHeight, "frame height after resizing, 0 keeps camera size")
	flags.Int("device", 0, "camera device index")
	flags.Int("max-frames", 0, "stop after this many frames, 0 runs until ESC")

	viper.BindPFlag("gesture.threshold", flags.Lookup("threshold"))
	viper.BindPFlag("gesture.kernel_radius", flags.Lookup("kernel-radius"))
	viper.BindPFlag("gesture.frame_width", flags.Lookup("width"))
	viper.BindPFlag("gesture.frame_height", flags.Lookup("height"))
	viper.BindPFlag("gesture.device", flags.Lookup("device"))
	viper.BindPFlag("gesture.max_frames", flags.Lookup("max-frames"))
}

// gestureConfig builds the loop configuration from viper settings.
func gestureConfig() (gesture.Config, error) {
	cfg := gesture.DefaultConfig()

	threshold := viper.GetInt("gesture.threshold")
	if threshold < 0 || threshold > 255 {
		return cfg, fmt.Errorf("%w: threshold %d outside [0,255]", gesture.ErrInvalidConfig, threshold)
	}
	cfg.Threshold = uint8(threshold)
	cfg.KernelRadius = viper.GetFloat64("gesture.kernel_radius")
	cfg.FrameWidth = viper.GetInt("gesture.frame_width")
	cfg.FrameHeight = viper.GetInt("gesture.frame_height")
	cfg.MaxFrames = viper.GetInt("gesture.max_frames")
	cfg.Logger = log.Default()

	return cfg, cfg.Validate()
}
