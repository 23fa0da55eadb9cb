package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/histeq-tools/internal/equalize"
	"github.com/ironsheep/histeq-tools/internal/imaging"
)

var histogramChannels bool

var histogramCmd = &cobra.Command{
	Use:   "histogram <input>",
	Short: "Print the intensity histogram of an image as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := grayMode()
		if err != nil {
			return err
		}
		return printHistogram(os.Stdout, args[0], mode, histogramChannels)
	},
}

func init() {
	rootCmd.AddCommand(histogramCmd)

	histogramCmd.Flags().BoolVar(&histogramChannels, "channels", false, "include red, green and blue channel counts")
}

type histogramOutput struct {
	Path      string                     `json:"path"`
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Histogram equalize.Histogram         `json:"histogram"`
	Channels  *imaging.ChannelHistograms `json:"channels,omitempty"`
}

func printHistogram(w io.Writer, path string, mode imaging.GrayMode, channels bool) error {
	cache := imaging.NewImageCache()
	gray, err := cache.LoadGray(path, mode)
	if err != nil {
		return err
	}
	img := equalize.FromGray(gray)
	h, err := equalize.ComputeHistogram(img)
	if err != nil {
		return err
	}

	out := histogramOutput{Path: path, Width: img.Width, Height: img.Height, Histogram: h}
	if channels {
		src, err := cache.Load(path)
		if err != nil {
			return err
		}
		out.Channels = imaging.RGBHistograms(src, false)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
