package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/histeq-tools/internal/equalize"
	"github.com/ironsheep/histeq-tools/internal/imaging"
	"github.com/ironsheep/histeq-tools/internal/plot"
)

var chartPath string

var equalizeCmd = &cobra.Command{
	Use:   "equalize <input> <output>",
	Short: "Equalize the intensity histogram of an image.",
	Long: `Reduce the input image to one intensity channel, equalize its histogram
and write the result. The output format follows the output file extension.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := grayMode()
		if err != nil {
			return err
		}
		_, err = equalizeFile(args[0], args[1], chartPath, mode)
		return err
	},
}

func init() {
	rootCmd.AddCommand(equalizeCmd)

	equalizeCmd.Flags().StringVar(&chartPath, "chart", "", "also write a PNG chart of the before/after histograms")
}

// equalizeFile equalizes in, saves the result to out and optionally plots
// both histograms to chart.
func equalizeFile(in, out, chart string, mode imaging.GrayMode) (*equalize.Result, error) {
	gray, err := imaging.NewImageCache().LoadGray(in, mode)
	if err != nil {
		return nil, err
	}

	res, err := equalize.Equalize(equalize.FromGray(gray))
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(res.Equalized.Gray(), out); err != nil {
		return nil, err
	}
	log.Printf("equalized %s (%dx%d) -> %s", in, res.Equalized.Width, res.Equalized.Height, out)

	if chart == "" {
		return res, nil
	}
	if err := writeChart(chart, res, in); err != nil {
		return nil, err
	}
	log.Printf("histogram chart -> %s", chart)
	return res, nil
}

// writeChart plots the before/after histograms of res into a PNG file.
func writeChart(path string, res *equalize.Result, title string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close chart file: %w", cerr)
		}
	}()
	return plot.Comparison(f, res, title)
}
