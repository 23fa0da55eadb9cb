// Package plot renders intensity histograms as PNG charts.
package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ironsheep/histeq-tools/internal/equalize"
)

const (
	defaultWidth  = 1024
	defaultHeight = 512
	tickEvery     = 32
)

// Series is one named histogram to draw.
type Series struct {
	Name      string
	Histogram equalize.Histogram
}

// Options controls chart size and title. Zero values select defaults.
type Options struct {
	Title  string
	Width  int
	Height int
}

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorOrange,
	chart.ColorGreen,
	chart.ColorRed,
}

// Histograms draws each series as a line over intensity levels 0-255 and
// writes the chart to w as PNG.
func Histograms(w io.Writer, opts Options, series ...Series) error {
	if len(series) == 0 {
		return errors.New("no histograms to plot")
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	xvalues := make([]float64, equalize.Levels)
	for i := range xvalues {
		xvalues[i] = float64(i)
	}

	var ticks []chart.Tick
	for v := 0; v < equalize.Levels; v += tickEvery {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	ticks = append(ticks, chart.Tick{Value: equalize.Levels - 1, Label: "255"})

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Intensity",
			Range: &chart.ContinuousRange{Min: 0, Max: equalize.Levels - 1},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Relative frequency",
		},
	}

	for i, s := range series {
		c := palette[i%len(palette)]
		yvalues := make([]float64, equalize.Levels)
		copy(yvalues, s.Histogram[:])
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeColor: c,
				FillColor:   c.WithAlpha(48),
			},
			XValues: xvalues,
			YValues: yvalues,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// Comparison plots the before/after histograms of one equalization.
func Comparison(w io.Writer, res *equalize.Result, title string) error {
	return Histograms(w, Options{Title: title},
		Series{Name: "original", Histogram: res.OriginalHistogram},
		Series{Name: "equalized", Histogram: res.EqualizedHistogram},
	)
}
