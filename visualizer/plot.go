package visualizer

import (
	"fmt"
	"io"
	"math"
	"os"

	"handcompare/types"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Defaults for the rendered chart
const (
	DefaultMargin      = 0.02
	DefaultLabelOffset = 0.002
	DefaultWidth       = 1200
	DefaultHeight      = 600
	DefaultDPI         = 100
)

// palette is the ten-colour categorical palette used for the points
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// RenderOptions controls the chart layout
type RenderOptions struct {
	Width       int
	Height      int
	DPI         float64
	Margin      float64
	LabelOffset float64
	Fonts       *Fonts
}

// DefaultRenderOptions returns the default layout without fonts
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		DPI:         DefaultDPI,
		Margin:      DefaultMargin,
		LabelOffset: DefaultLabelOffset,
	}
}

// PlotBounds are the axis limits of a chart. X is SSIM and Y is LPIPS.
type PlotBounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Ranges are the observed extremes of both metric columns. NaN cells are
// ignored; a column without numbers reports NaN.
type Ranges struct {
	SSIMMin, SSIMMax   float64
	LPIPSMin, LPIPSMax float64
}

// ObservedRanges returns the min and max of both metrics in t
func ObservedRanges(t types.Table) Ranges {
	r := Ranges{
		SSIMMin: math.NaN(), SSIMMax: math.NaN(),
		LPIPSMin: math.NaN(), LPIPSMax: math.NaN(),
	}
	for _, row := range t {
		r.SSIMMin, r.SSIMMax = extend(r.SSIMMin, r.SSIMMax, row.SSIM)
		r.LPIPSMin, r.LPIPSMax = extend(r.LPIPSMin, r.LPIPSMax, row.LPIPS)
	}
	return r
}

func extend(lo, hi, v float64) (float64, float64) {
	if math.IsNaN(v) {
		return lo, hi
	}
	if math.IsNaN(lo) || v < lo {
		lo = v
	}
	if math.IsNaN(hi) || v > hi {
		hi = v
	}
	return lo, hi
}

// Filter keeps the rows whose SSIM and LPIPS both lie in [0,1]. Rows outside
// the range, or with missing values, are dropped rather than clipped.
func Filter(t types.Table) types.Table {
	var kept types.Table
	for _, row := range t {
		if inUnitRange(row.SSIM) && inUnitRange(row.LPIPS) {
			kept = append(kept, row)
		}
	}
	return kept
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// Bounds pads the extremes of t by margin on every side
func Bounds(t types.Table, margin float64) PlotBounds {
	r := ObservedRanges(t)
	return PlotBounds{
		XMin: r.SSIMMin - margin,
		XMax: r.SSIMMax + margin,
		YMin: r.LPIPSMin - margin,
		YMax: r.LPIPSMax + margin,
	}
}

// Title returns the chart title for a table file name
func Title(name string) string {
	return fmt.Sprintf("Scatter - SSIM vs LPIPS (%s)", name)
}

// NewChart builds the scatter chart for an already filtered table
func NewChart(title string, t types.Table, opts RenderOptions) chart.Chart {
	bounds := Bounds(t, opts.Margin)

	xs := make([]float64, len(t))
	ys := make([]float64, len(t))
	annotations := make([]chart.Value2, len(t))
	labelStyle := chart.Style{
		FontSize:    9,
		FontColor:   drawing.ColorBlack,
		StrokeColor: drawing.ColorTransparent,
		FillColor:   drawing.ColorTransparent,
	}
	if opts.Fonts != nil {
		labelStyle.Font = opts.Fonts.Label
	}
	for i, row := range t {
		xs[i] = row.SSIM
		ys[i] = row.LPIPS
		annotations[i] = chart.Value2{
			XValue: row.SSIM + opts.LabelOffset,
			YValue: row.LPIPS,
			Label:  row.Student,
			Style:  labelStyle,
		}
	}

	points := chart.ContinuousSeries{
		Name: "Students",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    5,
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return palette[index%len(palette)]
			},
		},
		XValues: xs,
		YValues: ys,
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      opts.Width,
		Height:     opts.Height,
		DPI:        opts.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:      "SSIM",
			NameStyle: chart.Style{FontSize: 12},
			Range:     &chart.ContinuousRange{Min: bounds.XMin, Max: bounds.XMax},
		},
		YAxis: chart.YAxis{
			Name:      "LPIPS",
			NameStyle: chart.Style{FontSize: 12},
			Range:     &chart.ContinuousRange{Min: bounds.YMin, Max: bounds.YMax},
		},
		Series: []chart.Series{
			points,
			chart.AnnotationSeries{Name: "Labels", Annotations: annotations},
		},
	}
	if opts.Fonts != nil {
		graph.Font = opts.Fonts.Regular
	}
	return graph
}

// Render writes the scatter chart of t to w as PNG
func Render(w io.Writer, title string, t types.Table, opts RenderOptions) error {
	if len(t) == 0 {
		return fmt.Errorf("nothing to plot for %q", title)
	}
	graph := NewChart(title, t, opts)
	return graph.Render(chart.PNG, w)
}

// Save renders the chart into a PNG file at path
func Save(path, title string, t types.Table, opts RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := Render(f, title, t, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("cannot render %s: %w", path, err)
	}
	return f.Close()
}
