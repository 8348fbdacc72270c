package report

import (
	"errors"
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Style holds every visual setting of the chart. It is passed to the
// Plotter explicitly; nothing here touches plot package defaults.
type Style struct {
	Title  string
	XLabel string
	YLabel string

	Width  vg.Length
	Height vg.Length
	DPI    int

	Typeface    font.Typeface
	FontVariant font.Variant

	TitleSize      vg.Length
	LabelSize      vg.Length
	TickSize       vg.Length
	LegendSize     vg.Length
	CaptionSize    vg.Length
	AnnotationSize vg.Length

	LineColor    color.Color
	LineWidth    vg.Length
	FillColor    color.Color
	MarkerColor  color.Color
	MarkerWidth  vg.Length
	GridColor    color.Color
	CaptionColor color.Color

	// TickYears is the spacing of labelled ticks on the time axis.
	TickYears int
}

// DefaultStyle returns a 12x6 inch, 300 DPI serif layout.
func DefaultStyle() Style {
	return Style{
		Title:  "Temporal Homogeneity of Regional Rainfall",
		XLabel: "Year",
		YLabel: "Rainfall (mm)",

		Width:  12 * vg.Inch,
		Height: 6 * vg.Inch,
		DPI:    300,

		Typeface:    "Liberation",
		FontVariant: "Serif",

		TitleSize:      vg.Points(18),
		LabelSize:      vg.Points(16),
		TickSize:       vg.Points(13),
		LegendSize:     vg.Points(13),
		CaptionSize:    vg.Points(13),
		AnnotationSize: vg.Points(14),

		LineColor:    color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		LineWidth:    vg.Points(2.8),
		FillColor:    color.NRGBA{B: 0xff, A: 38},
		MarkerColor:  color.RGBA{R: 0xff, A: 0xff},
		MarkerWidth:  vg.Points(2),
		GridColor:    color.NRGBA{A: 77},
		CaptionColor: color.RGBA{R: 0x69, G: 0x69, B: 0x69, A: 0xff},

		TickYears: 5,
	}
}

// Validate reports settings the renderer cannot work with.
func (s Style) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return errors.New("figure width and height must be positive")
	case s.DPI <= 0:
		return errors.New("figure DPI must be positive")
	case s.TickYears <= 0:
		return errors.New("tick interval must be at least one year")
	}
	return nil
}

func (s Style) font(size vg.Length, weight xfont.Weight, style xfont.Style) font.Font {
	return font.Font{
		Typeface: s.Typeface,
		Variant:  s.FontVariant,
		Style:    style,
		Weight:   weight,
		Size:     size,
	}
}
