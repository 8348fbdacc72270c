package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chrissnell/rainhomog/internal/detector"
	"github.com/chrissnell/rainhomog/internal/types"
	"go.uber.org/zap"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is everything drawn on one chart.
type Figure struct {
	TestName string
	Series   types.RegionalSeries
	Result   detector.TestResult
	Class    detector.Classification
}

// Plotter renders regional rainfall charts with a given Style.
type Plotter struct {
	style  Style
	logger *zap.SugaredLogger
}

// NewPlotter creates a Plotter. The style is validated when rendering.
func NewPlotter(style Style, logger *zap.SugaredLogger) *Plotter {
	return &Plotter{
		style:  style,
		logger: logger,
	}
}

// Plot builds the chart without the caption. The second return value
// reports whether a change-point marker was drawn.
func (p *Plotter) Plot(f Figure) (*plot.Plot, bool, error) {
	n := f.Series.Len()
	if n == 0 {
		return nil, false, fmt.Errorf("cannot plot an empty series")
	}

	s := p.style
	plt := plot.New()
	p.styleAxes(plt)
	plt.Title.Text = fmt.Sprintf("%s (%s Test)", s.Title, f.TestName)

	values := f.Series.Values()
	times := f.Series.Times()
	xys := make(plotter.XYs, n)
	for i := range xys {
		xys[i].X = float64(times[i].Unix())
		xys[i].Y = values[i]
	}

	yMax := floats.Max(values)
	plt.Y.Min = math.Min(0, floats.Min(values))

	grid := plotter.NewGrid()
	grid.Vertical.Color = s.GridColor
	grid.Horizontal.Color = s.GridColor
	plt.Add(grid)

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, false, fmt.Errorf("building rainfall line: %w", err)
	}
	line.LineStyle.Color = s.LineColor
	line.LineStyle.Width = s.LineWidth
	line.FillColor = s.FillColor
	plt.Add(line)
	plt.Legend.Add("Regional Mean Rainfall", line)

	cp, ok := f.Result.ChangePointWithin(n)
	if !ok {
		if raw, defined := f.Result.ChangePoint.Get(); defined {
			p.logger.Warnw("change point outside series, marker skipped", "index", raw, "points", n)
		}
		return plt, false, nil
	}

	at := times[cp]
	x := xys[cp].X

	marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: plt.Y.Min}, {X: x, Y: yMax}})
	if err != nil {
		return nil, false, fmt.Errorf("building change-point marker: %w", err)
	}
	marker.LineStyle.Color = s.MarkerColor
	marker.LineStyle.Width = s.MarkerWidth
	marker.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	plt.Add(marker)
	plt.Legend.Add(fmt.Sprintf("Change Point (%s)", at.Format("2006-01-02")), marker)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: yMax * 0.97}},
		Labels: []string{"Detected Change Point"},
	})
	if err != nil {
		return nil, false, fmt.Errorf("building change-point label: %w", err)
	}
	label.TextStyle[0] = text.Style{
		Color:    s.MarkerColor,
		Font:     s.font(s.AnnotationSize, xfont.WeightBold, xfont.StyleNormal),
		Rotation: math.Pi / 2,
		XAlign:   text.XRight,
		YAlign:   text.YBottom,
		Handler:  plt.TextHandler,
	}
	plt.Add(label)

	return plt, true, nil
}

func (p *Plotter) styleAxes(plt *plot.Plot) {
	s := p.style

	plt.Title.TextStyle.Font = s.font(s.TitleSize, xfont.WeightBold, xfont.StyleNormal)
	plt.Title.Padding = vg.Points(15)

	plt.X.Label.Text = s.XLabel
	plt.Y.Label.Text = s.YLabel
	for _, ax := range []*plot.Axis{&plt.X, &plt.Y} {
		ax.Label.TextStyle.Font = s.font(s.LabelSize, xfont.WeightNormal, xfont.StyleNormal)
		ax.Label.Padding = vg.Points(8)
		ax.Tick.Label.Font = s.font(s.TickSize, xfont.WeightNormal, xfont.StyleNormal)
	}
	plt.X.Tick.Marker = yearTicks{Step: s.TickYears}

	plt.Legend.Top = true
	plt.Legend.TextStyle.Font = s.font(s.LegendSize, xfont.WeightNormal, xfont.StyleNormal)
}

// Render draws the chart and its caption as a PNG to w.
func (p *Plotter) Render(w io.Writer, f Figure) (bool, error) {
	if err := p.style.Validate(); err != nil {
		return false, err
	}

	plt, marked, err := p.Plot(f)
	if err != nil {
		return false, err
	}

	s := p.style
	img := vgimg.NewWith(vgimg.UseWH(s.Width, s.Height), vgimg.UseDPI(s.DPI))
	dc := draw.New(img)

	caption := text.Style{
		Color:   s.CaptionColor,
		Font:    s.font(s.CaptionSize, xfont.WeightNormal, xfont.StyleItalic),
		XAlign:  text.XLeft,
		YAlign:  text.YBottom,
		Handler: plt.TextHandler,
	}
	line := Caption(f.TestName, f.Result, f.Class)
	pad := vg.Points(6)
	band := caption.Height(line) + 2*pad

	plt.Draw(draw.Crop(dc, 0, 0, band, 0))
	dc.FillText(caption, vg.Point{X: dc.Min.X + 0.01*s.Width, Y: dc.Min.Y + pad}, line)

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return false, fmt.Errorf("encoding PNG: %w", err)
	}
	return marked, nil
}

// Save renders the chart to path, replacing any existing file. The file is
// only touched once rendering has succeeded.
func (p *Plotter) Save(path string, f Figure) error {
	var buf bytes.Buffer
	marked, err := p.Render(&buf, f)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	p.logger.Infow("saved chart",
		"path", path,
		"change_point_marked", marked,
		"dpi", p.style.DPI,
	)
	return nil
}
