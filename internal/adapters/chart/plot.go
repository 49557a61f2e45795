// Package chart renders the Liu method plot: transformed samples as a
// scatter with the fitted line overlaid.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
)

// screenDPI converts pixel sizes to vg lengths.
const screenDPI = 96

var (
	pointColor = color.RGBA{B: 255, A: 255}
	lineColor  = color.RGBA{R: 255, A: 255}
)

// Renderer draws PNG charts with gonum/plot.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing widthPx x heightPx images.
func NewRenderer(widthPx, heightPx int) *Renderer {
	if widthPx <= 0 {
		widthPx = 640
	}
	if heightPx <= 0 {
		heightPx = 480
	}
	return &Renderer{
		width:  vg.Length(widthPx) * vg.Inch / screenDPI,
		height: vg.Length(heightPx) * vg.Inch / screenDPI,
	}
}

// ContentType is the MIME type of rendered charts.
func (r *Renderer) ContentType() string {
	return "image/png"
}

// Render draws result and returns PNG bytes.
func (r *Renderer) Render(result *entities.FitResult, tr ports.Translator) ([]byte, error) {
	if len(result.Transformed) == 0 || len(result.FitLine) == 0 {
		return nil, errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = tr.T("chart.title")
	p.X.Label.Text = tr.T("chart.x")
	p.Y.Label.Text = tr.T("chart.y")
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(result.Transformed))
	for i, s := range result.Transformed {
		pts[i].X, pts[i].Y = s.X, s.Y
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("creating scatter: %w", err)
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)

	linePts := make(plotter.XYs, len(result.FitLine))
	for i, lp := range result.FitLine {
		linePts[i].X, linePts[i].Y = lp.X, lp.Y
	}
	line, err := plotter.NewLine(linePts)
	if err != nil {
		return nil, fmt.Errorf("creating fit line: %w", err)
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(scatter, line)
	p.Legend.Add(tr.T("chart.points"), scatter)
	p.Legend.Add(tr.T("chart.line"), line)
	p.Legend.Top = true
	p.Legend.Left = true

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("creating png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
