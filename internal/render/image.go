// internal/render/image.go
// Package: render
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/gstat/internal/trace"
)

// ErrEmptySelection is returned when the selected key owns no traces.
var ErrEmptySelection = errors.New("selection has no traces")

// Options sizes a static image. Width and Height are in inches.
type Options struct {
	Width  float64
	Height float64
}

// DefaultOptions is an 8x4 inch image.
var DefaultOptions = Options{Width: 8, Height: 4}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultOptions.Width
	}
	if h <= 0 {
		h = DefaultOptions.Height
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Plot draws the traces selected by key.
func Plot(idx *trace.Index, key trace.Key) (*plot.Plot, error) {
	traces := idx.Visible(key)
	if len(traces) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptySelection)
	}

	p := plot.New()
	p.Title.Text = key.String()
	p.X.Label.Text, p.Y.Label.Text = AxisTitles(idx)
	p.Legend.Top = true

	if idx.Mode() == trace.Scatter {
		p.X.Tick.Marker = plot.TimeTicks{
			Format: "15:04:05",
			Time:   func(v float64) time.Time { return time.UnixMilli(int64(v)).UTC() },
		}
	}

	var below *plotter.BarChart
	for _, tr := range traces {
		c, err := parseColor(tr.Color)
		if err != nil {
			return nil, err
		}
		switch tr.Kind {
		case trace.KindHistogram:
			p.Add(histogram(tr, c))

		case trace.KindMarkers:
			s, err := plotter.NewScatter(xys(tr))
			if err != nil {
				return nil, fmt.Errorf("trace %d: %w", tr.Index, err)
			}
			s.GlyphStyle.Color = c
			s.GlyphStyle.Radius = vg.Points(1.5)
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(s)

		case trace.KindPercentileLine, trace.KindMeanLine:
			l, pts, err := plotter.NewLinePoints(xys(tr))
			if err != nil {
				return nil, fmt.Errorf("trace %d: %w", tr.Index, err)
			}
			l.LineStyle.Color = c
			l.LineStyle.Width = vg.Points(1.5)
			if tr.Kind == trace.KindPercentileLine {
				l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
			} else {
				l.LineStyle.Width = vg.Points(2.5)
			}
			p.Add(l)
			if idx.Mode() == trace.Stacked {
				pts.GlyphStyle.Color = c
				pts.GlyphStyle.Shape = draw.CircleGlyph{}
				p.Add(pts)
			}
			p.Legend.Add(tr.Label, l)

		case trace.KindBand:
			if below == nil {
				// transparent bar up to each run's minimum
				base, err := bars(tr.Base, color.Transparent, nil)
				if err != nil {
					return nil, fmt.Errorf("trace %d: %w", tr.Index, err)
				}
				p.Add(base)
				below = base
			}
			b, err := bars(tr.Y, c, below)
			if err != nil {
				return nil, fmt.Errorf("trace %d: %w", tr.Index, err)
			}
			p.Add(b)
			p.Legend.Add(tr.Label, b)
			below = b
		}
	}
	return p, nil
}

func histogram(tr trace.Trace, c color.Color) *plotter.Histogram {
	bins := make([]plotter.HistogramBin, len(tr.X))
	for i, center := range tr.X {
		half := tr.Width[i] / 2
		bins[i] = plotter.HistogramBin{Min: center - half, Max: center + half, Weight: tr.Y[i]}
	}
	var width float64
	if len(tr.Width) > 0 {
		width = tr.Width[0]
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: c,
		LineStyle: plotter.DefaultLineStyle,
	}
}

func bars(values []float64, c color.Color, below *plotter.BarChart) (*plotter.BarChart, error) {
	b, err := plotter.NewBarChart(plotter.Values(values), vg.Points(14))
	if err != nil {
		return nil, err
	}
	b.XMin = 1
	b.Color = c
	b.LineStyle.Width = 0
	if below != nil {
		b.StackOn(below)
	}
	return b, nil
}

func xys(tr trace.Trace) plotter.XYs {
	pts := make(plotter.XYs, len(tr.X))
	for i := range tr.X {
		pts[i].X, pts[i].Y = tr.X[i], tr.Y[i]
	}
	return pts
}

func parseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return c, nil
}

// WriteImage draws the traces of key and encodes them as format (png, svg,
// pdf, jpg...).
func WriteImage(w io.Writer, idx *trace.Index, key trace.Key, format string, opts Options) error {
	p, err := Plot(idx, key)
	if err != nil {
		return err
	}
	width, height := opts.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteFile writes a figure document (.json) or an image of key, chosen by
// the extension of path.
func WriteFile(path string, idx *trace.Index, key trace.Key, opts Options) (err error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "json", "png", "svg", "pdf", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if ext == "json" {
		return WriteJSON(f, idx)
	}
	return WriteImage(f, idx, key, ext, opts)
}
