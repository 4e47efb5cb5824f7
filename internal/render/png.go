package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pngPointsPerPixel converts frame pixels to plot points.
const pngPointsPerPixel = 0.75

// SavePNG writes the frame as a PNG image. Coordinates are flipped
// vertically because plot's y axis grows upward while frame coordinates
// grow downward.
func SavePNG(frame *Frame, path string) (err error) {
	if frame == nil {
		return fmt.Errorf("frame cannot be nil")
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White
	p.X.Min, p.X.Max = 0, frame.Width
	p.Y.Min, p.Y.Max = 0, frame.Height

	if err := addSegments(p, frame); err != nil {
		return err
	}
	if err := addCircles(p, frame); err != nil {
		return err
	}
	if err := addLabels(p, frame); err != nil {
		return err
	}

	w := vg.Points(frame.Width * pngPointsPerPixel)
	h := vg.Points(frame.Height * pngPointsPerPixel)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving png: %w", err)
	}
	return nil
}

func addSegments(p *plot.Plot, frame *Frame) error {
	for _, s := range frame.Segments {
		line, err := plotter.NewLine(plotter.XYs{
			{X: s.X1, Y: frame.Height - s.Y1},
			{X: s.X2, Y: frame.Height - s.Y2},
		})
		if err != nil {
			return fmt.Errorf("building edge line: %w", err)
		}
		line.LineStyle.Color = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0x80}
		line.LineStyle.Width = vg.Points(edgeWidth(s.Weight) * pngPointsPerPixel)
		p.Add(line)
	}
	return nil
}

func addCircles(p *plot.Plot, frame *Frame) error {
	if len(frame.Circles) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(frame.Circles))
	for i, c := range frame.Circles {
		xys[i] = plotter.XY{X: c.X, Y: frame.Height - c.Y}
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	circles := frame.Circles
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c := circles[i]
		return draw.GlyphStyle{
			Color:  parseHexColor(clusterColor(c)),
			Radius: vg.Points(c.Radius * pngPointsPerPixel),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)
	return nil
}

func addLabels(p *plot.Plot, frame *Frame) error {
	var xys plotter.XYs
	var texts []string
	for _, c := range frame.Circles {
		xys = append(xys, plotter.XY{X: c.X, Y: frame.Height - c.Y})
		texts = append(texts, c.Label)
	}
	if len(xys) == 0 {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("building labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(8)
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)
	return nil
}

// parseHexColor converts a #rrggbb string to a color. Malformed strings fall
// back to gray rather than failing the whole render.
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Gray{Y: 0x99}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xd9}
}
