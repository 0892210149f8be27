package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sim"
)

var schemeColors = []color.RGBA{
	{R: 0x37, G: 0xa2, B: 0xda, A: 0xff},
	{R: 0xff, G: 0x52, B: 0x52, A: 0xff},
	{R: 0x35, G: 0xb7, B: 0x79, A: 0xff},
	{R: 0xb5, G: 0x7e, B: 0xde, A: 0xff},
	{R: 0xf0, G: 0xa0, B: 0x30, A: 0xff},
}

// SaveConstellationPNG writes a scatter figure of the constellation and
// received samples to path. The extension picks the image format.
func SaveConstellationPNG(path string, c *modem.Constellation, samples []sim.ReceivedSample) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Constellation", c.Mod)
	p.X.Label.Text = "I"
	p.Y.Label.Text = "Q"

	var clean, errored plotter.XYs
	for _, s := range samples {
		xy := plotter.XY{X: real(s.Symbol), Y: imag(s.Symbol)}
		if s.Err {
			errored = append(errored, xy)
		} else {
			clean = append(clean, xy)
		}
	}
	ideal := make(plotter.XYs, 0, c.Size())
	for _, pt := range c.Points() {
		ideal = append(ideal, plotter.XY{X: real(pt.Symbol), Y: imag(pt.Symbol)})
	}

	if len(clean) > 0 {
		sc, err := plotter.NewScatter(clean)
		if err != nil {
			return fmt.Errorf("received scatter: %w", err)
		}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Color = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
		p.Add(sc)
		p.Legend.Add("received", sc)
	}
	if len(errored) > 0 {
		sc, err := plotter.NewScatter(errored)
		if err != nil {
			return fmt.Errorf("error scatter: %w", err)
		}
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Color = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
		p.Add(sc)
		p.Legend.Add("errors", sc)
	}

	sc, err := plotter.NewScatter(ideal)
	if err != nil {
		return fmt.Errorf("ideal scatter: %w", err)
	}
	sc.GlyphStyle.Radius = vg.Points(4)
	sc.GlyphStyle.Color = schemeColors[0]
	p.Add(sc)
	p.Legend.Add("ideal", sc)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// SaveBERCurvePNG writes simulated and theoretical BER curves to path
// on a log rate axis. Zero rates cannot sit on a log scale and are
// dropped from their series.
func SaveBERCurvePNG(path string, points []sim.SweepPoint) error {
	p := plot.New()
	p.Title.Text = "Bit Error Rate"
	p.X.Label.Text = "Eb/N0 (dB)"
	p.Y.Label.Text = "BER"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	groups, order := groupByScheme(points)
	for i, mod := range order {
		c := schemeColors[i%len(schemeColors)]

		var measured, predicted plotter.XYs
		for _, pt := range groups[mod] {
			if pt.SimulatedBER > 0 {
				measured = append(measured, plotter.XY{X: pt.EbN0DB, Y: pt.SimulatedBER})
			}
			if pt.TheoreticalBER > 0 {
				predicted = append(predicted, plotter.XY{X: pt.EbN0DB, Y: pt.TheoreticalBER})
			}
		}

		if len(measured) > 0 {
			line, err := plotter.NewLine(measured)
			if err != nil {
				return fmt.Errorf("%s simulated line: %w", mod, err)
			}
			line.Color = c
			line.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("%s simulated", mod), line)
		}
		if len(predicted) > 0 {
			line, err := plotter.NewLine(predicted)
			if err != nil {
				return fmt.Errorf("%s theoretical line: %w", mod, err)
			}
			line.Color = c
			line.Width = vg.Points(1)
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("%s theoretical", mod), line)
		}
	}
	p.Legend.Top = true

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
