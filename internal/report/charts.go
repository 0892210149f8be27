// Package report renders simulation output for people: self-contained
// HTML charts, PNG figures and parquet captures of received samples.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sim"
)

// ConstellationHTML renders the ideal constellation and a cloud of
// received samples as a square scatter chart.
func ConstellationHTML(w io.Writer, c *modem.Constellation, samples []sim.ReceivedSample) error {
	ideal := make([]opts.ScatterData, 0, c.Size())
	maxAbs := 0.0
	for _, p := range c.Points() {
		x, y := real(p.Symbol), imag(p.Symbol)
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		ideal = append(ideal, opts.ScatterData{Name: p.Bits, Value: []interface{}{x, y}})
	}

	clean := make([]opts.ScatterData, 0, len(samples))
	errored := make([]opts.ScatterData, 0)
	for _, s := range samples {
		x, y := real(s.Symbol), imag(s.Symbol)
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		d := opts.ScatterData{Name: s.RxBits, Value: []interface{}{x, y}}
		if s.Err {
			errored = append(errored, d)
		} else {
			clean = append(clean, d)
		}
	}

	// Small padding keeps edge points visible.
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Constellation", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Constellation", c.Mod), Subtitle: fmt.Sprintf("points=%d samples=%d", c.Size(), len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "I", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Q", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("received", clean, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))
	scatter.AddSeries("errors", errored, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))
	scatter.AddSeries("ideal", ideal, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#37a2da"}))

	return scatter.Render(w)
}

// BERCurveHTML renders simulated against theoretical BER on a log axis.
// Rows may cover several schemes; each scheme becomes a pair of series.
// Runs of different schemes are expected to share the SNR grid.
func BERCurveHTML(w io.Writer, points []sim.SweepPoint) error {
	groups, order := groupByScheme(points)

	var xs []string
	for _, mod := range order {
		if len(groups[mod]) > len(xs) {
			xs = nil
			for _, p := range groups[mod] {
				xs = append(xs, fmt.Sprintf("%.1f", p.EbN0DB))
			}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "BER vs Eb/N0", Theme: "dark", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Bit Error Rate", Subtitle: fmt.Sprintf("schemes=%d points=%d", len(order), len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Eb/N0 (dB)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Name: "BER"}),
	)

	line.SetXAxis(xs)
	for _, mod := range order {
		measured := make([]opts.LineData, 0, len(groups[mod]))
		predicted := make([]opts.LineData, 0, len(groups[mod]))
		for _, p := range groups[mod] {
			measured = append(measured, opts.LineData{Value: logAxisValue(p.SimulatedBER)})
			predicted = append(predicted, opts.LineData{Value: logAxisValue(p.TheoreticalBER)})
		}
		line.AddSeries(fmt.Sprintf("%s simulated", mod), measured)
		line.AddSeries(fmt.Sprintf("%s theoretical", mod), predicted, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}

	return line.Render(w)
}

// logAxisValue keeps zero rates off the log axis as gaps.
func logAxisValue(ber float64) interface{} {
	if ber <= 0 {
		return "-"
	}
	return ber
}

func groupByScheme(points []sim.SweepPoint) (map[modem.Modulation][]sim.SweepPoint, []modem.Modulation) {
	groups := make(map[modem.Modulation][]sim.SweepPoint)
	var order []modem.Modulation
	for _, p := range points {
		if _, ok := groups[p.Scheme]; !ok {
			order = append(order, p.Scheme)
		}
		groups[p.Scheme] = append(groups[p.Scheme], p)
	}
	return groups, order
}
