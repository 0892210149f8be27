package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/report"
	"github.com/modsim-lab/modsim/internal/sim"
	"github.com/modsim-lab/modsim/internal/theory"
)

func main() {
	schemesFlag := flag.String("schemes", "QPSK", "Comma separated schemes, e.g. BPSK,QPSK,16-QAM")
	snrStart := flag.Float64("snr-start", 0, "First Eb/N0 in dB")
	snrStop := flag.Float64("snr-stop", 12, "Last Eb/N0 in dB")
	snrStep := flag.Float64("snr-step", 1, "Eb/N0 step in dB")
	bits := flag.Int64("bits", 200000, "Bits to simulate per SNR point")
	runs := flag.Int("runs", 1, "Independent repeats for spread statistics")
	seed := flag.Int64("seed", 1, "Base RNG seed")
	output := flag.String("output", "sweep.csv", "CSV output path")
	htmlPath := flag.String("html", "", "Optional BER chart HTML path")
	pngPath := flag.String("png", "", "Optional BER plot PNG path")
	capturePath := flag.String("capture", "", "Optional parquet capture of received symbols (first scheme at the start SNR)")
	captureSymbols := flag.Int("capture-symbols", 2000, "Symbols to capture")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	mods, err := parseSchemes(*schemesFlag)
	if err != nil {
		sugar.Fatalf("Invalid schemes: %v", err)
	}

	allRuns := make([][]sim.SweepPoint, 0, *runs)
	for r := 0; r < *runs; r++ {
		var points []sim.SweepPoint
		for i, mod := range mods {
			runSeed := *seed + int64(r)*10007 + int64(i)*1000
			rows, err := sim.Sweep(mod, *snrStart, *snrStop, *snrStep, *bits, runSeed)
			if err != nil {
				sugar.Fatalf("Sweep %s failed: %v", mod, err)
			}
			points = append(points, rows...)
		}
		allRuns = append(allRuns, points)
	}
	points := allRuns[0]

	for _, p := range points {
		sugar.Infof("%-7s %5.1f dB  theory=%.3e  simulated=%.3e  errors=%d/%d",
			p.Scheme, p.EbN0DB, p.TheoreticalBER, p.SimulatedBER, p.BitErrors, p.Bits)
	}
	for _, mod := range mods {
		sugar.Infof("%s reaches BER 1e-5 at %.2f dB Eb/N0", mod, theory.RequiredEbN0(mod, 1e-5))
	}

	if err := writeCSV(*output, points); err != nil {
		sugar.Fatalf("Write CSV: %v", err)
	}
	sugar.Infof("Wrote %s (%d points)", *output, len(points))

	if *runs > 1 {
		summary, err := report.SummarizeRuns(allRuns)
		if err != nil {
			sugar.Fatalf("Summarize runs: %v", err)
		}
		for _, s := range summary {
			sugar.Infof("%-7s %5.1f dB  mean=%.3e  std=%.3e  (%d runs)",
				s.Scheme, s.EbN0DB, s.MeanBER, s.StdDev, s.Runs)
		}
	}

	if *htmlPath != "" {
		if err := writeHTML(*htmlPath, points); err != nil {
			sugar.Fatalf("Write chart: %v", err)
		}
		sugar.Infof("Wrote %s", *htmlPath)
	}

	if *pngPath != "" {
		if err := report.SaveBERCurvePNG(*pngPath, points); err != nil {
			sugar.Fatalf("Write plot: %v", err)
		}
		sugar.Infof("Wrote %s", *pngPath)
	}

	if *capturePath != "" {
		n, err := writeCapture(*capturePath, mods[0], *snrStart, *captureSymbols, *seed)
		if err != nil {
			sugar.Fatalf("Write capture: %v", err)
		}
		sugar.Infof("Wrote %s (%d rows)", *capturePath, n)
	}
}

func parseSchemes(s string) ([]modem.Modulation, error) {
	var mods []modem.Modulation
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mod, err := modem.ParseModulation(name)
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("no schemes given")
	}
	return mods, nil
}

func writeCSV(path string, points []sim.SweepPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sim.WriteCSV(f, points)
}

func writeHTML(path string, points []sim.SweepPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.BERCurveHTML(f, points)
}

func writeCapture(path string, mod modem.Modulation, snrDB float64, numSymbols int, seed int64) (int, error) {
	session := sim.NewSession(mod, snrDB, seed)
	samples, err := session.Step(numSymbols)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return report.WriteCaptureParquet(f, report.CaptureMeta{
		Scheme: mod.String(),
		EbN0DB: snrDB,
		Seed:   seed,
	}, samples)
}
