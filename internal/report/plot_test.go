package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modsim-lab/modsim/internal/modem"
)

func TestSaveConstellationPNG(t *testing.T) {
	c := modem.NewConstellation(modem.Mod16QAM)
	path := filepath.Join(t.TempDir(), "constellation.png")

	if err := SaveConstellationPNG(path, c, testSamples()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty figure file")
	}
}

func TestSaveConstellationPNGNoSamples(t *testing.T) {
	c := modem.NewConstellation(modem.ModBPSK)
	path := filepath.Join(t.TempDir(), "bpsk.png")
	if err := SaveConstellationPNG(path, c, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSaveBERCurvePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ber.png")

	if err := SaveBERCurvePNG(path, testSweepPoints()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty figure file")
	}
}
