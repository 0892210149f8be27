package modem

import (
	"errors"
	"testing"
)

func TestModulatePartialGroupDropped(t *testing.T) {
	c := NewConstellation(Mod16QAM)

	// 10 bits at 4 bits/symbol: two full symbols, two bits dropped.
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
	symbols, err := c.Modulate(bits)
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(symbols))
	}

	recovered := c.Demodulate(symbols)
	if len(recovered) != 8 {
		t.Fatalf("got %d bits back, want 8", len(recovered))
	}
	for i := 0; i < 8; i++ {
		if recovered[i] != bits[i] {
			t.Errorf("bit %d: %d != %d", i, recovered[i], bits[i])
		}
	}
}

func TestModulateEmpty(t *testing.T) {
	c := NewConstellation(ModQPSK)
	symbols, err := c.Modulate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 0 {
		t.Errorf("got %d symbols, want 0", len(symbols))
	}
}

func TestModulateNoMatch(t *testing.T) {
	// A constellation with a hole in its label space rejects the
	// missing pattern instead of guessing.
	c := &Constellation{Mod: ModQPSK}
	c.generateQPSK()
	c.points = c.points[:3] // drop "10"
	c.normalize()
	c.buildIndex()

	_, err := c.Modulate([]byte{1, 0})
	if !errors.Is(err, ErrNoConstellationMatch) {
		t.Errorf("err = %v, want ErrNoConstellationMatch", err)
	}
}

func TestDemodulateWithSmallPerturbation(t *testing.T) {
	for _, mod := range Schemes() {
		c := NewConstellation(mod)
		for _, p := range c.Points() {
			noisy := p.Symbol + complex(0.01, -0.01)
			if got := c.SymbolBits(noisy); got != p.Bits {
				t.Errorf("%s: perturbed %q decoded as %q", mod, p.Bits, got)
			}
		}
	}
}

func TestSymbolBitsExactLookup(t *testing.T) {
	for _, mod := range Schemes() {
		c := NewConstellation(mod)
		for _, p := range c.Points() {
			if got := c.SymbolBits(p.Symbol); got != p.Bits {
				t.Errorf("%s: SymbolBits(%v) = %q, want %q", mod, p.Symbol, got, p.Bits)
			}
		}
	}
}

func TestNearestTieBreak(t *testing.T) {
	// The origin is equidistant from both BPSK points; the earliest
	// generated point wins.
	c := NewConstellation(ModBPSK)
	if got := c.SymbolBits(0); got != "0" {
		t.Errorf("tie decoded as %q, want %q", got, "0")
	}
}

func TestCountBitErrors(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "0", 0},
		{"00", "01", 1},
		{"1010", "0101", 4},
		{"110010", "110011", 1},
		{"", "", 0},
	}
	for _, tt := range tests {
		got, err := CountBitErrors(tt.a, tt.b)
		if err != nil {
			t.Errorf("CountBitErrors(%q, %q): %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CountBitErrors(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		swapped, err := CountBitErrors(tt.b, tt.a)
		if err != nil {
			t.Errorf("CountBitErrors(%q, %q): %v", tt.b, tt.a, err)
			continue
		}
		if swapped != got {
			t.Errorf("CountBitErrors(%q, %q) = %d but swapped gives %d", tt.a, tt.b, got, swapped)
		}
	}
}

func TestCountBitErrorsLengthMismatch(t *testing.T) {
	if _, err := CountBitErrors("00", "000"); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := CountBitErrors("000", "00"); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("swapped args: err = %v, want ErrLengthMismatch", err)
	}
}
