package report

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/parquet-go"
)

func TestWriteCaptureParquet(t *testing.T) {
	samples := testSamples()
	meta := CaptureMeta{Scheme: "QPSK", EbN0DB: 8, Seed: 42}

	var buf bytes.Buffer
	n, err := WriteCaptureParquet(&buf, meta, samples)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(samples) {
		t.Fatalf("wrote %d rows, want %d", n, len(samples))
	}

	rows, err := parquet.Read[CaptureRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	want := []CaptureRow{
		{Index: 0, I: 0.71, Q: 0.70, TxBits: "00", RxBits: "00"},
		{Index: 1, I: -0.65, Q: 0.72, TxBits: "01", RxBits: "01"},
		{Index: 2, I: 0.05, Q: -0.69, TxBits: "11", RxBits: "10", Err: true},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCaptureParquetEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCaptureParquet(&buf, CaptureMeta{Scheme: "BPSK"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}
	if buf.Len() == 0 {
		t.Error("no file produced for empty capture")
	}
}
