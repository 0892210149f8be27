package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/segmentio/parquet-go"

	"github.com/modsim-lab/modsim/internal/sim"
)

// CaptureRow is one received sample in a parquet capture.
type CaptureRow struct {
	Index  int64   `parquet:"index"`
	I      float64 `parquet:"i"`
	Q      float64 `parquet:"q"`
	TxBits string  `parquet:"tx_bits"`
	RxBits string  `parquet:"rx_bits"`
	Err    bool    `parquet:"err"`
}

// CaptureMeta describes the run a capture came from. It is stored as
// JSON in the file metadata under the "run" key.
type CaptureMeta struct {
	Scheme string  `json:"scheme"`
	EbN0DB float64 `json:"eb_n0_db"`
	Seed   int64   `json:"seed"`
}

// WriteCaptureParquet writes received samples as a parquet file and
// returns the number of rows written.
func WriteCaptureParquet(w io.Writer, meta CaptureMeta, samples []sim.ReceivedSample) (int, error) {
	metaStr := "{}"
	if b, err := json.Marshal(meta); err == nil {
		metaStr = string(b)
	}

	pw := parquet.NewGenericWriter[CaptureRow](w,
		parquet.KeyValueMetadata("run", metaStr),
	)

	rows := make([]CaptureRow, len(samples))
	for i, s := range samples {
		rows[i] = CaptureRow{
			Index:  int64(i),
			I:      real(s.Symbol),
			Q:      imag(s.Symbol),
			TxBits: s.TxBits,
			RxBits: s.RxBits,
			Err:    s.Err,
		}
	}

	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return 0, fmt.Errorf("write rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return 0, fmt.Errorf("close writer: %w", err)
	}
	return len(rows), nil
}
