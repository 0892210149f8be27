package theory

import (
	"github.com/modsim-lab/modsim/internal/modem"
)

// curveFloorBER drops curve points too small to matter on a log plot.
const curveFloorBER = 1e-8

// CurvePoint is one tabulated point of a theoretical BER curve.
type CurvePoint struct {
	EbN0DB float64 `json:"eb_n0_db"`
	BER    float64 `json:"ber"`
}

// Curve tabulates the theoretical BER over [startDB, stopDB] at stepDB
// spacing, skipping points below 1e-8. A non-positive step falls back
// to 1 dB.
func Curve(mod modem.Modulation, startDB, stopDB, stepDB float64) []CurvePoint {
	if stepDB <= 0 {
		stepDB = 1
	}
	if stopDB < startDB {
		startDB, stopDB = stopDB, startDB
	}

	points := make([]CurvePoint, 0, int((stopDB-startDB)/stepDB)+1)
	for db := startDB; db <= stopDB+1e-9; db += stepDB {
		ber := BER(mod, db)
		if ber < curveFloorBER {
			continue
		}
		points = append(points, CurvePoint{EbN0DB: db, BER: ber})
	}
	return points
}
