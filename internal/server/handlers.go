package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/report"
	"github.com/modsim-lab/modsim/internal/sim"
	"github.com/modsim-lab/modsim/internal/theory"
	"github.com/modsim-lab/modsim/internal/waveform"
)

// Defaults for interactive requests that omit their knobs.
const (
	DefaultRetention   = 2000
	DefaultStepSymbols = 500
	DefaultSweepBits   = 200000

	maxStepSymbols = 100000
	maxSweepBits   = 5000000
)

// Config seeds the initial simulation session of a server.
type Config struct {
	Scheme    modem.Modulation
	EbN0DB    float64
	Seed      int64
	Retention int // received samples kept for scatter displays
}

// Handlers holds the HTTP API handlers and the shared session state.
type Handlers struct {
	cfg    Config
	wsHub  *WSHub
	log    *zap.Logger
	runner *Runner

	mu      sync.Mutex
	session *sim.Session
	samples []sim.ReceivedSample
}

// NewHandlers creates the API handlers with a freshly seeded session.
func NewHandlers(cfg Config, log *zap.Logger) *Handlers {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	h := &Handlers{
		cfg:     cfg,
		wsHub:   NewWSHub(log),
		log:     log,
		session: sim.NewSession(cfg.Scheme, cfg.EbN0DB, cfg.Seed),
	}
	h.runner = NewRunner(h)
	return h
}

// Hub exposes the WebSocket hub, mainly for broadcasting from hosts.
func (h *Handlers) Hub() *WSHub {
	return h.wsHub
}

// HandleWebSocket handles WebSocket upgrade requests.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.wsHub.AddClient(conn)

	// Read messages (for potential commands from client)
	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

// HandleSchemes lists the supported modulation schemes.
func (h *Handlers) HandleSchemes(w http.ResponseWriter, r *http.Request) {
	type schemeInfo struct {
		Name          string `json:"name"`
		BitsPerSymbol int    `json:"bitsPerSymbol"`
		Points        int    `json:"points"`
	}
	out := make([]schemeInfo, 0, len(modem.Schemes()))
	for _, m := range modem.Schemes() {
		out = append(out, schemeInfo{Name: m.String(), BitsPerSymbol: m.BitsPerSymbol(), Points: m.Order()})
	}
	json.NewEncoder(w).Encode(out)
}

// HandleConstellation returns the labeled points of a constellation.
// Without a scheme parameter it describes the active session.
func (h *Handlers) HandleConstellation(w http.ResponseWriter, r *http.Request) {
	var c *modem.Constellation
	if name := r.URL.Query().Get("scheme"); name != "" {
		mod, err := modem.ParseModulation(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c = modem.NewConstellation(mod)
	} else {
		h.mu.Lock()
		c = h.session.Constellation()
		h.mu.Unlock()
	}

	type pointInfo struct {
		I    float64 `json:"i"`
		Q    float64 `json:"q"`
		Bits string  `json:"bits"`
	}
	points := make([]pointInfo, 0, c.Size())
	for _, p := range c.Points() {
		points = append(points, pointInfo{I: real(p.Symbol), Q: imag(p.Symbol), Bits: p.Bits})
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"scheme": c.Mod.String(),
		"points": points,
	})
}

// HandleConfigure replaces the session with a freshly seeded one.
func (h *Handlers) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Scheme string  `json:"scheme"`
		SNRDb  float64 `json:"snrDb"`
		Seed   int64   `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}

	mod, err := modem.ParseModulation(req.Scheme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h.mu.Lock()
	h.session = sim.NewSession(mod, req.SNRDb, seed)
	h.samples = nil
	st := h.session.Stats()
	h.mu.Unlock()

	h.wsHub.BroadcastStatus("configured", fmt.Sprintf("%s at %.1f dB", mod, req.SNRDb))
	json.NewEncoder(w).Encode(statsPayload(st))
}

// HandleStep advances the session by one batch of symbols.
func (h *Handlers) HandleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Symbols int `json:"symbols"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	if req.Symbols <= 0 {
		req.Symbols = DefaultStepSymbols
	}
	if req.Symbols > maxStepSymbols {
		req.Symbols = maxStepSymbols
	}

	stats, samples, err := h.step(req.Symbols)
	if err != nil {
		http.Error(w, fmt.Sprintf("Step failed: %v", err), http.StatusInternalServerError)
		return
	}

	payload := UpdatePayload{Stats: statsPayload(stats), Samples: samplePoints(samples)}
	h.wsHub.BroadcastUpdate(payload)
	json.NewEncoder(w).Encode(payload.Stats)
}

// HandleReset zeroes the session counters and the sample buffer.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	h.session.Reset()
	h.samples = nil
	st := h.session.Stats()
	h.mu.Unlock()

	h.wsHub.BroadcastStatus("reset", "counters cleared")
	json.NewEncoder(w).Encode(statsPayload(st))
}

// HandleScheme switches the modulation scheme mid-session.
func (h *Handlers) HandleScheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Scheme string `json:"scheme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}
	mod, err := modem.ParseModulation(req.Scheme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.session.SetScheme(mod)
	h.samples = nil
	st := h.session.Stats()
	h.mu.Unlock()

	h.wsHub.BroadcastStatus("scheme", mod.String())
	json.NewEncoder(w).Encode(statsPayload(st))
}

// HandleSNR retunes the channel SNR without touching the counters.
func (h *Handlers) HandleSNR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SNRDb float64 `json:"snrDb"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.session.SetEbN0DB(req.SNRDb)
	st := h.session.Stats()
	h.mu.Unlock()

	h.wsHub.BroadcastStatus("snr", fmt.Sprintf("%.1f dB", req.SNRDb))
	json.NewEncoder(w).Encode(statsPayload(st))
}

// HandleStats returns the current session counters.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	st := h.session.Stats()
	h.mu.Unlock()
	json.NewEncoder(w).Encode(statsPayload(st))
}

// HandleRunStart begins continuous stepping on a timer.
func (h *Handlers) HandleRunStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SymbolsPerTick int   `json:"symbolsPerTick"`
		IntervalMs     int64 `json:"intervalMs"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.runner.Start(req.SymbolsPerTick, time.Duration(req.IntervalMs)*time.Millisecond); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"state": h.runner.State().String()})
}

// HandleRunStop halts continuous stepping.
func (h *Handlers) HandleRunStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.runner.Stop()
	json.NewEncoder(w).Encode(map[string]string{"state": h.runner.State().String()})
}

// HandleTheoryCurve tabulates the closed-form BER curve for a scheme.
func (h *Handlers) HandleTheoryCurve(w http.ResponseWriter, r *http.Request) {
	mod, err := modem.ParseModulation(r.URL.Query().Get("scheme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start := floatParam(r, "start", 0)
	stop := floatParam(r, "stop", 14)
	step := floatParam(r, "step", 0.5)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"scheme": mod.String(),
		"points": theory.Curve(mod, start, stop, step),
	})
}

// HandleRequiredSNR answers "how much SNR does this scheme need".
func (h *Handlers) HandleRequiredSNR(w http.ResponseWriter, r *http.Request) {
	mod, err := modem.ParseModulation(r.URL.Query().Get("scheme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target := floatParam(r, "target", 1e-5)
	if target <= 0 || target >= 1 {
		http.Error(w, "target must be in (0, 1)", http.StatusBadRequest)
		return
	}

	resp := struct {
		Scheme         string   `json:"scheme"`
		TargetBER      float64  `json:"targetBer"`
		RequiredEbN0DB *float64 `json:"requiredEbN0Db"`
		Reachable      bool     `json:"reachable"`
	}{Scheme: mod.String(), TargetBER: target}

	required := theory.RequiredEbN0(mod, target)
	if !math.IsInf(required, 1) {
		resp.RequiredEbN0DB = &required
		resp.Reachable = true
	}
	json.NewEncoder(w).Encode(resp)
}

// HandleWaveform renders a short passband burst for display, together
// with its power spectrum.
func (h *Handlers) HandleWaveform(w http.ResponseWriter, r *http.Request) {
	mod, err := modem.ParseModulation(r.URL.Query().Get("scheme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := modem.NewConstellation(mod)
	bits, err := waveformBits(r.URL.Query().Get("bits"), mod.BitsPerSymbol())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	symbols, err := c.Modulate(bits)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gen := waveform.NewGenerator(
		floatParam(r, "sampleRate", 48000),
		floatParam(r, "symbolRate", 1200),
		floatParam(r, "carrier", 2400),
	)
	if gen.SampleRate <= 0 || gen.SymbolRate <= 0 || gen.SamplesPerSymbol() < 1 {
		http.Error(w, "sampleRate must be positive and at least symbolRate", http.StatusBadRequest)
		return
	}
	samples := gen.Samples(symbols)
	spectrum := waveform.PowerSpectrumDB(samples)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"scheme":     mod.String(),
		"sampleRate": gen.SampleRate,
		"symbolRate": gen.SymbolRate,
		"carrierHz":  gen.CarrierHz,
		"samples":    samples,
		"spectrumDb": spectrum,
		"peakBin":    waveform.PeakBin(spectrum),
	})
}

// HandleSweep runs SNR sweeps for one or more schemes and returns the
// measured points as JSON.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Schemes  []string `json:"schemes"`
		SNRStart float64  `json:"snrStart"`
		SNRStop  float64  `json:"snrStop"`
		SNRStep  float64  `json:"snrStep"`
		Bits     int64    `json:"bits"`
		Seed     int64    `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}

	points, err := h.runSweep(req.Schemes, req.SNRStart, req.SNRStop, req.SNRStep, req.Bits, req.Seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type row struct {
		Scheme         string  `json:"scheme"`
		SNRDb          float64 `json:"snrDb"`
		TheoreticalBER float64 `json:"theoreticalBer"`
		SimulatedBER   float64 `json:"simulatedBer"`
		BitCount       int64   `json:"bitCount"`
		ErrorCount     int64   `json:"errorCount"`
	}
	rows := make([]row, 0, len(points))
	for _, p := range points {
		rows = append(rows, row{
			Scheme:         p.Scheme.String(),
			SNRDb:          p.EbN0DB,
			TheoreticalBER: p.TheoreticalBER,
			SimulatedBER:   p.SimulatedBER,
			BitCount:       p.Bits,
			ErrorCount:     p.BitErrors,
		})
	}
	json.NewEncoder(w).Encode(rows)
}

// HandleSweepCSV serves a sweep as a CSV download.
func (h *Handlers) HandleSweepCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	schemes := strings.Split(q.Get("schemes"), ",")
	points, err := h.runSweep(schemes,
		floatParam(r, "start", 0),
		floatParam(r, "stop", 12),
		floatParam(r, "step", 1),
		int64Param(r, "bits", DefaultSweepBits),
		int64Param(r, "seed", 1),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sweep.csv"))
	if err := sim.WriteCSV(w, points); err != nil {
		h.log.Error("csv export failed", zap.Error(err))
	}
}

// HandleBERChart renders a sweep as a self-contained HTML chart.
func (h *Handlers) HandleBERChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	schemes := strings.Split(q.Get("schemes"), ",")
	points, err := h.runSweep(schemes,
		floatParam(r, "start", 0),
		floatParam(r, "stop", 12),
		floatParam(r, "step", 1),
		int64Param(r, "bits", 50000),
		int64Param(r, "seed", 1),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.BERCurveHTML(w, points); err != nil {
		h.log.Error("chart render failed", zap.Error(err))
	}
}

// HandleConstellationChart renders the active constellation with its
// retained received samples, or a clean one for an explicit scheme.
func (h *Handlers) HandleConstellationChart(w http.ResponseWriter, r *http.Request) {
	var (
		c       *modem.Constellation
		samples []sim.ReceivedSample
	)
	if name := r.URL.Query().Get("scheme"); name != "" {
		mod, err := modem.ParseModulation(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c = modem.NewConstellation(mod)
	} else {
		h.mu.Lock()
		c = h.session.Constellation()
		samples = append(samples, h.samples...)
		h.mu.Unlock()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.ConstellationHTML(w, c, samples); err != nil {
		h.log.Error("chart render failed", zap.Error(err))
	}
}

// step advances the shared session and maintains the sample buffer.
func (h *Handlers) step(numSymbols int) (sim.Stats, []sim.ReceivedSample, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	samples, err := h.session.Step(numSymbols)
	if err != nil {
		return sim.Stats{}, nil, err
	}

	h.samples = append(h.samples, samples...)
	if excess := len(h.samples) - h.cfg.Retention; excess > 0 {
		h.samples = append(h.samples[:0:0], h.samples[excess:]...)
	}
	return h.session.Stats(), samples, nil
}

func (h *Handlers) runSweep(names []string, start, stop, step float64, bits, seed int64) ([]sim.SweepPoint, error) {
	mods := make([]modem.Modulation, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		mod, err := modem.ParseModulation(name)
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("no schemes requested")
	}

	if bits <= 0 {
		bits = DefaultSweepBits
	}
	if bits > maxSweepBits {
		bits = maxSweepBits
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var points []sim.SweepPoint
	for i, mod := range mods {
		rows, err := sim.Sweep(mod, start, stop, step, bits, seed+int64(i)*1000)
		if err != nil {
			return nil, err
		}
		points = append(points, rows...)
	}
	return points, nil
}

func statsPayload(st sim.Stats) StatsPayload {
	return StatsPayload{
		Scheme:         st.Scheme.String(),
		EbN0DB:         st.EbN0DB,
		Symbols:        st.Symbols,
		Bits:           st.Bits,
		BitErrors:      st.BitErrors,
		BER:            st.BER(),
		TheoreticalBER: theory.BER(st.Scheme, st.EbN0DB),
	}
}

func samplePoints(samples []sim.ReceivedSample) []SamplePoint {
	out := make([]SamplePoint, len(samples))
	for i, s := range samples {
		out[i] = SamplePoint{
			I:      real(s.Symbol),
			Q:      imag(s.Symbol),
			TxBits: s.TxBits,
			RxBits: s.RxBits,
			Err:    s.Err,
		}
	}
	return out
}

const maxWaveformBits = 512

// waveformBits parses a "0110"-style bit string. An empty string falls
// back to an alternating pattern spanning eight symbols.
func waveformBits(s string, bitsPerSymbol int) ([]byte, error) {
	if s == "" {
		out := make([]byte, 8*bitsPerSymbol)
		for i := range out {
			out[i] = byte(i % 2)
		}
		return out, nil
	}
	if len(s) > maxWaveformBits {
		return nil, fmt.Errorf("at most %d bits", maxWaveformBits)
	}
	out := make([]byte, len(s))
	for i, ch := range s {
		switch ch {
		case '0':
			out[i] = 0
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("bits must be 0s and 1s")
		}
	}
	return out, nil
}

func floatParam(r *http.Request, name string, def float64) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func int64Param(r *http.Request, name string, def int64) int64 {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}
