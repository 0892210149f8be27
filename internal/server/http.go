package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Server is the HTTP server for the web interface.
type Server struct {
	mux       *http.ServeMux
	handler   *Handlers
	addr      string
	staticDir string
	log       *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(addr string, handler *Handlers, staticDir string, log *zap.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		handler:   handler,
		addr:      addr,
		staticDir: staticDir,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// API routes
	s.mux.HandleFunc("/api/schemes", s.handler.HandleSchemes)
	s.mux.HandleFunc("/api/constellation", s.handler.HandleConstellation)
	s.mux.HandleFunc("/api/session", s.handler.HandleConfigure)
	s.mux.HandleFunc("/api/session/step", s.handler.HandleStep)
	s.mux.HandleFunc("/api/session/reset", s.handler.HandleReset)
	s.mux.HandleFunc("/api/session/scheme", s.handler.HandleScheme)
	s.mux.HandleFunc("/api/session/snr", s.handler.HandleSNR)
	s.mux.HandleFunc("/api/session/stats", s.handler.HandleStats)
	s.mux.HandleFunc("/api/run/start", s.handler.HandleRunStart)
	s.mux.HandleFunc("/api/run/stop", s.handler.HandleRunStop)
	s.mux.HandleFunc("/api/theory", s.handler.HandleTheoryCurve)
	s.mux.HandleFunc("/api/required-snr", s.handler.HandleRequiredSNR)
	s.mux.HandleFunc("/api/waveform", s.handler.HandleWaveform)
	s.mux.HandleFunc("/api/sweep", s.handler.HandleSweep)
	s.mux.HandleFunc("/api/sweep/csv", s.handler.HandleSweepCSV)

	// Rendered charts
	s.mux.HandleFunc("/charts/ber", s.handler.HandleBERChart)
	s.mux.HandleFunc("/charts/constellation", s.handler.HandleConstellationChart)

	// WebSocket
	s.mux.HandleFunc("/ws", s.handler.HandleWebSocket)

	// Static files
	s.mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
}

// Mux exposes the route table, mainly for tests.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.addr))
	fmt.Printf("\n  Modulation Lab running at http://%s\n\n", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
