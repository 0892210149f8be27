package server

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunState tracks whether the continuous runner is active.
type RunState int

const (
	RunIdle RunState = iota
	RunActive
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunActive:
		return "running"
	default:
		return "unknown"
	}
}

// DefaultRunInterval paces continuous runs that omit an interval.
const DefaultRunInterval = 200 * time.Millisecond

// Runner steps the shared session on a timer and broadcasts each batch
// over the WebSocket hub.
type Runner struct {
	h *Handlers

	mu    sync.Mutex
	state RunState
	stop  chan struct{} // nil once a stop is underway
	done  chan struct{}
}

func NewRunner(h *Handlers) *Runner {
	return &Runner{h: h}
}

func (r *Runner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins stepping symbolsPerTick symbols every interval. It
// fails if a run is already active.
func (r *Runner) Start(symbolsPerTick int, interval time.Duration) error {
	if symbolsPerTick <= 0 {
		symbolsPerTick = DefaultStepSymbols
	}
	if symbolsPerTick > maxStepSymbols {
		symbolsPerTick = maxStepSymbols
	}
	if interval <= 0 {
		interval = DefaultRunInterval
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RunActive {
		return fmt.Errorf("run already active")
	}
	r.state = RunActive
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.loop(symbolsPerTick, interval, r.stop, r.done)

	r.h.log.Info("run started",
		zap.Int("symbolsPerTick", symbolsPerTick),
		zap.Duration("interval", interval))
	r.h.wsHub.BroadcastStatus("running", "")
	return nil
}

// Stop halts the run and waits for the loop to exit. Stopping an idle
// or already stopping runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.state != RunActive || r.stop == nil {
		r.mu.Unlock()
		return
	}
	close(r.stop)
	r.stop = nil
	done := r.done
	r.mu.Unlock()

	<-done

	r.mu.Lock()
	r.state = RunIdle
	r.mu.Unlock()

	r.h.log.Info("run stopped")
	r.h.wsHub.BroadcastStatus("idle", "")
}

func (r *Runner) loop(symbolsPerTick int, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats, samples, err := r.h.step(symbolsPerTick)
			if err != nil {
				r.h.log.Error("run step failed", zap.Error(err))
				continue
			}
			r.h.wsHub.BroadcastUpdate(UpdatePayload{
				Stats:   statsPayload(stats),
				Samples: samplePoints(samples),
			})
		}
	}
}
