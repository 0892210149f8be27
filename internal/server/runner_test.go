package server

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/modsim-lab/modsim/internal/modem"
)

func TestRunnerConcurrentStop(t *testing.T) {
	h := NewHandlers(Config{Scheme: modem.ModBPSK, EbN0DB: 4, Seed: 11, Retention: 50}, zap.NewNop())
	r := h.runner

	// Several callers may stop the same run at once; exactly one wins
	// and the rest return without touching the closed channel.
	for i := 0; i < 25; i++ {
		if err := r.Start(20, time.Millisecond); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Stop()
			}()
		}
		wg.Wait()

		if got := r.State(); got != RunIdle {
			t.Fatalf("iteration %d: state = %v, want %v", i, got, RunIdle)
		}
	}
}

func TestRunnerStopWhileIdle(t *testing.T) {
	h := NewHandlers(Config{Scheme: modem.ModQPSK, EbN0DB: 6, Seed: 3, Retention: 50}, zap.NewNop())
	r := h.runner

	r.Stop()
	r.Stop()
	if got := r.State(); got != RunIdle {
		t.Fatalf("state = %v, want %v", got, RunIdle)
	}
	if err := r.Start(20, time.Millisecond); err != nil {
		t.Fatalf("start after idle stops: %v", err)
	}
	r.Stop()
}
