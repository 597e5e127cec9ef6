package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/probenet/probenet-go/pkg/ezo/sim"
)

const simInterval = 5 * time.Second

// drift is the largest step per tick and the range a simulated reading is
// kept in, per chip kind.
var drift = map[string]struct{ step, lo, hi float64 }{
	sim.KindPH:  {0.05, 5.5, 8.5},
	sim.KindEC:  {15, 1000, 2000},
	sim.KindRTD: {0.2, 15, 30},
}

// runSimulation walks the readings of every simulated chip until ctx is
// done.
func runSimulation(ctx context.Context, bus *sim.Bus, logger *slog.Logger) {
	logger.Info("simulation enabled", "interval", simInterval)

	ticker := time.NewTicker(simInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stepSimulation(bus, rand.Float64, logger)
		}
	}
}

// stepSimulation moves each awake chip's reading by a random step within
// its kind's range. rnd returns values in [0, 1).
func stepSimulation(bus *sim.Bus, rnd func() float64, logger *slog.Logger) {
	for _, addr := range bus.Addresses() {
		st, ok := bus.State(addr)
		if !ok || st.Sleeping {
			continue
		}
		d, ok := drift[st.Kind]
		if !ok {
			continue
		}
		v := st.Value + (rnd()*2-1)*d.step
		v = min(max(v, d.lo), d.hi)
		bus.SetValue(addr, v)
		logger.Debug("simulated reading", "address", addr, "kind", st.Kind, "value", v)
	}
}
