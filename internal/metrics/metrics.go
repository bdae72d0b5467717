// Package metrics exposes Prometheus collectors for the tracking engine.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	regOK atomic.Bool

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "timetracker",
			Subsystem: "session",
			Name:      "started_total",
			Help:      "Number of tracking sessions started.",
		},
	)
	sessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timetracker",
			Subsystem: "session",
			Name:      "ended_total",
			Help:      "Number of tracking sessions ended, by reason.",
		}, []string{"reason"},
	)
	pauseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timetracker",
			Subsystem: "session",
			Name:      "pause_transitions_total",
			Help:      "Number of pause/resume transitions.",
		}, []string{"state"},
	)
	samplerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "timetracker",
			Subsystem: "sampler",
			Name:      "ticks_total",
			Help:      "Number of sampler ticks across all sessions.",
		},
	)
	trackedSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "timetracker",
			Subsystem: "session",
			Name:      "tracked_seconds",
			Help:      "Accumulated running time of the current session in seconds.",
		},
	)
)

// Register registers all collectors with r. Safe to call multiple times;
// calls after the first success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{sessionsStarted, sessionsEnded, pauseTransitions, samplerTicks, trackedSeconds}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

func IncSessionStart() { sessionsStarted.Inc() }

func IncSessionEnd(reason string) {
	sessionsEnded.WithLabelValues(reason).Inc()
	trackedSeconds.Set(0)
}

func IncPause(paused bool) {
	state := "resumed"
	if paused {
		state = "paused"
	}
	pauseTransitions.WithLabelValues(state).Inc()
}

func ObserveTick(trackedSecs float64) {
	samplerTicks.Inc()
	trackedSeconds.Set(trackedSecs)
}
