// Package metrics exports responder activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/probenet/probenet-go/pkg/interaction"
)

var (
	registerOnce sync.Once

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "probenet",
			Subsystem: "responder",
			Name:      "requests_total",
			Help:      "Requests answered, by outcome (ok or failure token).",
		},
		[]string{"family", "sensor", "outcome"},
	)
	deviceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "probenet",
			Subsystem: "responder",
			Name:      "device_duration_seconds",
			Help:      "Time spent executing commands on the device.",
			Buckets:   []float64{.01, .05, .1, .3, .6, .9, 1.2, 2, 5},
		},
		[]string{"family", "sensor"},
	)
	replyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "probenet",
			Subsystem: "responder",
			Name:      "reply_duration_seconds",
			Help:      "Time from request receipt to reply send.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"family", "sensor"},
	)
)

// Register adds the collectors to reg. Only the first call has an effect;
// a nil reg means the default registerer.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(requests, deviceDuration, replyDuration)
	})
}

// Handler serves the metrics gathered by g, or by the default gatherer if
// g is nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Observer records a responder's observations under fixed family and
// sensor labels.
type Observer struct {
	family string
	sensor string
}

// NewObserver returns an observer for one responder.
func NewObserver(family, sensor string) *Observer {
	return &Observer{family: family, sensor: sensor}
}

// ObserveRequest implements interaction.Observer.
func (o *Observer) ObserveRequest(obs interaction.Observation) {
	requests.WithLabelValues(o.family, o.sensor, obs.Outcome).Inc()
	if obs.Token != "" && obs.Device > 0 {
		deviceDuration.WithLabelValues(o.family, o.sensor).Observe(obs.Device.Seconds())
	}
	replyDuration.WithLabelValues(o.family, o.sensor).Observe(obs.Total.Seconds())
}

var _ interaction.Observer = (*Observer)(nil)
