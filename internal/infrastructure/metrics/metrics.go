package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/sweepd/sweepd/internal/core/domain"
)

const namespace = "sweepd"

// Observer records the outcome of every probe cycle into prometheus metrics.
type Observer struct {
	cycles   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	swept    prometheus.Gauge
	upSince  prometheus.Gauge
	total    atomic.Uint64
	numSwept atomic.Int64
}

// NewObserver registers the metrics of the probe cycles into the given
// registerer, or into the default one if nil.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	o := &Observer{
		cycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "The total number of probe cycles by outcome",
			},
			[]string{"outcome"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "The total number of failed probe cycles by error kind",
			},
			[]string{"kind"},
		),
		swept: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "swept",
				Help:      "The number of balances swept since start",
			},
		),
		upSince: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "up_timestamp_unix_seconds",
				Help:      "Unix timestamp of the daemon start",
			},
		),
	}
	o.upSince.SetToCurrentTime()
	return o
}

// Observe records the given outcome.
func (o *Observer) Observe(outcome domain.SweepOutcome) {
	o.total.Add(1)
	o.cycles.With(prometheus.Labels{
		"outcome": outcome.Status.String(),
	}).Inc()

	switch outcome.Status {
	case domain.StatusSwept:
		o.swept.Set(float64(o.numSwept.Add(1)))
	case domain.StatusFailed:
		o.errors.With(prometheus.Labels{
			"kind": domain.KindOf(outcome.Err).String(),
		}).Inc()
	}
}

// Cycles returns the number of cycles observed so far.
func (o *Observer) Cycles() uint64 {
	return o.total.Load()
}

// Swept returns the number of Swept outcomes observed so far.
func (o *Observer) Swept() int64 {
	return o.numSwept.Load()
}

// Serve exposes the metrics of the given gatherer at /metrics on addr until
// the context is canceled.
func Serve(
	ctx context.Context, addr string, gatherer prometheus.Gatherer,
) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 2*time.Second,
		)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("failed to stop metrics server")
		}
	}()

	log.Infof("serving metrics at %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
