package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_operations_total",
			Help: "Session store operations by backend, operation and result",
		},
		[]string{"backend", "op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_store_operation_duration_seconds",
			Help:    "Session store operation latency",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "op"},
	)
)

// Instrumented records Prometheus metrics around another Store.
type Instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s, labelling its metrics with backend.
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{next: s, backend: backend}
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		result = "miss"
	default:
		result = "error"
	}
	operationsTotal.WithLabelValues(i.backend, op, result).Inc()
	operationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
}

func (i *Instrumented) Get(ctx context.Context, key string) (data []byte, err error) {
	defer func(start time.Time) { i.observe("get", start, err) }(time.Now())
	return i.next.Get(ctx, key)
}

func (i *Instrumented) Set(ctx context.Context, key string, data []byte) (err error) {
	defer func(start time.Time) { i.observe("set", start, err) }(time.Now())
	return i.next.Set(ctx, key, data)
}

func (i *Instrumented) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { i.observe("delete", start, err) }(time.Now())
	return i.next.Delete(ctx, key)
}

func (i *Instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}
