package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes recorded in the result label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// EventsPublished counts publish attempts by topic, event type and result.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_events_published_total",
		Help: "Domain events handed to Kafka, by outcome.",
	}, []string{"topic", "event_type", "result"})

	publishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_event_publish_duration_seconds",
		Help:    "Time spent waiting for Kafka to accept an event.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"topic"})
)

func observePublish(topic, eventType string, start time.Time, err error) {
	publishDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	EventsPublished.WithLabelValues(topic, eventType, result).Inc()
}
