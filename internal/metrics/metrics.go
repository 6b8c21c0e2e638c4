// Package metrics exposes pipeline counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Producer metrics
	EventsProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_producer_events_total",
			Help: "Total number of events published to the broker",
		},
	)

	ProduceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_producer_failures_total",
			Help: "Total number of failed publish attempts",
		},
	)

	// Consumer metrics
	MessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_messages_total",
			Help: "Total number of messages fetched from the broker",
		},
	)

	PollErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_poll_errors_total",
			Help: "Total number of broker poll errors",
		},
	)

	DecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_decode_failures_total",
			Help: "Total number of payloads that failed JSON decoding",
		},
	)

	TransformFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_transform_failures_total",
			Help: "Total number of events the transform rejected",
		},
	)

	StoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_store_failures_total",
			Help: "Total number of failed document store writes",
		},
	)

	DocumentsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profilestream_consumer_documents_stored_total",
			Help: "Total number of documents persisted",
		},
	)
)
