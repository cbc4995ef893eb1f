// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package prometheus

import (
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MakeMetrics returns an instance of Prometheus implementations for metrics.
// It returns a request counter and a request latency summary.
//
//	counter, latency := metrics.MakeMetrics("demo-service", "api")
func MakeMetrics(namespace, subsystem string) (*kitprometheus.Counter, *kitprometheus.Summary) {
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace:  namespace,
		Subsystem:  subsystem,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		Name:       "request_latency_microseconds",
		Help:       "Total duration of requests in microseconds.",
	}, []string{"method"})

	return counter, latency
}

// MakeDocumentMetrics returns the classification domain metrics: a counter of
// processed documents and a histogram of confidence scores, both labeled by
// industry and document type.
func MakeDocumentMetrics(namespace string) (*stdprometheus.CounterVec, *stdprometheus.HistogramVec) {
	processed := promauto.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_processed_total",
		Help:      "Total number of documents processed.",
	}, []string{"industry", "document_type"})
	confidence := promauto.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classification_confidence",
		Help:      "Classification confidence scores.",
		Buckets:   stdprometheus.LinearBuckets(0, 0.1, 11),
	}, []string{"industry", "document_type"})

	return processed, confidence
}
