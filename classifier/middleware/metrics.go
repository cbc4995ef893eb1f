// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/docsift/docsift/classifier"
)

var _ classifier.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter    metrics.Counter
	latency    metrics.Histogram
	processed  *stdprometheus.CounterVec
	confidence *stdprometheus.HistogramVec
	svc        classifier.Service
}

// MetricsMiddleware returns a new metrics middleware wrapper.
func MetricsMiddleware(svc classifier.Service, counter metrics.Counter, latency metrics.Histogram, processed *stdprometheus.CounterVec, confidence *stdprometheus.HistogramVec) classifier.Service {
	return &metricsMiddleware{
		counter:    counter,
		latency:    latency,
		processed:  processed,
		confidence: confidence,
		svc:        svc,
	}
}

func (ms *metricsMiddleware) Classify(ctx context.Context, up classifier.Upload) (classifier.Document, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "classify").Add(1)
		ms.latency.With("method", "classify").Observe(time.Since(begin).Seconds())
	}(time.Now())

	doc, err := ms.svc.Classify(ctx, up)
	if err == nil {
		ms.observe(doc)
	}
	return doc, err
}

func (ms *metricsMiddleware) SubmitTask(ctx context.Context, up classifier.Upload) (classifier.Task, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "submit_task").Add(1)
		ms.latency.With("method", "submit_task").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.SubmitTask(ctx, up)
}

func (ms *metricsMiddleware) SubmitBatch(ctx context.Context, ups []classifier.Upload) (classifier.Batch, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "submit_batch").Add(1)
		ms.latency.With("method", "submit_batch").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.SubmitBatch(ctx, ups)
}

func (ms *metricsMiddleware) TaskStatus(ctx context.Context, taskID string) (classifier.Document, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "task_status").Add(1)
		ms.latency.With("method", "task_status").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.TaskStatus(ctx, taskID)
}

func (ms *metricsMiddleware) ViewDocument(ctx context.Context, docID string) (classifier.Document, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "view_document").Add(1)
		ms.latency.With("method", "view_document").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.ViewDocument(ctx, docID)
}

func (ms *metricsMiddleware) ListHistory(ctx context.Context, docID string) ([]classifier.HistoryEntry, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_history").Add(1)
		ms.latency.With("method", "list_history").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.ListHistory(ctx, docID)
}

func (ms *metricsMiddleware) BatchStatus(ctx context.Context, batchID string) (classifier.Batch, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "batch_status").Add(1)
		ms.latency.With("method", "batch_status").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.BatchStatus(ctx, batchID)
}

func (ms *metricsMiddleware) Stats(ctx context.Context) (classifier.Stats, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "stats").Add(1)
		ms.latency.With("method", "stats").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.Stats(ctx)
}

func (ms *metricsMiddleware) Process(ctx context.Context, task classifier.Task) (classifier.Document, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "process").Add(1)
		ms.latency.With("method", "process").Observe(time.Since(begin).Seconds())
	}(time.Now())

	doc, err := ms.svc.Process(ctx, task)
	if err == nil {
		ms.observe(doc)
	}
	return doc, err
}

func (ms *metricsMiddleware) FailTask(ctx context.Context, task classifier.Task, cause error) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "fail_task").Add(1)
		ms.latency.With("method", "fail_task").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.FailTask(ctx, task, cause)
}

func (ms *metricsMiddleware) observe(doc classifier.Document) {
	industry := doc.Industry
	if industry == "" {
		industry = "unknown"
	}
	ms.processed.WithLabelValues(industry, doc.DocumentType).Inc()
	ms.confidence.WithLabelValues(industry, doc.DocumentType).Observe(doc.ConfidenceScore)
}
