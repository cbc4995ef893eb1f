// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package worker consumes queued classification tasks and runs them
// through the classification service.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/pkg/events"
)

const (
	// DefConcurrency is the default number of concurrent task executions.
	DefConcurrency = 4
	// DefMaxRetries is the default number of attempts per task.
	DefMaxRetries = 3
	// retryBase is the unit of the exponential retry backoff.
	retryBase = time.Second
)

// Config contains the worker runtime settings.
type Config struct {
	MaxRetries int
	Backoff    time.Duration
}

type handler struct {
	svc       classifier.Service
	publisher events.Publisher
	pool      *Pool
	logger    *slog.Logger
	cfg       Config
}

var _ events.EventHandler = (*handler)(nil)

// NewHandler returns an event handler executing classification tasks on
// the given pool. Failed tasks are requeued with exponential backoff
// until the retry limit is reached.
func NewHandler(svc classifier.Service, publisher events.Publisher, pool *Pool, logger *slog.Logger, cfg Config) events.EventHandler {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = retryBase
	}

	return &handler{
		svc:       svc,
		publisher: publisher,
		pool:      pool,
		logger:    logger,
		cfg:       cfg,
	}
}

func (h *handler) Handle(ctx context.Context, event events.Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}

	task, err := classifier.DecodeTask(data)
	if err != nil {
		return err
	}

	return h.pool.Submit(ctx, func() {
		h.process(ctx, task)
	})
}

func (h *handler) process(ctx context.Context, task classifier.Task) {
	_, err := h.svc.Process(ctx, task)
	if err == nil {
		return
	}

	if classifier.IsPermanent(err) || task.Retries >= h.cfg.MaxRetries-1 {
		h.logger.Warn("task failed permanently",
			slog.String("task_id", task.ID),
			slog.String("document_id", task.DocumentID),
			slog.Int("retries", task.Retries),
			slog.Any("error", err),
		)
		if ferr := h.svc.FailTask(ctx, task, err); ferr != nil {
			h.logger.Error(fmt.Sprintf("failed to record task failure: %s", ferr))
		}
		return
	}

	h.retry(ctx, task, err)
}

func (h *handler) retry(ctx context.Context, task classifier.Task, cause error) {
	task.Retries++
	backoff := h.cfg.Backoff << uint(task.Retries)

	h.logger.Warn("task failed, retrying",
		slog.String("task_id", task.ID),
		slog.String("document_id", task.DocumentID),
		slog.Int("retries", task.Retries),
		slog.String("backoff", backoff.String()),
		slog.Any("error", cause),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(backoff):
	}

	if err := h.publisher.Publish(ctx, task); err != nil {
		h.logger.Error(fmt.Sprintf("failed to requeue task %s: %s", task.ID, err))
	}
}

// Start subscribes the handler to the tasks stream and blocks until the
// context is cancelled.
func Start(ctx context.Context, consumer string, sub events.Subscriber, h events.EventHandler) error {
	cfg := events.SubscriberConfig{
		Consumer: consumer,
		Stream:   classifier.TasksStream,
		Handler:  h,
	}
	if err := sub.Subscribe(ctx, cfg); err != nil {
		return err
	}

	<-ctx.Done()

	return nil
}
