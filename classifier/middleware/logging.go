// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/docsift/docsift/classifier"
)

var _ classifier.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger  *slog.Logger
	service classifier.Service
}

// LoggingMiddleware adds logging facilities to the classification service.
func LoggingMiddleware(service classifier.Service, logger *slog.Logger) classifier.Service {
	return &loggingMiddleware{
		logger:  logger,
		service: service,
	}
}

func (lm *loggingMiddleware) Classify(ctx context.Context, up classifier.Upload) (doc classifier.Document, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("document",
				slog.String("file_name", up.FileName),
				slog.Int64("file_size", int64(len(up.Content))),
				slog.String("industry", up.Industry),
				slog.String("document_type", doc.DocumentType),
				slog.Float64("confidence_score", doc.ConfidenceScore),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Classify document failed", args...)
			return
		}
		lm.logger.Info("Classify document completed successfully", args...)
	}(time.Now())

	return lm.service.Classify(ctx, up)
}

func (lm *loggingMiddleware) SubmitTask(ctx context.Context, up classifier.Upload) (task classifier.Task, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", task.ID),
				slog.String("document_id", task.DocumentID),
				slog.String("file_name", up.FileName),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit task failed", args...)
			return
		}
		lm.logger.Info("Submit task completed successfully", args...)
	}(time.Now())

	return lm.service.SubmitTask(ctx, up)
}

func (lm *loggingMiddleware) SubmitBatch(ctx context.Context, ups []classifier.Upload) (batch classifier.Batch, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("batch",
				slog.String("id", batch.ID),
				slog.Int("size", len(ups)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit batch failed", args...)
			return
		}
		lm.logger.Info("Submit batch completed successfully", args...)
	}(time.Now())

	return lm.service.SubmitBatch(ctx, ups)
}

func (lm *loggingMiddleware) TaskStatus(ctx context.Context, taskID string) (doc classifier.Document, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("task_id", taskID),
			slog.String("status", doc.Status.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Retrieve task status failed", args...)
			return
		}
		lm.logger.Info("Retrieve task status completed successfully", args...)
	}(time.Now())

	return lm.service.TaskStatus(ctx, taskID)
}

func (lm *loggingMiddleware) ViewDocument(ctx context.Context, docID string) (doc classifier.Document, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("document_id", docID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View document failed", args...)
			return
		}
		lm.logger.Info("View document completed successfully", args...)
	}(time.Now())

	return lm.service.ViewDocument(ctx, docID)
}

func (lm *loggingMiddleware) ListHistory(ctx context.Context, docID string) (history []classifier.HistoryEntry, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("document_id", docID),
			slog.Int("entries", len(history)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List document history failed", args...)
			return
		}
		lm.logger.Info("List document history completed successfully", args...)
	}(time.Now())

	return lm.service.ListHistory(ctx, docID)
}

func (lm *loggingMiddleware) BatchStatus(ctx context.Context, batchID string) (batch classifier.Batch, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("batch",
				slog.String("id", batchID),
				slog.Int("total", batch.Total),
				slog.Int("completed", batch.Completed),
				slog.Int("failed", batch.Failed),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Retrieve batch status failed", args...)
			return
		}
		lm.logger.Info("Retrieve batch status completed successfully", args...)
	}(time.Now())

	return lm.service.BatchStatus(ctx, batchID)
}

func (lm *loggingMiddleware) Stats(ctx context.Context) (stats classifier.Stats, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("total_documents", stats.TotalDocuments),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Retrieve stats failed", args...)
			return
		}
		lm.logger.Info("Retrieve stats completed successfully", args...)
	}(time.Now())

	return lm.service.Stats(ctx)
}

func (lm *loggingMiddleware) Process(ctx context.Context, task classifier.Task) (doc classifier.Document, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", task.ID),
				slog.String("document_id", task.DocumentID),
				slog.Int("retries", task.Retries),
				slog.String("document_type", doc.DocumentType),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Process task failed", args...)
			return
		}
		lm.logger.Info("Process task completed successfully", args...)
	}(time.Now())

	return lm.service.Process(ctx, task)
}

func (lm *loggingMiddleware) FailTask(ctx context.Context, task classifier.Task, cause error) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", task.ID),
				slog.String("document_id", task.DocumentID),
				slog.Any("cause", cause),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Fail task failed", args...)
			return
		}
		lm.logger.Info("Fail task completed successfully", args...)
	}(time.Now())

	return lm.service.FailTask(ctx, task, cause)
}
