// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package api contains the HTTP transport of the classification service.
package api

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/api"
	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/pkg/apiutil"
	"github.com/docsift/docsift/pkg/errors"
)

const (
	taskIDKey     = "taskID"
	documentIDKey = "documentID"
	batchIDKey    = "batchID"

	// maxMemory bounds the in-memory portion of multipart parsing.
	maxMemory = 10 << 20
)

// Config carries the request limits enforced by the transport.
type Config struct {
	MaxFileSize  int64
	MaxBatchSize int
}

// MakeHandler returns a HTTP API handler with health check and metrics.
func MakeHandler(svc classifier.Service, limiter *RateLimiter, logger *slog.Logger, cfg Config, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux := chi.NewRouter()
	mux.Use(limiter.Handler)

	mux.Post("/classify", otelhttp.NewHandler(kithttp.NewServer(
		classifyEndpoint(svc),
		decodeClassifyReq(cfg),
		api.EncodeResponse,
		opts...,
	), "classify").ServeHTTP)

	mux.Post("/classify/async", otelhttp.NewHandler(kithttp.NewServer(
		classifyAsyncEndpoint(svc),
		decodeClassifyReq(cfg),
		api.EncodeResponse,
		opts...,
	), "classify_async").ServeHTTP)

	mux.Get("/classify/status/{taskID}", otelhttp.NewHandler(kithttp.NewServer(
		taskStatusEndpoint(svc),
		decodeEntityReq(taskIDKey),
		api.EncodeResponse,
		opts...,
	), "task_status").ServeHTTP)

	mux.Get("/classify/results/{documentID}", otelhttp.NewHandler(kithttp.NewServer(
		viewDocumentEndpoint(svc),
		decodeEntityReq(documentIDKey),
		api.EncodeResponse,
		opts...,
	), "view_document").ServeHTTP)

	mux.Get("/classify/history/{documentID}", otelhttp.NewHandler(kithttp.NewServer(
		listHistoryEndpoint(svc),
		decodeEntityReq(documentIDKey),
		api.EncodeResponse,
		opts...,
	), "list_history").ServeHTTP)

	mux.Post("/batch/classify", otelhttp.NewHandler(kithttp.NewServer(
		batchClassifyEndpoint(svc),
		decodeBatchClassifyReq(cfg),
		api.EncodeResponse,
		opts...,
	), "batch_classify").ServeHTTP)

	mux.Get("/batch/status/{batchID}", otelhttp.NewHandler(kithttp.NewServer(
		batchStatusEndpoint(svc),
		decodeEntityReq(batchIDKey),
		api.EncodeResponse,
		opts...,
	), "batch_status").ServeHTTP)

	mux.Get("/stats", otelhttp.NewHandler(kithttp.NewServer(
		statsEndpoint(svc),
		decodeStatsReq,
		api.EncodeResponse,
		opts...,
	), "stats").ServeHTTP)

	mux.Get("/health", docsift.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeClassifyReq(cfg Config) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
		}
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		file, header, err := r.FormFile(api.FileKey)
		if err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingFile)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		req := classifyReq{
			upload: classifier.Upload{
				FileName: header.Filename,
				Content:  content,
				Industry: r.FormValue(api.IndustryKey),
			},
			maxFileSize: cfg.MaxFileSize,
		}

		return req, nil
	}
}

func decodeBatchClassifyReq(cfg Config) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
		}
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}
		if r.MultipartForm == nil {
			return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrEmptyBatch)
		}

		industry := r.FormValue(api.IndustryKey)
		req := batchClassifyReq{
			maxFileSize:  cfg.MaxFileSize,
			maxBatchSize: cfg.MaxBatchSize,
		}
		for _, headers := range r.MultipartForm.File {
			for _, header := range headers {
				content, err := readPart(header)
				if err != nil {
					return nil, errors.Wrap(apiutil.ErrValidation, err)
				}
				req.uploads = append(req.uploads, classifier.Upload{
					FileName: header.Filename,
					Content:  content,
					Industry: industry,
				})
			}
		}

		return req, nil
	}
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		return entityReq{id: chi.URLParam(r, key)}, nil
	}
}

func decodeStatsReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return statsReq{}, nil
}
