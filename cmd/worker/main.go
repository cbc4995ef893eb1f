// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package main contains worker main function to start the classification
// worker consuming queued tasks.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/classifier/middleware"
	classredis "github.com/docsift/docsift/classifier/redis"
	"github.com/docsift/docsift/extractors"
	dslog "github.com/docsift/docsift/logger"
	"github.com/docsift/docsift/pkg/events"
	eventsredis "github.com/docsift/docsift/pkg/events/redis"
	"github.com/docsift/docsift/pkg/prometheus"
	"github.com/docsift/docsift/pkg/server"
	httpserver "github.com/docsift/docsift/pkg/server/http"
	"github.com/docsift/docsift/pkg/uuid"
	"github.com/docsift/docsift/strategies"
	"github.com/docsift/docsift/worker"
)

const (
	svcName        = "docsift-worker"
	envPrefixHTTP  = "DS_WORKER_HTTP_"
	defSvcHTTPPort = "5001"
)

type config struct {
	LogLevel      string        `env:"DS_WORKER_LOG_LEVEL"   envDefault:"info"`
	RedisURL      string        `env:"REDIS_URL"             envDefault:"redis://localhost:6379/0"`
	InstanceID    string        `env:"DS_WORKER_INSTANCE_ID" envDefault:""`
	Concurrency   int           `env:"DS_WORKER_CONCURRENCY" envDefault:"4"`
	MaxRetries    int           `env:"DS_WORKER_MAX_RETRIES" envDefault:"3"`
	MaxFileSize   int64         `env:"DS_MAX_FILE_SIZE"      envDefault:"10485760"`
	MinConfidence float64       `env:"DS_MIN_CONFIDENCE"     envDefault:"0.6"`
	DocumentTTL   time.Duration `env:"DS_DOCUMENT_TTL"       envDefault:"24h"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := dslog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer dslog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to parse redis URL: %s", err))
		exitCode = 1
		return
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	publisher, err := eventsredis.NewPublisher(ctx, cfg.RedisURL, classifier.TasksStream)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create task publisher: %s", err))
		exitCode = 1
		return
	}
	defer publisher.Close()

	subscriber, err := eventsredis.NewSubscriber(cfg.RedisURL, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create task subscriber: %s", err))
		exitCode = 1
		return
	}
	defer subscriber.Close()

	svc := newService(redisClient, publisher, logger, cfg)

	pool := worker.NewPool(cfg.Concurrency, logger)
	defer pool.Stop()

	h := worker.NewHandler(svc, publisher, pool, logger, worker.Config{MaxRetries: cfg.MaxRetries})

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))
		exitCode = 1
		return
	}
	mux := chi.NewRouter()
	mux.Get("/health", docsift.Health(svcName, cfg.InstanceID))
	mux.Handle("/metrics", promhttp.Handler())
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, mux, logger)

	logger.Info(fmt.Sprintf("%s service %s started", svcName, docsift.Version))

	g.Go(func() error {
		return worker.Start(ctx, cfg.InstanceID, subscriber, h)
	})

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(redisClient *redis.Client, publisher events.Publisher, logger *slog.Logger, cfg config) classifier.Service {
	repo := classredis.NewRepository(redisClient, cfg.DocumentTTL)
	idp := uuid.New()
	registry := extractors.NewDefaultRegistry()

	svcCfg := classifier.DefConfig()
	svcCfg.MaxFileSize = cfg.MaxFileSize
	svcCfg.MinConfidence = cfg.MinConfidence

	svc := classifier.NewService(idp, repo, publisher, registry, strategies.All(), svcCfg)
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics("docsift", "worker")
	processed, confidence := prometheus.MakeDocumentMetrics("docsift_worker")
	svc = middleware.MetricsMiddleware(svc, counter, latency, processed, confidence)

	return svc
}
