// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package main contains docsift main function to start the document
// classification API service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/classifier/api"
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
)

const (
	svcName        = "docsift"
	envPrefixHTTP  = "DS_HTTP_"
	defSvcHTTPPort = "5000"
)

type config struct {
	LogLevel        string        `env:"DS_LOG_LEVEL"          envDefault:"info"`
	RedisURL        string        `env:"REDIS_URL"             envDefault:"redis://localhost:6379/0"`
	InstanceID      string        `env:"DS_INSTANCE_ID"        envDefault:""`
	MaxFileSize     int64         `env:"DS_MAX_FILE_SIZE"      envDefault:"10485760"`
	MaxBatchSize    int           `env:"DS_MAX_BATCH_SIZE"     envDefault:"100"`
	MinConfidence   float64       `env:"DS_MIN_CONFIDENCE"     envDefault:"0.6"`
	DocumentTTL     time.Duration `env:"DS_DOCUMENT_TTL"       envDefault:"24h"`
	RateLimit       int64         `env:"DS_RATE_LIMIT"         envDefault:"100"`
	RateLimitPeriod time.Duration `env:"DS_RATE_LIMIT_PERIOD"  envDefault:"1m"`
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

	svc := newService(redisClient, publisher, logger, cfg)

	limiter := api.NewRateLimiter(redisClient, api.RateLimitConfig{
		Limit:  cfg.RateLimit,
		Period: cfg.RateLimitPeriod,
	})

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))
		exitCode = 1
		return
	}
	handlerCfg := api.Config{
		MaxFileSize:  cfg.MaxFileSize,
		MaxBatchSize: cfg.MaxBatchSize,
	}
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, limiter, logger, handlerCfg, svcName, cfg.InstanceID), logger)

	logger.Info(fmt.Sprintf("%s service %s started", svcName, docsift.Version))

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
	svcCfg.MaxBatchSize = cfg.MaxBatchSize
	svcCfg.MinConfidence = cfg.MinConfidence

	svc := classifier.NewService(idp, repo, publisher, registry, strategies.All(), svcCfg)
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	processed, confidence := prometheus.MakeDocumentMetrics(svcName)
	svc = middleware.MetricsMiddleware(svc, counter, latency, processed, confidence)

	return svc
}
