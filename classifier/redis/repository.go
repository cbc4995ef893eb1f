// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package redis contains the Redis implementation of the document
// repository.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/pkg/errors"
	repoerr "github.com/docsift/docsift/pkg/errors/repository"
)

const (
	docPrefix     = "doc:"
	taskPrefix    = "task:"
	batchPrefix   = "batch:"
	historyPrefix = "history:"

	// DefTTL is the retention period of stored documents.
	DefTTL = 24 * time.Hour

	// historyLimit caps the number of retained history entries per document.
	historyLimit = 100

	scanCount = 100
)

var _ classifier.Repository = (*repository)(nil)

type repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository returns a Redis backed document repository.
func NewRepository(client *redis.Client, ttl time.Duration) classifier.Repository {
	if ttl <= 0 {
		ttl = DefTTL
	}
	return &repository{client: client, ttl: ttl}
}

func (r *repository) Save(ctx context.Context, doc classifier.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(repoerr.ErrMalformedEntity, err)
	}

	if err := r.client.Set(ctx, docPrefix+doc.ID, data, r.ttl).Err(); err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	if doc.TaskID != "" {
		if err := r.client.Set(ctx, taskPrefix+doc.TaskID, doc.ID, r.ttl).Err(); err != nil {
			return errors.Wrap(repoerr.ErrCreateEntity, err)
		}
	}

	if doc.BatchID != "" {
		key := batchPrefix + doc.BatchID
		if err := r.client.SAdd(ctx, key, doc.ID).Err(); err != nil {
			return errors.Wrap(repoerr.ErrCreateEntity, err)
		}
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return errors.Wrap(repoerr.ErrCreateEntity, err)
		}
	}

	return nil
}

func (r *repository) Retrieve(ctx context.Context, docID string) (classifier.Document, error) {
	data, err := r.client.Get(ctx, docPrefix+docID).Bytes()
	switch {
	case err == redis.Nil:
		return classifier.Document{}, repoerr.ErrNotFound
	case err != nil:
		return classifier.Document{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	var doc classifier.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return classifier.Document{}, errors.Wrap(repoerr.ErrMalformedEntity, err)
	}
	return doc, nil
}

func (r *repository) RetrieveByTask(ctx context.Context, taskID string) (classifier.Document, error) {
	docID, err := r.client.Get(ctx, taskPrefix+taskID).Result()
	switch {
	case err == redis.Nil:
		return classifier.Document{}, repoerr.ErrNotFound
	case err != nil:
		return classifier.Document{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return r.Retrieve(ctx, docID)
}

func (r *repository) AddHistory(ctx context.Context, docID string, entry classifier.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(repoerr.ErrMalformedEntity, err)
	}

	key := historyPrefix + docID
	if err := r.client.LPush(ctx, key, data).Err(); err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}
	if err := r.client.LTrim(ctx, key, 0, historyLimit-1).Err(); err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return nil
}

func (r *repository) RetrieveHistory(ctx context.Context, docID string) ([]classifier.HistoryEntry, error) {
	raw, err := r.client.LRange(ctx, historyPrefix+docID, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	history := make([]classifier.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry classifier.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, errors.Wrap(repoerr.ErrMalformedEntity, err)
		}
		history = append(history, entry)
	}

	return history, nil
}

func (r *repository) RetrieveBatch(ctx context.Context, batchID string) ([]classifier.Document, error) {
	docIDs, err := r.client.SMembers(ctx, batchPrefix+batchID).Result()
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}
	if len(docIDs) == 0 {
		return nil, repoerr.ErrNotFound
	}

	docs := make([]classifier.Document, 0, len(docIDs))
	for _, docID := range docIDs {
		doc, err := r.Retrieve(ctx, docID)
		if err != nil {
			if errors.Contains(err, repoerr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (r *repository) Stats(ctx context.Context) (classifier.Stats, error) {
	stats := classifier.Stats{
		StatusCounts:  map[string]uint64{},
		DocumentTypes: map[string]uint64{},
	}

	var totalProcessing time.Duration
	var processed uint64

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, docPrefix+"*", scanCount).Result()
		if err != nil {
			return classifier.Stats{}, errors.Wrap(repoerr.ErrViewEntity, err)
		}

		for _, key := range keys {
			doc, err := r.Retrieve(ctx, key[len(docPrefix):])
			if err != nil {
				if errors.Contains(err, repoerr.ErrNotFound) {
					continue
				}
				return classifier.Stats{}, err
			}

			stats.TotalDocuments++
			stats.StatusCounts[doc.Status.String()]++

			docType := doc.DocumentType
			if docType == "" {
				docType = "unknown"
			}
			stats.DocumentTypes[docType]++

			if !doc.ProcessedAt.IsZero() && !doc.StoredAt.IsZero() && doc.ProcessedAt.After(doc.StoredAt) {
				totalProcessing += doc.ProcessedAt.Sub(doc.StoredAt)
				processed++
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if processed > 0 {
		stats.AvgProcessingTimeMS = float64(totalProcessing.Milliseconds()) / float64(processed)
	}

	return stats, nil
}
