// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/stretchr/testify/mock"

	"github.com/docsift/docsift/classifier"
)

var _ classifier.Repository = (*Repository)(nil)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, doc classifier.Document) error {
	ret := m.Called(ctx, doc)

	return ret.Error(0)
}

func (m *Repository) Retrieve(ctx context.Context, docID string) (classifier.Document, error) {
	ret := m.Called(ctx, docID)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Repository) RetrieveByTask(ctx context.Context, taskID string) (classifier.Document, error) {
	ret := m.Called(ctx, taskID)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Repository) AddHistory(ctx context.Context, docID string, entry classifier.HistoryEntry) error {
	ret := m.Called(ctx, docID, entry)

	return ret.Error(0)
}

func (m *Repository) RetrieveHistory(ctx context.Context, docID string) ([]classifier.HistoryEntry, error) {
	ret := m.Called(ctx, docID)

	return ret.Get(0).([]classifier.HistoryEntry), ret.Error(1)
}

func (m *Repository) RetrieveBatch(ctx context.Context, batchID string) ([]classifier.Document, error) {
	ret := m.Called(ctx, batchID)

	return ret.Get(0).([]classifier.Document), ret.Error(1)
}

func (m *Repository) Stats(ctx context.Context) (classifier.Stats, error) {
	ret := m.Called(ctx)

	return ret.Get(0).(classifier.Stats), ret.Error(1)
}
