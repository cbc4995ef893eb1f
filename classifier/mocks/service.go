// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/stretchr/testify/mock"

	"github.com/docsift/docsift/classifier"
)

var _ classifier.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (m *Service) Classify(ctx context.Context, up classifier.Upload) (classifier.Document, error) {
	ret := m.Called(ctx, up)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Service) SubmitTask(ctx context.Context, up classifier.Upload) (classifier.Task, error) {
	ret := m.Called(ctx, up)

	return ret.Get(0).(classifier.Task), ret.Error(1)
}

func (m *Service) SubmitBatch(ctx context.Context, ups []classifier.Upload) (classifier.Batch, error) {
	ret := m.Called(ctx, ups)

	return ret.Get(0).(classifier.Batch), ret.Error(1)
}

func (m *Service) TaskStatus(ctx context.Context, taskID string) (classifier.Document, error) {
	ret := m.Called(ctx, taskID)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Service) ViewDocument(ctx context.Context, docID string) (classifier.Document, error) {
	ret := m.Called(ctx, docID)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Service) ListHistory(ctx context.Context, docID string) ([]classifier.HistoryEntry, error) {
	ret := m.Called(ctx, docID)

	return ret.Get(0).([]classifier.HistoryEntry), ret.Error(1)
}

func (m *Service) BatchStatus(ctx context.Context, batchID string) (classifier.Batch, error) {
	ret := m.Called(ctx, batchID)

	return ret.Get(0).(classifier.Batch), ret.Error(1)
}

func (m *Service) Stats(ctx context.Context) (classifier.Stats, error) {
	ret := m.Called(ctx)

	return ret.Get(0).(classifier.Stats), ret.Error(1)
}

func (m *Service) Process(ctx context.Context, task classifier.Task) (classifier.Document, error) {
	ret := m.Called(ctx, task)

	return ret.Get(0).(classifier.Document), ret.Error(1)
}

func (m *Service) FailTask(ctx context.Context, task classifier.Task, cause error) error {
	ret := m.Called(ctx, task, cause)

	return ret.Error(0)
}
