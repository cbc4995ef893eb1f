// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/docsift/docsift/pkg/events"
	"github.com/stretchr/testify/mock"
)

var _ events.Publisher = (*Publisher)(nil)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, event events.Event) error {
	ret := m.Called(ctx, event)

	return ret.Error(0)
}

func (m *Publisher) Close() error {
	ret := m.Called()

	return ret.Error(0)
}
