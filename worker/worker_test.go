// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package worker_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/classifier/mocks"
	"github.com/docsift/docsift/extractors"
	"github.com/docsift/docsift/pkg/errors"
	svcerr "github.com/docsift/docsift/pkg/errors/service"
	evmocks "github.com/docsift/docsift/pkg/events/mocks"
	"github.com/docsift/docsift/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func encode(t *testing.T, task classifier.Task) map[string]interface{} {
	t.Helper()
	data, err := task.Encode()
	require.NoError(t, err)
	// The queue delivers numbers as float64 after the JSON round trip.
	data["retries"] = float64(task.Retries)
	return data
}

type mapEvent struct {
	data map[string]interface{}
}

func (e mapEvent) Encode() (map[string]interface{}, error) {
	return e.data, nil
}

func TestHandleSuccess(t *testing.T) {
	svc := new(mocks.Service)
	pub := new(evmocks.Publisher)
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	task := classifier.Task{ID: "task-1", DocumentID: "doc-1", FileName: "a.txt", Content: []byte("x")}

	done := make(chan struct{})
	svc.On("Process", mock.Anything, task).Run(func(args mock.Arguments) {
		close(done)
	}).Return(classifier.Document{ID: "doc-1", Status: classifier.Completed}, nil)

	h := worker.NewHandler(svc, pub, pool, testLogger(), worker.Config{})
	require.NoError(t, h.Handle(context.Background(), mapEvent{encode(t, task)}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task was not processed")
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestHandleRetry(t *testing.T) {
	svc := new(mocks.Service)
	pub := new(evmocks.Publisher)
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	task := classifier.Task{ID: "task-2", DocumentID: "doc-2", FileName: "a.txt", Content: []byte("x")}

	svc.On("Process", mock.Anything, mock.Anything).Return(classifier.Document{}, errors.Wrap(svcerr.ErrCreateEntity, errors.New("redis down")))

	published := make(chan classifier.Task, 1)
	pub.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published <- args.Get(1).(classifier.Task)
	}).Return(nil)

	h := worker.NewHandler(svc, pub, pool, testLogger(), worker.Config{Backoff: time.Millisecond})
	require.NoError(t, h.Handle(context.Background(), mapEvent{encode(t, task)}))

	select {
	case requeued := <-published:
		assert.Equal(t, 1, requeued.Retries)
		assert.Equal(t, task.ID, requeued.ID)
	case <-time.After(time.Second):
		t.Fatal("task was not requeued")
	}
	svc.AssertNotCalled(t, "FailTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRetriesExhausted(t *testing.T) {
	svc := new(mocks.Service)
	pub := new(evmocks.Publisher)
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	task := classifier.Task{ID: "task-3", DocumentID: "doc-3", FileName: "a.txt", Content: []byte("x"), Retries: 2}

	svc.On("Process", mock.Anything, mock.Anything).Return(classifier.Document{}, errors.Wrap(svcerr.ErrCreateEntity, errors.New("redis down")))

	failed := make(chan struct{})
	svc.On("FailTask", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(failed)
	}).Return(nil)

	h := worker.NewHandler(svc, pub, pool, testLogger(), worker.Config{MaxRetries: 3, Backoff: time.Millisecond})
	require.NoError(t, h.Handle(context.Background(), mapEvent{encode(t, task)}))

	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("task failure was not recorded")
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestHandlePermanentError(t *testing.T) {
	svc := new(mocks.Service)
	pub := new(evmocks.Publisher)
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	task := classifier.Task{ID: "task-4", DocumentID: "doc-4", FileName: "a.bin", Content: []byte{0x00}}

	svc.On("Process", mock.Anything, mock.Anything).Return(classifier.Document{}, errors.Wrap(svcerr.ErrClassification, extractors.ErrUnsupportedFormat))

	failed := make(chan struct{})
	svc.On("FailTask", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(failed)
	}).Return(nil)

	h := worker.NewHandler(svc, pub, pool, testLogger(), worker.Config{Backoff: time.Millisecond})
	require.NoError(t, h.Handle(context.Background(), mapEvent{encode(t, task)}))

	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("task failure was not recorded")
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPool(t *testing.T) {
	pool := worker.NewPool(2, testLogger())
	defer pool.Stop()

	var count atomic.Int64
	done := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() {
			count.Add(1)
			done <- struct{}{}
		}))
	}

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
	}
	assert.Equal(t, int64(4), count.Load())
}

func TestPoolRecoversPanic(t *testing.T) {
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	require.NoError(t, pool.Submit(context.Background(), func() {
		panic("boom")
	}))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not survive panic")
	}
}

func TestPoolSubmitBlocksWhenFull(t *testing.T) {
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	// Jam the single worker so submissions pile up past the queue
	// capacity. Submit must block instead of dropping tasks.
	release := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() { <-release }))
	time.AfterFunc(50*time.Millisecond, func() { close(release) })

	const tasks = 150
	done := make(chan struct{}, tasks)
	for i := 0; i < tasks; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() {
			done <- struct{}{}
		}))
	}

	for i := 0; i < tasks; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("task was dropped under backlog")
		}
	}
}

func TestPoolSubmitCancelled(t *testing.T) {
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	release := make(chan struct{})
	defer close(release)
	require.NoError(t, pool.Submit(context.Background(), func() { <-release }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Fill the queue, then verify a cancelled context unblocks Submit.
	for {
		if err := pool.Submit(ctx, func() {}); err != nil {
			assert.Equal(t, context.Canceled, err)
			return
		}
	}
}

func TestHandleBacklog(t *testing.T) {
	svc := new(mocks.Service)
	pub := new(evmocks.Publisher)
	pool := worker.NewPool(1, testLogger())
	defer pool.Stop()

	release := make(chan struct{})
	processed := make(chan string, 120)
	svc.On("Process", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-release
		processed <- args.Get(1).(classifier.Task).ID
	}).Return(classifier.Document{Status: classifier.Completed}, nil)

	h := worker.NewHandler(svc, pub, pool, testLogger(), worker.Config{})
	time.AfterFunc(50*time.Millisecond, func() { close(release) })

	const tasks = 120
	for i := 0; i < tasks; i++ {
		task := classifier.Task{ID: fmt.Sprintf("task-%d", i), DocumentID: "doc", FileName: "a.txt", Content: []byte("x")}
		require.NoError(t, h.Handle(context.Background(), mapEvent{encode(t, task)}))
	}

	seen := make(map[string]bool, tasks)
	for i := 0; i < tasks; i++ {
		select {
		case id := <-processed:
			seen[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("task was dropped under backlog")
		}
	}
	assert.Len(t, seen, tasks)
	svc.AssertNotCalled(t, "FailTask", mock.Anything, mock.Anything, mock.Anything)
}
