// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

const defQueueSize = 100

// Pool runs submitted tasks on a fixed number of goroutines. A panicking
// task is recovered and logged without taking the worker down.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool starts a pool of the given size.
func NewPool(size int, logger *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan func(), defQueueSize),
		cancel: cancel,
		logger: logger,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}

	return p
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.exec(task)
		}
	}
}

func (p *Pool) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(fmt.Sprintf("worker recovered panic: %v", r), slog.String("stack", string(debug.Stack())))
		}
	}()
	task()
}

// Submit queues a task for execution. When the queue is at capacity it
// blocks until a worker frees a slot or the context is cancelled, so a
// backlog slows consumption down instead of dropping tasks.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop discards queued tasks, waits for in-flight ones and releases the
// workers.
func (p *Pool) Stop() {
cleanup:
	for {
		select {
		case <-p.tasks:
		default:
			break cleanup
		}
	}

	p.cancel()
	p.wg.Wait()
}
