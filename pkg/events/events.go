// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package events provides the task queue abstraction used to hand
// classification work from the API service to the worker.
package events

import (
	"context"
	"time"
)

const (
	// UnpublishedEventsCheckInterval is the period between attempts to
	// re-publish events buffered during a broker outage.
	UnpublishedEventsCheckInterval = 1 * time.Minute
	// ConnCheckInterval is the timeout for broker connection probes.
	ConnCheckInterval = 100 * time.Millisecond
	// MaxUnpublishedEvents is the capacity of the unpublished events buffer.
	MaxUnpublishedEvents uint64 = 1e4
	// MaxEventStreamLen caps the length of the underlying stream.
	MaxEventStreamLen int64 = 1e6
)

// Event represents an event.
type Event interface {
	// Encode encodes event to map.
	Encode() (map[string]interface{}, error)
}

// Publisher specifies events publishing API.
type Publisher interface {
	// Publish publishes event to stream.
	Publish(ctx context.Context, event Event) error

	// Close gracefully closes event publisher's connection.
	Close() error
}

// EventHandler represents event handler for Subscriber.
type EventHandler interface {
	// Handle handles events passed by underlying implementation.
	Handle(ctx context.Context, event Event) error
}

// SubscriberConfig represents event subscriber configuration.
type SubscriberConfig struct {
	Consumer string
	Stream   string
	Handler  EventHandler
}

// Subscriber specifies event subscription API.
type Subscriber interface {
	// Subscribe subscribes to the event stream and consumes events.
	Subscribe(ctx context.Context, cfg SubscriberConfig) error

	// Close gracefully closes event subscriber's connection.
	Close() error
}

// Read reads value from event map.
// If value is not of type T, returns default value.
func Read[T any](event map[string]interface{}, key string, def T) T {
	val, ok := event[key].(T)
	if !ok {
		return def
	}

	return val
}
