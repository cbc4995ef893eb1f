// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/docsift/docsift/pkg/errors"

// Wrapper for Service errors.
var (
	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = errors.New("malformed entity specification")

	// ErrNotFound indicates a non-existent entity request.
	ErrNotFound = errors.New("entity not found")

	// ErrCreateEntity indicates error in creating entity or entities.
	ErrCreateEntity = errors.New("failed to create entity in the db")

	// ErrViewEntity indicates error in viewing entity or entities.
	ErrViewEntity = errors.New("view entity failed")

	// ErrUpdateEntity indicates error in updating entity or entities.
	ErrUpdateEntity = errors.New("update entity failed")

	// ErrUniqueID indicates an error in generating a unique ID.
	ErrUniqueID = errors.New("failed to generate unique identifier")

	// ErrClassification indicates failure of the classification pipeline.
	ErrClassification = errors.New("failed to classify document")

	// ErrExtraction indicates failure to extract content from a document.
	ErrExtraction = errors.New("failed to extract document content")

	// ErrEnqueue indicates error in publishing a task to the queue.
	ErrEnqueue = errors.New("failed to enqueue classification task")
)
