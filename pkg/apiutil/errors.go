// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/docsift/docsift/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrMissingFile indicates a missing file part in the request.
	ErrMissingFile = errors.New("missing file part in the request")

	// ErrMissingFileName indicates an uploaded file without a name.
	ErrMissingFileName = errors.New("no selected file")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrFileSize indicates that the uploaded file exceeds the size limit.
	ErrFileSize = errors.New("file too large")

	// ErrEmptyBatch indicates a batch request without files.
	ErrEmptyBatch = errors.New("no files submitted")

	// ErrBatchSize indicates that batch size exceeds the max.
	ErrBatchSize = errors.New("batch size exceeds maximum")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")

	// ErrUnsupportedContentType indicates an unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
