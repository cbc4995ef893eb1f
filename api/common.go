// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package api contains shared API encoding helpers used by the service
// HTTP handlers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/extractors"
	"github.com/docsift/docsift/pkg/apiutil"
	"github.com/docsift/docsift/pkg/errors"
	repoerr "github.com/docsift/docsift/pkg/errors/repository"
	svcerr "github.com/docsift/docsift/pkg/errors/service"
)

const (
	// ContentType represents JSON content type.
	ContentType = "application/json"

	// IndustryKey is the form and query key carrying the industry hint.
	IndustryKey = "industry"

	// FileKey is the multipart form key carrying uploaded files.
	FileKey = "file"
)

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(docsift.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, svcerr.ErrMalformedEntity),
		errors.Contains(err, repoerr.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrMissingFile),
		errors.Contains(err, apiutil.ErrMissingFileName),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrFileSize),
		errors.Contains(err, apiutil.ErrEmptyBatch),
		errors.Contains(err, apiutil.ErrBatchSize),
		errors.Contains(err, apiutil.ErrInvalidQueryParams),
		errors.Contains(err, apiutil.ErrValidation),
		errors.Contains(err, classifier.ErrUnknownIndustry),
		errors.Contains(err, classifier.ErrFileTooLarge),
		errors.Contains(err, classifier.ErrUnsupportedType),
		errors.Contains(err, classifier.ErrEmptyFile),
		errors.Contains(err, classifier.ErrBatchTooLarge),
		errors.Contains(err, extractors.ErrUnsupportedFormat),
		errors.Contains(err, extractors.ErrExtraction),
		errors.Contains(err, svcerr.ErrExtraction):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, svcerr.ErrNotFound),
		errors.Contains(err, repoerr.ErrNotFound):
		err = unwrap(err)
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnsupportedMediaType)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func unwrap(err error) error {
	wrapper, err := errors.Unwrap(err)
	if wrapper != nil {
		return wrapper
	}
	return err
}
