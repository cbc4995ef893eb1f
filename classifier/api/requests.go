// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/pkg/apiutil"
)

type classifyReq struct {
	upload      classifier.Upload
	maxFileSize int64
}

func (req classifyReq) validate() error {
	if req.upload.FileName == "" {
		return apiutil.ErrMissingFileName
	}
	if len(req.upload.Content) == 0 {
		return apiutil.ErrMissingFile
	}
	if req.maxFileSize > 0 && int64(len(req.upload.Content)) > req.maxFileSize {
		return apiutil.ErrFileSize
	}

	return nil
}

type batchClassifyReq struct {
	uploads      []classifier.Upload
	maxFileSize  int64
	maxBatchSize int
}

func (req batchClassifyReq) validate() error {
	if len(req.uploads) == 0 {
		return apiutil.ErrEmptyBatch
	}
	if req.maxBatchSize > 0 && len(req.uploads) > req.maxBatchSize {
		return apiutil.ErrBatchSize
	}
	for _, up := range req.uploads {
		single := classifyReq{upload: up, maxFileSize: req.maxFileSize}
		if err := single.validate(); err != nil {
			return err
		}
	}

	return nil
}

type entityReq struct {
	id string
}

func (req entityReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type statsReq struct{}

func (req statsReq) validate() error {
	return nil
}
