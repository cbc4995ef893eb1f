// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/pkg/apiutil"
	"github.com/docsift/docsift/pkg/errors"
)

func classifyEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(classifyReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		doc, err := svc.Classify(ctx, req.upload)
		if err != nil {
			return nil, err
		}

		return classifyRes{Document: doc}, nil
	}
}

func classifyAsyncEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(classifyReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		task, err := svc.SubmitTask(ctx, req.upload)
		if err != nil {
			return nil, err
		}

		return submitRes{
			TaskID:     task.ID,
			DocumentID: task.DocumentID,
			Status:     "submitted",
		}, nil
	}
}

func batchClassifyEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(batchClassifyReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		batch, err := svc.SubmitBatch(ctx, req.uploads)
		if err != nil {
			return nil, err
		}

		return batchSubmitRes{
			BatchID: batch.ID,
			TaskIDs: batch.TaskIDs,
			Status:  "submitted",
		}, nil
	}
}

func taskStatusEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		doc, err := svc.TaskStatus(ctx, req.id)
		if err != nil {
			return nil, err
		}

		res := taskStatusRes{Status: doc.Status.String()}
		switch doc.Status {
		case classifier.Completed:
			res.Result = &doc
		case classifier.Failed:
			res.Error = doc.Error
		}

		return res, nil
	}
}

func viewDocumentEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		doc, err := svc.ViewDocument(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return documentRes{Document: doc}, nil
	}
}

func listHistoryEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		history, err := svc.ListHistory(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return historyRes{DocumentID: req.id, History: history}, nil
	}
}

func batchStatusEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		batch, err := svc.BatchStatus(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return batchStatusRes{Batch: batch}, nil
	}
}

func statsEndpoint(svc classifier.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return nil, err
		}

		return statsRes{Stats: stats}, nil
	}
}
