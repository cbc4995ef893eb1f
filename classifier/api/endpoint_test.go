// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/classifier"
	"github.com/docsift/docsift/classifier/api"
	"github.com/docsift/docsift/classifier/mocks"
	"github.com/docsift/docsift/extractors"
	"github.com/docsift/docsift/pkg/errors"
	repoerr "github.com/docsift/docsift/pkg/errors/repository"
	svcerr "github.com/docsift/docsift/pkg/errors/service"
)

const (
	instanceID = "5de9b29a-feb9-11ed-be56-0242ac120002"
	validText  = "Invoice Number: INV-001"
)

func newServer(svc classifier.Service) *httptest.Server {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := api.Config{MaxFileSize: 1024 * 1024, MaxBatchSize: 10}
	mux := api.MakeHandler(svc, nil, logger, cfg, "docsift", instanceID)
	return httptest.NewServer(mux)
}

func multipartBody(t *testing.T, field, fileName, industry string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if industry != "" {
		require.NoError(t, mw.WriteField("industry", industry))
	}
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func TestClassifyEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	doc := classifier.Document{
		ID:              "abc",
		DocumentType:    "invoice",
		ConfidenceScore: 0.9,
		Status:          classifier.Completed,
	}
	svc.On("Classify", mock.Anything, mock.MatchedBy(func(up classifier.Upload) bool {
		return up.FileName == "invoice.txt" && up.Industry == "financial"
	})).Return(doc, nil)

	body, contentType := multipartBody(t, "file", "invoice.txt", "financial", []byte(validText))
	res, err := http.Post(ts.URL+"/classify", contentType, body)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got classifier.Document
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "invoice", got.DocumentType)
}

func TestClassifyEndpointMissingFile(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("industry", "financial"))
	require.NoError(t, mw.Close())

	res, err := http.Post(ts.URL+"/classify", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	svc.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestClassifyEndpointExtractionError(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	extractionErr := errors.Wrap(svcerr.ErrClassification, errors.Wrap(extractors.ErrExtraction, errors.New("malformed document")))
	svc.On("Classify", mock.Anything, mock.Anything).Return(classifier.Document{}, extractionErr)

	body, contentType := multipartBody(t, "file", "broken.pdf", "financial", []byte("not a pdf"))
	res, err := http.Post(ts.URL+"/classify", contentType, body)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestClassifyEndpointWrongContentType(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/classify", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

func TestClassifyAsyncEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	task := classifier.Task{ID: "task-1", DocumentID: "doc-1"}
	svc.On("SubmitTask", mock.Anything, mock.Anything).Return(task, nil)

	body, contentType := multipartBody(t, "file", "invoice.txt", "", []byte(validText))
	res, err := http.Post(ts.URL+"/classify/async", contentType, body)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusAccepted, res.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "task-1", got["task_id"])
	assert.Equal(t, "submitted", got["status"])
}

func TestTaskStatusEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	cases := []struct {
		desc   string
		taskID string
		doc    classifier.Document
		err    error
		code   int
		status string
	}{
		{
			desc:   "completed task",
			taskID: "done",
			doc:    classifier.Document{ID: "a", Status: classifier.Completed},
			code:   http.StatusOK,
			status: "completed",
		},
		{
			desc:   "processing task",
			taskID: "running",
			doc:    classifier.Document{ID: "b", Status: classifier.Processing},
			code:   http.StatusAccepted,
			status: "processing",
		},
		{
			desc:   "failed task",
			taskID: "broken",
			doc:    classifier.Document{ID: "c", Status: classifier.Failed, Error: "boom"},
			code:   http.StatusBadRequest,
			status: "failed",
		},
		{
			desc:   "missing task",
			taskID: "missing",
			err:    errors.Wrap(svcerr.ErrViewEntity, repoerr.ErrNotFound),
			code:   http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc.On("TaskStatus", mock.Anything, tc.taskID).Return(tc.doc, tc.err).Once()

			res, err := http.Get(fmt.Sprintf("%s/classify/status/%s", ts.URL, tc.taskID))
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tc.code, res.StatusCode)
			if tc.status != "" {
				var got map[string]interface{}
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tc.status, got["status"])
			}
		})
	}
}

func TestViewDocumentEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	doc := classifier.Document{ID: "abc", DocumentType: "lab_report"}
	svc.On("ViewDocument", mock.Anything, "abc").Return(doc, nil)
	svc.On("ViewDocument", mock.Anything, "nope").Return(classifier.Document{}, repoerr.ErrNotFound)

	res, err := http.Get(ts.URL + "/classify/results/abc")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(ts.URL + "/classify/results/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListHistoryEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	history := []classifier.HistoryEntry{{Action: "submitted"}, {Action: "classified"}}
	svc.On("ListHistory", mock.Anything, "abc").Return(history, nil)

	res, err := http.Get(ts.URL + "/classify/history/abc")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "abc", got["document_id"])
	assert.Len(t, got["history"], 2)
}

func TestBatchClassifyEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	batch := classifier.Batch{ID: "batch-1", TaskIDs: []string{"t1", "t2"}}
	svc.On("SubmitBatch", mock.Anything, mock.MatchedBy(func(ups []classifier.Upload) bool {
		return len(ups) == 2
	})).Return(batch, nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range []string{"a.txt", "b.txt"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(validText))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	res, err := http.Post(ts.URL+"/batch/classify", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusAccepted, res.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "batch-1", got["batch_id"])
}

func TestBatchStatusEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	batch := classifier.Batch{ID: "batch-1", Total: 2, Completed: 2, Status: "completed"}
	svc.On("BatchStatus", mock.Anything, "batch-1").Return(batch, nil)

	res, err := http.Get(ts.URL + "/batch/status/batch-1")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got classifier.Batch
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 2, got.Completed)
}

func TestStatsEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	stats := classifier.Stats{
		TotalDocuments: 5,
		StatusCounts:   map[string]uint64{"completed": 4, "failed": 1},
		DocumentTypes:  map[string]uint64{"invoice": 3, "lab_report": 2},
	}
	svc.On("Stats", mock.Anything).Return(stats, nil)

	res, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got classifier.Stats
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, uint64(5), got.TotalDocuments)
}

func TestHealthEndpoint(t *testing.T) {
	svc := new(mocks.Service)
	ts := newServer(svc)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "pass", got["status"])
	assert.Equal(t, instanceID, got["instance_id"])
}
