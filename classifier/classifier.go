// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/docsift/docsift/pkg/apiutil"
	"github.com/docsift/docsift/pkg/events"
)

// TasksStream is the Redis stream carrying queued classification tasks.
const TasksStream = "docsift.tasks"

// Status represents the processing state of a document.
type Status uint8

const (
	Pending Status = iota
	Processing
	Completed
	Failed
)

// String representation of the possible status values.
const (
	pendingStatus    = "pending"
	processingStatus = "processing"
	completedStatus  = "completed"
	failedStatus     = "failed"
)

// String converts status to string literal.
func (s Status) String() string {
	switch s {
	case Pending:
		return pendingStatus
	case Processing:
		return processingStatus
	case Completed:
		return completedStatus
	case Failed:
		return failedStatus
	default:
		return ""
	}
}

// ToStatus converts string value to a valid status.
func ToStatus(status string) (Status, error) {
	switch status {
	case pendingStatus:
		return Pending, nil
	case processingStatus:
		return Processing, nil
	case completedStatus:
		return Completed, nil
	case failedStatus:
		return Failed, nil
	default:
		return Status(0), apiutil.ErrInvalidQueryParams
	}
}

// MarshalJSON marshals status as a string literal.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON unmarshals a string literal into status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	val, err := ToStatus(str)
	*s = val
	return err
}

// Document represents a classified document with metadata.
type Document struct {
	ID              string                 `json:"id"`
	FileName        string                 `json:"file_name,omitempty"`
	DocumentType    string                 `json:"document_type,omitempty"`
	ConfidenceScore float64                `json:"confidence_score"`
	MimeType        string                 `json:"mime_type,omitempty"`
	FileSize        int64                  `json:"file_size,omitempty"`
	Industry        string                 `json:"industry,omitempty"`
	ExtractedText   string                 `json:"extracted_text,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Tables          [][][]string           `json:"tables,omitempty"`
	Headers         []string               `json:"headers,omitempty"`
	Footers         []string               `json:"footers,omitempty"`
	Status          Status                 `json:"status"`
	TaskID          string                 `json:"task_id,omitempty"`
	BatchID         string                 `json:"batch_id,omitempty"`
	Error           string                 `json:"error,omitempty"`
	ProcessedAt     time.Time              `json:"processed_at,omitempty"`
	StoredAt        time.Time              `json:"stored_at,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at,omitempty"`
}

// Upload is a single file submitted for classification.
type Upload struct {
	FileName string
	Content  []byte
	Industry string
}

// Task is a queued classification request.
type Task struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	Content    []byte `json:"content"`
	Industry   string `json:"industry,omitempty"`
	BatchID    string `json:"batch_id,omitempty"`
	Retries    int    `json:"retries"`
}

var _ events.Event = (*Task)(nil)

// Encode encodes task to an event map.
func (t Task) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"id":          t.ID,
		"document_id": t.DocumentID,
		"file_name":   t.FileName,
		"content":     base64.StdEncoding.EncodeToString(t.Content),
		"industry":    t.Industry,
		"batch_id":    t.BatchID,
		"retries":     t.Retries,
	}, nil
}

// DecodeTask decodes a task from an event map.
func DecodeTask(event map[string]interface{}) (Task, error) {
	content, err := base64.StdEncoding.DecodeString(events.Read(event, "content", ""))
	if err != nil {
		return Task{}, err
	}

	return Task{
		ID:         events.Read(event, "id", ""),
		DocumentID: events.Read(event, "document_id", ""),
		FileName:   events.Read(event, "file_name", ""),
		Content:    content,
		Industry:   events.Read(event, "industry", ""),
		BatchID:    events.Read(event, "batch_id", ""),
		Retries:    int(events.Read(event, "retries", float64(0))),
	}, nil
}

// HistoryEntry is a single document processing history record.
type HistoryEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Batch groups the documents submitted in a single batch request.
type Batch struct {
	ID        string     `json:"batch_id"`
	TaskIDs   []string   `json:"task_ids,omitempty"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Failed    int        `json:"failed"`
	Pending   int        `json:"pending"`
	Status    string     `json:"status"`
	Documents []Document `json:"documents,omitempty"`
}

// Stats contains aggregate document processing statistics.
type Stats struct {
	TotalDocuments      uint64            `json:"total_documents"`
	StatusCounts        map[string]uint64 `json:"status_counts"`
	DocumentTypes       map[string]uint64 `json:"document_types"`
	AvgProcessingTimeMS float64           `json:"average_processing_time"`
}

// Service provides access to the document classification service.
type Service interface {
	// Classify classifies an uploaded document synchronously and persists
	// the result.
	Classify(ctx context.Context, up Upload) (Document, error)

	// SubmitTask stores a pending document and enqueues an async
	// classification task for it.
	SubmitTask(ctx context.Context, up Upload) (Task, error)

	// SubmitBatch enqueues classification tasks for a batch of uploads.
	SubmitBatch(ctx context.Context, ups []Upload) (Batch, error)

	// TaskStatus returns the document associated with a task.
	TaskStatus(ctx context.Context, taskID string) (Document, error)

	// ViewDocument returns a stored classification result.
	ViewDocument(ctx context.Context, docID string) (Document, error)

	// ListHistory returns the processing history of a document.
	ListHistory(ctx context.Context, docID string) ([]HistoryEntry, error)

	// BatchStatus returns the per-document statuses of a batch with a
	// completion rollup.
	BatchStatus(ctx context.Context, batchID string) (Batch, error)

	// Stats returns aggregate processing statistics.
	Stats(ctx context.Context) (Stats, error)

	// Process runs the classification pipeline for a queued task. It is
	// invoked by the worker.
	Process(ctx context.Context, task Task) (Document, error)

	// FailTask marks the document of a task as failed with the given cause.
	FailTask(ctx context.Context, task Task, cause error) error
}

// Repository provides access to the document store.
type Repository interface {
	// Save persists a document. When the document carries a task or batch
	// ID the corresponding references are stored as well.
	Save(ctx context.Context, doc Document) error

	// Retrieve returns a document by ID.
	Retrieve(ctx context.Context, docID string) (Document, error)

	// RetrieveByTask returns the document associated with a task ID.
	RetrieveByTask(ctx context.Context, taskID string) (Document, error)

	// AddHistory appends an entry to the document processing history.
	AddHistory(ctx context.Context, docID string, entry HistoryEntry) error

	// RetrieveHistory returns the document processing history.
	RetrieveHistory(ctx context.Context, docID string) ([]HistoryEntry, error)

	// RetrieveBatch returns all documents in a batch.
	RetrieveBatch(ctx context.Context, batchID string) ([]Document, error)

	// Stats returns aggregate statistics over stored documents.
	Stats(ctx context.Context) (Stats, error)
}
