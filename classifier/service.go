// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/extractors"
	"github.com/docsift/docsift/pkg/errors"
	svcerr "github.com/docsift/docsift/pkg/errors/service"
	"github.com/docsift/docsift/pkg/events"
	"github.com/docsift/docsift/strategies"
)

const (
	// DefMaxFileSize is the default upload size limit.
	DefMaxFileSize int64 = 10 * 1024 * 1024
	// DefMinConfidence is the default confidence threshold below which
	// results are flagged.
	DefMinConfidence = 0.6
	// DefMaxBatchSize is the default maximum number of files per batch.
	DefMaxBatchSize = 100
)

// DefAllowedExtensions lists the file extensions accepted for upload.
var DefAllowedExtensions = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "tiff", "xls", "xlsx", "txt", "csv"}

var (
	// ErrUnknownIndustry indicates a classification request for an
	// industry with no registered strategy.
	ErrUnknownIndustry = errors.New("unknown industry")

	// ErrFileTooLarge indicates an upload exceeding the size limit.
	ErrFileTooLarge = errors.New("file size exceeds limit")

	// ErrUnsupportedType indicates an upload with a disallowed extension.
	ErrUnsupportedType = errors.New("file type not allowed")

	// ErrEmptyFile indicates an upload with no content.
	ErrEmptyFile = errors.New("empty file provided")

	// ErrBatchTooLarge indicates a batch exceeding the size limit.
	ErrBatchTooLarge = errors.New("batch size exceeds limit")
)

// IsPermanent reports whether a processing error cannot be fixed by
// retrying the task.
func IsPermanent(err error) bool {
	for _, p := range []error{
		ErrUnknownIndustry,
		ErrFileTooLarge,
		ErrUnsupportedType,
		ErrEmptyFile,
		ErrBatchTooLarge,
		extractors.ErrUnsupportedFormat,
		extractors.ErrExtraction,
	} {
		if errors.Contains(err, p) {
			return true
		}
	}
	return false
}

// Config contains the tunable limits of the classification service.
type Config struct {
	MaxFileSize       int64
	AllowedExtensions []string
	MinConfidence     float64
	MaxBatchSize      int
}

// DefConfig returns the default service configuration.
func DefConfig() Config {
	return Config{
		MaxFileSize:       DefMaxFileSize,
		AllowedExtensions: DefAllowedExtensions,
		MinConfidence:     DefMinConfidence,
		MaxBatchSize:      DefMaxBatchSize,
	}
}

type service struct {
	idProvider docsift.IDProvider
	repo       Repository
	publisher  events.Publisher
	registry   *extractors.Registry
	strategies map[string]strategies.Strategy
	cfg        Config
}

// NewService returns a new document classification service implementation.
func NewService(idp docsift.IDProvider, repo Repository, publisher events.Publisher, registry *extractors.Registry, strats []strategies.Strategy, cfg Config) Service {
	byIndustry := make(map[string]strategies.Strategy, len(strats))
	for _, s := range strats {
		byIndustry[s.Industry()] = s
	}

	return &service{
		idProvider: idp,
		repo:       repo,
		publisher:  publisher,
		registry:   registry,
		strategies: byIndustry,
		cfg:        cfg,
	}
}

func (svc *service) Classify(ctx context.Context, up Upload) (Document, error) {
	// Classification wall time is reported as ProcessedAt - StoredAt, so
	// the stored timestamp marks the start of the pipeline.
	start := time.Now().UTC()
	doc, err := svc.classify(up)
	if err != nil {
		return Document{}, errors.Wrap(svcerr.ErrClassification, err)
	}

	doc.StoredAt = start
	if err := svc.repo.Save(ctx, doc); err != nil {
		return Document{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	if err := svc.repo.AddHistory(ctx, doc.ID, HistoryEntry{
		Timestamp: time.Now().UTC(),
		Action:    "classified",
		Metadata: map[string]interface{}{
			"document_type":    doc.DocumentType,
			"confidence_score": doc.ConfidenceScore,
		},
	}); err != nil {
		return Document{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}

	return doc, nil
}

func (svc *service) SubmitTask(ctx context.Context, up Upload) (Task, error) {
	return svc.submit(ctx, up, "")
}

func (svc *service) SubmitBatch(ctx context.Context, ups []Upload) (Batch, error) {
	if len(ups) == 0 {
		return Batch{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrEmptyFile)
	}
	if len(ups) > svc.cfg.MaxBatchSize {
		return Batch{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrBatchTooLarge)
	}
	// Reject the whole batch before any task is persisted or enqueued, so
	// a rejected request never leaves half-submitted work behind.
	for _, up := range ups {
		if err := svc.validate(up); err != nil {
			return Batch{}, errors.Wrap(svcerr.ErrMalformedEntity, err)
		}
		if up.Industry != "" {
			if _, ok := svc.strategies[up.Industry]; !ok {
				return Batch{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrUnknownIndustry)
			}
		}
	}

	batchID, err := svc.idProvider.ID()
	if err != nil {
		return Batch{}, errors.Wrap(svcerr.ErrUniqueID, err)
	}

	batch := Batch{
		ID:     batchID,
		Total:  len(ups),
		Status: processingStatus,
	}
	for _, up := range ups {
		task, err := svc.submit(ctx, up, batchID)
		if err != nil {
			return Batch{}, err
		}
		batch.TaskIDs = append(batch.TaskIDs, task.ID)
	}

	return batch, nil
}

func (svc *service) submit(ctx context.Context, up Upload, batchID string) (Task, error) {
	if err := svc.validate(up); err != nil {
		return Task{}, errors.Wrap(svcerr.ErrMalformedEntity, err)
	}
	if up.Industry != "" {
		if _, ok := svc.strategies[up.Industry]; !ok {
			return Task{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrUnknownIndustry)
		}
	}

	taskID, err := svc.idProvider.ID()
	if err != nil {
		return Task{}, errors.Wrap(svcerr.ErrUniqueID, err)
	}

	docID := hash(up.Content)
	now := time.Now().UTC()
	doc := Document{
		ID:       docID,
		FileName: up.FileName,
		FileSize: int64(len(up.Content)),
		Industry: up.Industry,
		Status:   Pending,
		TaskID:   taskID,
		BatchID:  batchID,
		StoredAt: now,
	}
	if err := svc.repo.Save(ctx, doc); err != nil {
		return Task{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	if err := svc.repo.AddHistory(ctx, docID, HistoryEntry{
		Timestamp: now,
		Action:    "submitted",
		Metadata:  map[string]interface{}{"task_id": taskID},
	}); err != nil {
		return Task{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}

	task := Task{
		ID:         taskID,
		DocumentID: docID,
		FileName:   up.FileName,
		Content:    up.Content,
		Industry:   up.Industry,
		BatchID:    batchID,
	}
	if err := svc.publisher.Publish(ctx, task); err != nil {
		return Task{}, errors.Wrap(svcerr.ErrEnqueue, err)
	}

	return task, nil
}

func (svc *service) TaskStatus(ctx context.Context, taskID string) (Document, error) {
	doc, err := svc.repo.RetrieveByTask(ctx, taskID)
	if err != nil {
		return Document{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return doc, nil
}

func (svc *service) ViewDocument(ctx context.Context, docID string) (Document, error) {
	doc, err := svc.repo.Retrieve(ctx, docID)
	if err != nil {
		return Document{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return doc, nil
}

func (svc *service) ListHistory(ctx context.Context, docID string) ([]HistoryEntry, error) {
	history, err := svc.repo.RetrieveHistory(ctx, docID)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return history, nil
}

func (svc *service) BatchStatus(ctx context.Context, batchID string) (Batch, error) {
	docs, err := svc.repo.RetrieveBatch(ctx, batchID)
	if err != nil {
		return Batch{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	batch := Batch{
		ID:        batchID,
		Total:     len(docs),
		Documents: docs,
	}
	for _, doc := range docs {
		switch doc.Status {
		case Completed:
			batch.Completed++
		case Failed:
			batch.Failed++
		default:
			batch.Pending++
		}
	}
	batch.Status = processingStatus
	if batch.Pending == 0 {
		batch.Status = completedStatus
	}

	return batch, nil
}

func (svc *service) Stats(ctx context.Context) (Stats, error) {
	stats, err := svc.repo.Stats(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return stats, nil
}

func (svc *service) Process(ctx context.Context, task Task) (Document, error) {
	now := time.Now().UTC()
	if doc, err := svc.repo.Retrieve(ctx, task.DocumentID); err == nil {
		doc.Status = Processing
		doc.UpdatedAt = now
		if err := svc.repo.Save(ctx, doc); err != nil {
			return Document{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
		}
	}
	if err := svc.repo.AddHistory(ctx, task.DocumentID, HistoryEntry{
		Timestamp: now,
		Action:    "processing",
		Metadata:  map[string]interface{}{"task_id": task.ID, "retries": task.Retries},
	}); err != nil {
		return Document{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	doc, err := svc.classify(Upload{FileName: task.FileName, Content: task.Content, Industry: task.Industry})
	if err != nil {
		return Document{}, errors.Wrap(svcerr.ErrClassification, err)
	}

	doc.TaskID = task.ID
	doc.BatchID = task.BatchID
	doc.StoredAt = now
	doc.UpdatedAt = time.Now().UTC()
	if err := svc.repo.Save(ctx, doc); err != nil {
		return Document{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	if err := svc.repo.AddHistory(ctx, doc.ID, HistoryEntry{
		Timestamp: doc.UpdatedAt,
		Action:    "classified",
		Metadata: map[string]interface{}{
			"task_id":          task.ID,
			"document_type":    doc.DocumentType,
			"confidence_score": doc.ConfidenceScore,
		},
	}); err != nil {
		return Document{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return doc, nil
}

func (svc *service) FailTask(ctx context.Context, task Task, cause error) error {
	now := time.Now().UTC()
	doc, err := svc.repo.Retrieve(ctx, task.DocumentID)
	if err != nil {
		doc = Document{
			ID:       task.DocumentID,
			FileName: task.FileName,
			Industry: task.Industry,
			TaskID:   task.ID,
			BatchID:  task.BatchID,
			StoredAt: now,
		}
	}
	doc.Status = Failed
	doc.Error = cause.Error()
	doc.UpdatedAt = now
	if err := svc.repo.Save(ctx, doc); err != nil {
		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return svc.repo.AddHistory(ctx, task.DocumentID, HistoryEntry{
		Timestamp: now,
		Action:    "failed",
		Metadata:  map[string]interface{}{"task_id": task.ID, "error": cause.Error(), "retries": task.Retries},
	})
}

// classify runs the extraction and classification pipeline for a single
// upload without touching the store.
func (svc *service) classify(up Upload) (Document, error) {
	if err := svc.validate(up); err != nil {
		return Document{}, err
	}

	docID := hash(up.Content)

	extractor, mime, err := svc.registry.Get(up.Content)
	if err != nil {
		return Document{}, err
	}
	content, err := extractor.Extract(up.Content)
	if err != nil {
		return Document{}, errors.Wrap(extractors.ErrExtraction, err)
	}

	enhancement := svc.enhance(content)

	var result strategies.Result
	switch {
	case up.Industry != "":
		strategy, ok := svc.strategies[up.Industry]
		if !ok {
			return Document{}, ErrUnknownIndustry
		}
		result = svc.classifyWith(strategy, content)
	default:
		result = svc.classifyGeneric(content)
	}

	metadata := map[string]interface{}{
		"mime_type":             mime,
		"classification_method": result.Method,
		"extraction_confidence": content.Confidence,
	}
	for k, v := range content.Metadata {
		metadata[k] = v
	}
	for k, v := range enhancement {
		metadata[k] = v
	}
	if result.Confidence < svc.cfg.MinConfidence {
		metadata["below_confidence_threshold"] = true
	}

	return Document{
		ID:              docID,
		FileName:        up.FileName,
		DocumentType:    result.DocumentType,
		ConfidenceScore: result.Confidence,
		MimeType:        mime,
		FileSize:        int64(len(up.Content)),
		Industry:        up.Industry,
		ExtractedText:   content.Text,
		Metadata:        metadata,
		Tables:          content.Tables,
		Headers:         content.Headers,
		Footers:         content.Footers,
		Status:          Completed,
		ProcessedAt:     time.Now().UTC(),
	}, nil
}

// classifyWith classifies content with a single industry strategy,
// falling back to table analysis when text yields no match.
func (svc *service) classifyWith(strategy strategies.Strategy, content extractors.Content) strategies.Result {
	result := strategies.Classify(strategy, content.Text, content.Tables)

	if result.DocumentType == strategies.Unknown && len(content.Tables) > 0 {
		tableResult := strategies.Classify(strategy, flattenTables(content.Tables), nil)
		if tableResult.DocumentType != strategies.Unknown {
			tableResult.Method = strategies.MethodTableAnalysis
		}
		if tableResult.Confidence > result.Confidence {
			result = tableResult
		}
	}

	return result
}

// classifyGeneric tries every registered strategy and keeps the most
// confident result.
func (svc *service) classifyGeneric(content extractors.Content) strategies.Result {
	best := strategies.Result{DocumentType: strategies.Unknown, Method: strategies.MethodNone}
	for _, strategy := range svc.strategies {
		if result := svc.classifyWith(strategy, content); result.Confidence > best.Confidence {
			best = result
		}
	}
	return best
}

func (svc *service) validate(up Upload) error {
	if len(up.Content) == 0 {
		return ErrEmptyFile
	}
	if int64(len(up.Content)) > svc.cfg.MaxFileSize {
		return ErrFileTooLarge
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(up.FileName)), ".")
	for _, allowed := range svc.cfg.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}

// enhance derives format-specific features used to enrich classification
// metadata.
func (svc *service) enhance(content extractors.Content) map[string]interface{} {
	enhancement := map[string]interface{}{
		"content_length": len(content.Text),
		"has_tables":     len(content.Tables) > 0,
		"has_headers":    len(content.Headers) > 0,
		"has_footers":    len(content.Footers) > 0,
	}

	if len(content.Tables) > 0 {
		enhancement["table_count"] = len(content.Tables)
		enhancement["table_patterns"] = map[string]int{
			"financial_table":  countFinancialTables(content.Tables),
			"list_table":       countListTables(content.Tables),
			"form_table":       countFormTables(content.Tables),
			"header_row_count": countHeaderRows(content.Tables),
		}
	}

	if len(content.Headers) > 0 || len(content.Footers) > 0 {
		enhancement["header_patterns"] = analyzeHeaders(content.Headers)
		enhancement["footer_patterns"] = analyzeFooters(content.Footers)
	}

	return enhancement
}

func hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func flattenTables(tables [][][]string) string {
	var sb strings.Builder
	for _, table := range tables {
		for _, row := range table {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

var financialCellKeywords = []string{"amount", "total", "balance", "price"}

func countFinancialTables(tables [][][]string) int {
	count := 0
	for _, table := range tables {
		for _, row := range table {
			if rowContainsAny(row, financialCellKeywords) {
				count++
				break
			}
		}
	}
	return count
}

func countListTables(tables [][][]string) int {
	count := 0
	for _, table := range tables {
		if len(table) > 0 && len(table[0]) == 1 {
			count++
		}
	}
	return count
}

func countFormTables(tables [][][]string) int {
	count := 0
	for _, table := range tables {
		if len(table) == 0 || len(table[0]) != 2 {
			continue
		}
		form := true
		for _, row := range table {
			if len(row) > 0 && isNumeric(row[0]) {
				form = false
				break
			}
		}
		if form {
			count++
		}
	}
	return count
}

var headerRowKeywords = []string{"total", "sum", "amount", "date", "description"}

func countHeaderRows(tables [][][]string) int {
	count := 0
	for _, table := range tables {
		if len(table) == 0 {
			continue
		}
		if rowContainsAny(table[0], headerRowKeywords) {
			count++
		}
	}
	return count
}

func analyzeHeaders(headers []string) map[string]int {
	patterns := map[string]int{
		"date_pattern":   0,
		"logo_reference": 0,
		"letterhead":     0,
		"page_number":    0,
	}
	if len(headers) == 0 {
		return patterns
	}

	text := strings.ToLower(strings.Join(headers, " "))
	if containsAny(text, "page", "of") {
		patterns["page_number"]++
	}
	if containsAny(text, "logo", "brand", "trademark") {
		patterns["logo_reference"]++
	}
	if containsAny(text, "confidential", "draft", "final") {
		patterns["letterhead"]++
	}
	if containsAny(text, "date:", "dated:", "as of") {
		patterns["date_pattern"]++
	}

	return patterns
}

func analyzeFooters(footers []string) map[string]int {
	patterns := map[string]int{
		"page_number":  0,
		"copyright":    0,
		"contact_info": 0,
		"disclaimer":   0,
	}
	if len(footers) == 0 {
		return patterns
	}

	text := strings.ToLower(strings.Join(footers, " "))
	if containsAny(text, "page", "of") {
		patterns["page_number"]++
	}
	if containsAny(text, "copyright", "©", "all rights reserved") {
		patterns["copyright"]++
	}
	if containsAny(text, "tel:", "phone:", "email:", "www.", "http") {
		patterns["contact_info"]++
	}
	if containsAny(text, "confidential", "disclaimer", "privacy") {
		patterns["disclaimer"]++
	}

	return patterns
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func rowContainsAny(row []string, keywords []string) bool {
	for _, cell := range row {
		cell = strings.ToLower(cell)
		for _, kw := range keywords {
			if strings.Contains(cell, kw) {
				return true
			}
		}
	}
	return false
}

func isNumeric(s string) bool {
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
