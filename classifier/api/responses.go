// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/classifier"
)

var (
	_ docsift.Response = (*classifyRes)(nil)
	_ docsift.Response = (*submitRes)(nil)
	_ docsift.Response = (*batchSubmitRes)(nil)
	_ docsift.Response = (*taskStatusRes)(nil)
	_ docsift.Response = (*documentRes)(nil)
	_ docsift.Response = (*historyRes)(nil)
	_ docsift.Response = (*batchStatusRes)(nil)
	_ docsift.Response = (*statsRes)(nil)
)

type classifyRes struct {
	classifier.Document
}

func (res classifyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res classifyRes) Code() int {
	return http.StatusOK
}

func (res classifyRes) Empty() bool {
	return false
}

type submitRes struct {
	TaskID     string `json:"task_id"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

func (res submitRes) Headers() map[string]string {
	return map[string]string{}
}

func (res submitRes) Code() int {
	return http.StatusAccepted
}

func (res submitRes) Empty() bool {
	return false
}

type batchSubmitRes struct {
	BatchID string   `json:"batch_id"`
	TaskIDs []string `json:"task_ids"`
	Status  string   `json:"status"`
}

func (res batchSubmitRes) Headers() map[string]string {
	return map[string]string{}
}

func (res batchSubmitRes) Code() int {
	return http.StatusAccepted
}

func (res batchSubmitRes) Empty() bool {
	return false
}

type taskStatusRes struct {
	Status string               `json:"status"`
	Result *classifier.Document `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func (res taskStatusRes) Headers() map[string]string {
	return map[string]string{}
}

func (res taskStatusRes) Code() int {
	switch res.Status {
	case classifier.Completed.String():
		return http.StatusOK
	case classifier.Failed.String():
		return http.StatusBadRequest
	default:
		return http.StatusAccepted
	}
}

func (res taskStatusRes) Empty() bool {
	return false
}

type documentRes struct {
	classifier.Document
}

func (res documentRes) Headers() map[string]string {
	return map[string]string{}
}

func (res documentRes) Code() int {
	return http.StatusOK
}

func (res documentRes) Empty() bool {
	return false
}

type historyRes struct {
	DocumentID string                    `json:"document_id"`
	History    []classifier.HistoryEntry `json:"history"`
}

func (res historyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res historyRes) Code() int {
	return http.StatusOK
}

func (res historyRes) Empty() bool {
	return false
}

type batchStatusRes struct {
	classifier.Batch
}

func (res batchStatusRes) Headers() map[string]string {
	return map[string]string{}
}

func (res batchStatusRes) Code() int {
	return http.StatusOK
}

func (res batchStatusRes) Empty() bool {
	return false
}

type statsRes struct {
	classifier.Stats
}

func (res statsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res statsRes) Code() int {
	return http.StatusOK
}

func (res statsRes) Empty() bool {
	return false
}
