// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package strategies provides industry-specific document classification.
package strategies

import (
	"regexp"
	"strings"
)

// Unknown is the document type reported when no rule or keyword matches.
const Unknown = "unknown"

// Classification methods reported in results.
const (
	MethodCustomRules     = "custom_rules"
	MethodKeywordMatching = "keyword_matching"
	MethodTableAnalysis   = "table_analysis"
	MethodNone            = "none"
)

// Custom rules carry a fixed high confidence.
const customRuleConfidence = 0.9

// Result contains the outcome of classifying one document.
type Result struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence_score"`
	Method       string  `json:"method"`
}

// Strategy classifies documents within a single industry.
type Strategy interface {
	// Industry returns the name of the industry this strategy handles.
	Industry() string

	// DocumentTypes returns document types this strategy can classify.
	DocumentTypes() []string

	// Keywords returns keyword mappings per document type.
	Keywords() map[string][]string

	// CustomRules applies industry-specific rules to lowercased text and
	// extracted tables, returning a document type or empty string.
	CustomRules(text string, tables [][][]string) string
}

// All returns all registered industry strategies.
func All() []Strategy {
	return []Strategy{NewFinancial(), NewHealthcare()}
}

// Classify runs a strategy over extracted text: custom rules first with
// fixed high confidence, then keyword matching scored by the fraction of
// matched keywords per document type.
func Classify(s Strategy, text string, tables [][][]string) Result {
	lower := strings.ToLower(text)

	if docType := s.CustomRules(lower, tables); docType != "" {
		return Result{
			DocumentType: docType,
			Confidence:   customRuleConfidence,
			Method:       MethodCustomRules,
		}
	}

	best := Result{
		DocumentType: Unknown,
		Method:       MethodKeywordMatching,
	}
	for docType, keywords := range s.Keywords() {
		if score := keywordScore(lower, keywords); score > best.Confidence {
			best.Confidence = score
			best.DocumentType = docType
		}
	}

	return best
}

func keywordScore(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// headerOverlap counts how many of the wanted header cells appear in the
// first row of table.
func headerOverlap(table [][]string, wanted map[string]struct{}) int {
	if len(table) == 0 {
		return 0
	}
	count := 0
	for _, cell := range table[0] {
		if _, ok := wanted[strings.ToLower(cell)]; ok {
			count++
		}
	}
	return count
}
