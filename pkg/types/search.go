// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the pubmed-papers stages:
// the Query built from the command line, the PaperRecord produced for each
// fetched PMID, and the configuration handed to a pipeline run.
package types

import "strings"

// Query is a search string plus the options that shape a run.
// It is built once from the command line and not modified afterwards.
type Query struct {
	// Term is the PubMed search expression; boolean operators and field
	// tags are passed through to esearch unchanged.
	Term string `json:"term" yaml:"term"`

	// MaxResults caps the number of PMIDs requested from esearch.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// FilterCompany enables affiliation classification.
	FilterCompany bool `json:"filter_company" yaml:"filter_company"`

	// OutputPath is the CSV destination; empty means stdout.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Debug raises log verbosity. It never changes output.
	Debug bool `json:"debug" yaml:"debug"`
}

// IsEmpty reports whether the query has no searchable text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Term) == ""
}
