// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds HTTP settings for requests to the E-utilities API.
type HTTPConfig struct {
	// Timeout bounds every request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-papers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig controls the fixed-delay retry applied to each request.
type RetryConfig struct {
	// Attempts is the total number of tries per request, first one included (default 3).
	Attempts int `json:"attempts" yaml:"attempts"`

	// Delay is the pause between attempts (default 2s).
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// PubMedConfig holds settings for the E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`
	Retry      RetryConfig `json:"retry" yaml:"retry"`

	// BaseURL is the E-utilities root; esearch.fcgi and efetch.fcgi are
	// resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional NCBI API key that raises the rate ceiling.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is the contact address NCBI asks tools to send.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the registered tool name sent with each request.
	Tool string `json:"tool" yaml:"tool"`

	// BatchSize is the number of PMIDs per efetch request (default 200).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// RequestsPerSecond paces requests; zero derives the NCBI ceiling
	// from whether APIKey is set.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// PipelineConfig groups everything a pipeline run needs besides the query.
type PipelineConfig struct {
	PubMed PubMedConfig `json:"pubmed" yaml:"pubmed"`

	// KeywordsFile optionally points at a YAML affiliation keyword table.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty"`
}
