// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a small client for the NCBI E-utilities used by the
// pipeline: esearch to turn a query into PMIDs and efetch to pull the
// article records behind them.
//
// Requests carry the tool, email and api_key parameters NCBI asks for, are
// paced below the published per-client ceiling, and are retried with a
// fixed delay before surfacing a *NetworkError.
package pubmed

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/pubmed-papers/internal/httputil"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

const (
	// DefaultBaseURL is the public E-utilities root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultMaxResults is used when a search asks for zero or fewer results.
	DefaultMaxResults = 10

	defaultTool      = "pubmed-papers"
	defaultUserAgent = "pubmed-papers/0.1"
	defaultTimeout   = 10 * time.Second
	defaultBatchSize = 200

	// NCBI allows 3 requests/s per client, 10 with an API key.
	anonymousRPS = 3
	keyedRPS     = 10
)

// Client talks to the E-utilities API.
type Client struct {
	cfg     types.PubMedConfig
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient fills in defaults for any unset field of cfg and returns a
// ready client. A nil logger discards output.
func NewClient(cfg types.PubMedConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = anonymousRPS
		if cfg.APIKey != "" {
			rps = keyedRPS
		}
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     logger.Named("pubmed"),
	}
}

// get issues one paced, retried GET against an E-utility and returns the
// response body. Failures that outlast the retry budget come back as
// *NetworkError.
func (c *Client) get(ctx context.Context, op string, params url.Values) ([]byte, error) {
	params.Set("db", "pubmed")
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	c.log.Debug("request",
		zap.String("op", op),
		zap.String("params", params.Encode()))

	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + op + ".fcgi?" + params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for request slot")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s request", op)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.Retry, c.log)
	if err != nil {
		return nil, newNetworkError(op, httputil.Attempts(c.cfg.Retry), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(op, 1, errors.Wrap(err, "reading response body"))
	}

	c.log.Debug("response",
		zap.String("op", op),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}
