// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

// Search runs term through esearch and returns at most maxResults PMIDs in the
// order esearch ranks them. A maxResults of zero or less uses DefaultMaxResults.
// When nothing matches it returns ErrEmptyResult.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term is empty")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := url.Values{
		"term":    {term},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
	}

	body, err := c.get(ctx, "esearch", params)
	if err != nil {
		return nil, err
	}

	var sr esearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, errors.Wrap(err, "decoding esearch response")
	}
	if sr.Result.Error != "" {
		return nil, errors.Errorf("esearch rejected the query: %s", sr.Result.Error)
	}

	ids := sr.Result.IDList
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}

	c.log.Debug("search finished",
		zap.String("term", term),
		zap.String("translation", sr.Result.QueryTranslation),
		zap.String("count", sr.Result.Count),
		zap.Int("returned", len(ids)))

	if len(ids) == 0 {
		return nil, ErrEmptyResult
	}
	return ids, nil
}

// esearch JSON structures. Counts arrive as strings.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	RetMax           string   `json:"retmax"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
	Error            string   `json:"ERROR"`
}
