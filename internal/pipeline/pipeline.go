// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the fetch-filter-export sequence: search PubMed for
// PMIDs, fetch their records, optionally classify affiliations, and write
// the rows as CSV. Each step either succeeds or ends the run; nothing is
// kept between runs.
package pipeline

import (
	"context"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/pdiddy/pubmed-papers/internal/affiliation"
	"github.com/pdiddy/pubmed-papers/internal/export"
	"github.com/pdiddy/pubmed-papers/internal/pubmed"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Source supplies PMIDs and the records behind them. *pubmed.Client
// implements it.
type Source interface {
	Search(ctx context.Context, term string, maxResults int) ([]string, error)
	FetchDetails(ctx context.Context, ids []string) ([]types.PaperRecord, []*pubmed.ParseError, error)
}

// Pipeline holds the collaborators for a run.
type Pipeline struct {
	Source     Source
	Classifier *affiliation.Classifier

	// Stdout receives the CSV when a query has no OutputPath.
	Stdout io.Writer

	Log *zap.Logger
}

// New builds a Pipeline backed by the PubMed client described by cfg. The
// affiliation keyword table comes from cfg.KeywordsFile when set.
func New(cfg types.PipelineConfig, stdout io.Writer, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	kw := affiliation.DefaultKeywords()
	if cfg.KeywordsFile != "" {
		var err error
		if kw, err = affiliation.LoadKeywords(cfg.KeywordsFile); err != nil {
			return nil, err
		}
		logger.Debug("loaded keyword table",
			zap.String("path", cfg.KeywordsFile),
			zap.Int("academic", len(kw.Academic)),
			zap.Int("company", len(kw.Company)))
	}

	return &Pipeline{
		Source:     pubmed.NewClient(cfg.PubMed, logger),
		Classifier: affiliation.NewClassifier(kw),
		Stdout:     stdout,
		Log:        logger,
	}, nil
}

// Result summarises a completed run.
type Result struct {
	// Records are the rows written, in search order.
	Records []types.PaperRecord

	// Skipped counts records dropped because they could not be parsed.
	Skipped int

	// Empty is set when the search matched nothing.
	Empty bool
}

// Run executes the pipeline for q. An empty search is not an error: the
// output then holds only the header row. A *pubmed.NetworkError ends the
// run before any output is written.
func (p *Pipeline) Run(ctx context.Context, q types.Query) (Result, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	if q.IsEmpty() {
		return Result{}, errors.New("query is empty: provide a PubMed search term")
	}
	if q.MaxResults < 1 {
		return Result{}, errors.Errorf("max results must be at least 1, got %d", q.MaxResults)
	}

	var res Result

	ids, err := p.Source.Search(ctx, q.Term, q.MaxResults)
	switch {
	case errors.Is(err, pubmed.ErrEmptyResult):
		log.Info("no papers found", zap.String("query", q.Term))
		res.Empty = true
	case err != nil:
		return Result{}, errors.Wrap(err, "searching PubMed")
	default:
		log.Info("papers found", zap.Int("count", len(ids)))

		recs, parseErrs, err := p.Source.FetchDetails(ctx, ids)
		if err != nil {
			return Result{}, errors.Wrap(err, "fetching paper details")
		}
		for _, pe := range parseErrs {
			log.Debug("skipped record", zap.Error(pe))
		}
		if len(parseErrs) > 0 {
			log.Warn("some records could not be parsed", zap.Int("skipped", len(parseErrs)))
		}
		res.Skipped = len(parseErrs)
		res.Records = p.assemble(recs, q.FilterCompany)
	}

	if err := p.write(q.OutputPath, res.Records); err != nil {
		return Result{}, err
	}
	if q.OutputPath != "" {
		log.Info("results saved",
			zap.String("path", q.OutputPath),
			zap.Int("rows", len(res.Records)))
	}
	return res, nil
}

// assemble returns the final records, with company affiliations filled in
// when filtering is on and left empty otherwise.
func (p *Pipeline) assemble(recs []types.PaperRecord, filterCompany bool) []types.PaperRecord {
	out := make([]types.PaperRecord, 0, len(recs))
	for _, r := range recs {
		r.CompanyAffiliations = nil
		if filterCompany && p.Classifier != nil {
			r.CompanyAffiliations = p.Classifier.CompanyAffiliations(r.Affiliations)
		}
		out = append(out, r)
	}
	return out
}

func (p *Pipeline) write(path string, recs []types.PaperRecord) error {
	if path != "" {
		return export.WriteFile(path, recs)
	}
	if p.Stdout == nil {
		return errors.New("no output destination: set an output path or stdout")
	}
	return export.WriteCSV(p.Stdout, recs)
}
