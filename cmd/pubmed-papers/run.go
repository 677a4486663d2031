package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-papers/internal/pipeline"
	"github.com/pdiddy/pubmed-papers/internal/secrets"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// secretsDir is read for credentials the flags, env and config leave unset.
var secretsDir = secrets.DefaultDir

// runQuery builds the query and configuration from v and args, then runs
// the pipeline. CSV goes to stdout unless a file is configured; logs and
// progress lines go to stderr.
func runQuery(ctx context.Context, v *viper.Viper, args []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	q := buildQuery(v, args)

	logger := newLogger(stderr, q.Debug)
	defer logger.Sync() //nolint:errcheck

	creds, err := secrets.Load(secretsDir, logger)
	if err != nil {
		return err
	}
	if names := creds.Names(); len(names) > 0 {
		logger.Debug("loaded secrets", zap.Strings("keys", names))
	}

	cfg := buildConfig(v, creds)

	p, err := pipeline.New(cfg, stdout, logger)
	if err != nil {
		return errors.Wrap(err, "setting up pipeline")
	}

	res, err := p.Run(ctx, q)
	if err != nil {
		return err
	}

	if q.OutputPath != "" {
		fmt.Fprintf(stderr, "Wrote %d papers to %s\n", len(res.Records), q.OutputPath)
	}
	return nil
}

// buildQuery joins the positional arguments into one search term so an
// unquoted multi-word query still works.
func buildQuery(v *viper.Viper, args []string) types.Query {
	return types.Query{
		Term:          strings.TrimSpace(strings.Join(args, " ")),
		MaxResults:    v.GetInt("max-results"),
		FilterCompany: v.GetBool("filter-company"),
		OutputPath:    v.GetString("file"),
		Debug:         v.GetBool("debug"),
	}
}

// buildConfig maps config keys onto the pipeline settings. Credentials from
// the secrets directory fill in whatever flags, env and config leave empty.
func buildConfig(v *viper.Viper, creds secrets.Credentials) types.PipelineConfig {
	apiKey := v.GetString("api-key")
	if apiKey == "" {
		apiKey = creds.APIKey
	}
	email := v.GetString("email")
	if email == "" {
		email = creds.Email
	}

	return types.PipelineConfig{
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("timeout"),
				UserAgent: "pubmed-papers/" + version,
			},
			Retry: types.RetryConfig{
				Attempts: v.GetInt("retries"),
				Delay:    v.GetDuration("retry-delay"),
			},
			BaseURL:           v.GetString("base-url"),
			APIKey:            apiKey,
			Email:             email,
			BatchSize:         v.GetInt("batch-size"),
			RequestsPerSecond: v.GetFloat64("requests-per-second"),
		},
		KeywordsFile: v.GetString("keywords"),
	}
}

// newLogger returns a console logger on w at info level, or debug when
// debug is set.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
