package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-papers/internal/pubmed"
	"github.com/pdiddy/pubmed-papers/internal/secrets"
)

const fetchXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation>
    <PMID Version="1">4242</PMID>
    <Article>
      <Journal><JournalIssue><PubDate><Year>2021</Year></PubDate></JournalIssue></Journal>
      <ArticleTitle>Cancer treatment in practice.</ArticleTitle>
      <AuthorList>
        <Author><LastName>Berg</LastName><ForeName>Ola</ForeName>
          <AffiliationInfo><Affiliation>Karolinska Institute, Stockholm, Sweden.</Affiliation></AffiliationInfo>
        </Author>
      </AuthorList>
    </Article>
  </MedlineCitation>
</PubmedArticle>
</PubmedArticleSet>`

// testViper returns a config with the CLI defaults, pointed at baseURL.
func testViper(baseURL string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.Set("base-url", baseURL)
	v.Set("retry-delay", time.Millisecond)
	v.Set("requests-per-second", 1000.0)
	return v
}

func withSecretsDir(t *testing.T, dir string) {
	t.Helper()
	old := secretsDir
	secretsDir = dir
	t.Cleanup(func() { secretsDir = old })
}

func TestRunQueryStdout(t *testing.T) {
	var gotTerm, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		if strings.HasSuffix(r.URL.Path, "/esearch.fcgi") {
			gotTerm = r.URL.Query().Get("term")
			fmt.Fprint(w, `{"esearchresult":{"idlist":["4242"]}}`)
			return
		}
		fmt.Fprint(w, fetchXML)
	}))
	defer ts.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, secrets.APIKeyFile), []byte("key-from-file\n"), 0o600))
	withSecretsDir(t, dir)

	var stdout, stderr bytes.Buffer
	err := runQuery(context.Background(), testViper(ts.URL), []string{"cancer", "treatment"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "cancer treatment", gotTerm)
	assert.Equal(t, "key-from-file", gotKey)

	rows, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "4242", rows[1][0])
	assert.Equal(t, "Ola Berg", rows[1][3])
	assert.Equal(t, "", rows[1][6])
	assert.NotContains(t, stderr.String(), "4242,", "CSV must not leak into stderr")
}

func TestRunQueryFileAndDebug(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/esearch.fcgi") {
			fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
			return
		}
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer ts.Close()
	withSecretsDir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "out.csv")
	v := testViper(ts.URL)
	v.Set("file", path)
	v.Set("debug", true)

	var stdout, stderr bytes.Buffer
	require.NoError(t, runQuery(context.Background(), v, []string{"nothing matches"}, &stdout, &stderr))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "DEBUG")
	assert.Contains(t, stderr.String(), "Wrote 0 papers to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,title,date,authors,affiliations,corresponding_email,company_affiliations\n", string(data))
}

func TestRunQueryNetworkFailure(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	withSecretsDir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "out.csv")
	v := testViper(ts.URL)
	v.Set("file", path)

	var stdout, stderr bytes.Buffer
	err := runQuery(context.Background(), v, []string{"x"}, &stdout, &stderr)

	var ne *pubmed.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusBadGateway, ne.StatusCode)
	assert.Equal(t, int32(3), calls.Load())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunQueryRejectsBadArguments(t *testing.T) {
	withSecretsDir(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	err := runQuery(context.Background(), testViper("http://unused"), []string{"  "}, &stdout, &stderr)
	assert.Error(t, err)

	v := testViper("http://unused")
	v.Set("max-results", 0)
	err = runQuery(context.Background(), v, []string{"cancer"}, &stdout, &stderr)
	assert.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestBuildConfigPrecedence(t *testing.T) {
	creds := secrets.Credentials{APIKey: "file-key", Email: "file@example.com"}

	v := testViper("http://example.test")
	v.Set("api-key", "flag-key")
	cfg := buildConfig(v, creds)

	assert.Equal(t, "flag-key", cfg.PubMed.APIKey, "explicit setting beats secrets file")
	assert.Equal(t, "file@example.com", cfg.PubMed.Email, "secrets file fills unset values")
	assert.Equal(t, 3, cfg.PubMed.Retry.Attempts)
	assert.Equal(t, 10*time.Second, cfg.PubMed.Timeout)
	assert.Equal(t, 200, cfg.PubMed.BatchSize)
	assert.Equal(t, "http://example.test", cfg.PubMed.BaseURL)
}

func TestBuildQueryDefaults(t *testing.T) {
	q := buildQuery(testViper(""), []string{" cancer ", "AND", "2023[dp]"})

	assert.Equal(t, "cancer  AND 2023[dp]", q.Term)
	assert.Equal(t, pubmed.DefaultMaxResults, q.MaxResults)
	assert.False(t, q.FilterCompany)
	assert.Empty(t, q.OutputPath)
	assert.False(t, q.Debug)

	v := testViper("")
	v.Set("debug", true)
	assert.True(t, buildQuery(v, []string{"x"}).Debug)
}

func TestSubcommandNameAsQuery(t *testing.T) {
	cmd, args, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, versionCmd, cmd)
	assert.Empty(t, args)

	cmd, args, err = rootCmd.Find([]string{"--", "version"})
	require.NoError(t, err)
	assert.Equal(t, rootCmd, cmd, "arguments after -- are a query, not a subcommand")
	assert.Equal(t, []string{"--", "version"}, args)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log = newLogger(&buf, true)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
