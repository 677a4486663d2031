// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// efetchFixture holds three articles: a complete one with inline title
// markup and an email embedded in the affiliation, one with a MedlineDate,
// a collective author and no email, and one without a PMID. A book record
// sits between them and must be skipped.
const efetchFixture = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2025//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_250101.dtd">
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">38001234</PMID>
    <Article PubModel="Print-Electronic">
      <Journal>
        <JournalIssue CitedMedium="Internet">
          <PubDate><Year>2024</Year><Month>Jan</Month></PubDate>
        </JournalIssue>
      </Journal>
      <ArticleTitle>Targeting <i>KRAS</i> G12C in lung cancer &amp; beyond.</ArticleTitle>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y">
          <LastName>Doe</LastName>
          <ForeName>Jane</ForeName>
          <AffiliationInfo>
            <Affiliation>Genentech Inc., South San Francisco, CA, USA. jane.doe@gene.com.</Affiliation>
          </AffiliationInfo>
        </Author>
        <Author ValidYN="Y">
          <LastName>Smith</LastName>
          <ForeName>John</ForeName>
          <AffiliationInfo>
            <Affiliation>Department of Oncology, Harvard University, Boston, MA, USA.</Affiliation>
          </AffiliationInfo>
        </Author>
        <Author ValidYN="Y">
          <LastName>Nakamura</LastName>
        </Author>
      </AuthorList>
    </Article>
  </MedlineCitation>
</PubmedArticle>
<PubmedBookArticle>
  <BookDocument><PMID Version="1">20301295</PMID></BookDocument>
</PubmedBookArticle>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">37009876</PMID>
    <Article PubModel="Print">
      <Journal>
        <JournalIssue CitedMedium="Print">
          <PubDate><MedlineDate>2023 Nov-Dec</MedlineDate></PubDate>
        </JournalIssue>
      </Journal>
      <ArticleTitle>Outcomes of adjuvant therapy.</ArticleTitle>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y">
          <CollectiveName>Breast Cancer Trials Group</CollectiveName>
        </Author>
        <Author ValidYN="Y">
          <LastName>Rossi</LastName>
          <ForeName>Maria</ForeName>
          <AffiliationInfo>
            <Affiliation>Pfizer Oncology, New York, NY, USA.</Affiliation>
          </AffiliationInfo>
          <AffiliationInfo>
            <Affiliation>Columbia University, New York, NY, USA.</Affiliation>
          </AffiliationInfo>
        </Author>
      </AuthorList>
    </Article>
  </MedlineCitation>
</PubmedArticle>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <Article PubModel="Print">
      <ArticleTitle>Orphan record.</ArticleTitle>
    </Article>
  </MedlineCitation>
</PubmedArticle>
</PubmedArticleSet>`

func esearchJSON(ids ...string) string {
	list := ""
	for i, id := range ids {
		if i > 0 {
			list += ","
		}
		list += fmt.Sprintf("%q", id)
	}
	return fmt.Sprintf(`{"header":{"type":"esearch","version":"0.3"},"esearchresult":{"count":"%d","retmax":"%d","retstart":"0","idlist":[%s],"querytranslation":"test"}}`,
		len(ids), len(ids), list)
}

// testConfig points a client at ts with fast pacing and retries.
func testConfig(baseURL string) types.PubMedConfig {
	return types.PubMedConfig{
		BaseURL:           baseURL,
		RequestsPerSecond: 1000,
		Retry:             types.RetryConfig{Attempts: 3, Delay: time.Millisecond},
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}
