// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// FetchDetails pulls the efetch records for ids, BatchSize PMIDs per
// request, and converts each PubmedArticle into a PaperRecord.
//
// Records that cannot be converted are reported as *ParseError and skipped.
// A failed request aborts the whole fetch with a *NetworkError.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]types.PaperRecord, []*ParseError, error) {
	var (
		records   []types.PaperRecord
		parseErrs []*ParseError
	)

	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(ids))
		batch := ids[start:end]

		params := url.Values{
			"id":      {strings.Join(batch, ",")},
			"retmode": {"xml"},
		}
		body, err := c.get(ctx, "efetch", params)
		if err != nil {
			return nil, nil, err
		}

		recs, errs := parseArticleSet(body, c.log)
		records = append(records, recs...)
		parseErrs = append(parseErrs, errs...)

		c.log.Debug("batch fetched",
			zap.Int("requested", len(batch)),
			zap.Int("parsed", len(recs)),
			zap.Int("skipped", len(errs)))
	}

	return records, parseErrs, nil
}

// parseArticleSet walks an efetch PubmedArticleSet document one article at
// a time so a bad record costs only that record. A syntax error in the
// stream ends the walk; what was parsed before it is kept.
func parseArticleSet(body []byte, log *zap.Logger) ([]types.PaperRecord, []*ParseError) {
	var (
		records []types.PaperRecord
		errs    []*ParseError
	)

	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, &ParseError{Err: errors.Wrap(err, "reading efetch XML")})
			break
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "PubmedArticle":
			var a pubmedArticle
			if err := dec.DecodeElement(&a, &se); err != nil {
				errs = append(errs, &ParseError{Err: errors.Wrap(err, "decoding PubmedArticle")})
				return records, errs
			}
			rec, err := a.record()
			if err != nil {
				errs = append(errs, &ParseError{ID: strings.TrimSpace(a.Citation.PMID), Err: err})
				continue
			}
			records = append(records, rec)
		case "PubmedBookArticle":
			log.Debug("skipping book record")
			if err := dec.Skip(); err != nil {
				errs = append(errs, &ParseError{Err: errors.Wrap(err, "skipping PubmedBookArticle")})
				return records, errs
			}
		}
	}

	return records, errs
}

// PubMed efetch XML structures. Only the fields the export needs are mapped.
type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string  `xml:"PMID"`
	Article article `xml:"Article"`
}

type article struct {
	Journal      journal       `xml:"Journal"`
	Title        markup        `xml:"ArticleTitle"`
	Authors      []author      `xml:"AuthorList>Author"`
	ArticleDates []articleDate `xml:"ArticleDate"`
}

type journal struct {
	PubDate pubDate `xml:"JournalIssue>PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type articleDate struct {
	Year string `xml:"Year"`
}

type author struct {
	LastName       string            `xml:"LastName"`
	ForeName       string            `xml:"ForeName"`
	CollectiveName markup            `xml:"CollectiveName"`
	Affiliations   []affiliationInfo `xml:"AffiliationInfo"`
}

type affiliationInfo struct {
	Affiliation markup `xml:"Affiliation"`
	Email       string `xml:"Email"`
}

// record converts the article into a PaperRecord. Only a missing PMID is
// an error; every other absent field is left empty.
func (a pubmedArticle) record() (types.PaperRecord, error) {
	pmid := strings.TrimSpace(a.Citation.PMID)
	if pmid == "" {
		return types.PaperRecord{}, errors.New("record has no PMID")
	}

	art := a.Citation.Article
	rec := types.PaperRecord{
		ID:              pmid,
		Title:           art.Title.Text(),
		PublicationDate: art.publicationDate(),
	}

	for _, au := range art.Authors {
		if name := au.fullName(); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
		if aff := au.firstAffiliation(); aff != "" {
			rec.Affiliations = append(rec.Affiliations, aff)
		}
	}
	rec.CorrespondingEmail = art.correspondingEmail()

	return rec, nil
}

// publicationDate prefers the issue year, then the free-form MedlineDate,
// then the electronic publication year.
func (a article) publicationDate() string {
	if y := strings.TrimSpace(a.Journal.PubDate.Year); y != "" {
		return y
	}
	if d := strings.TrimSpace(a.Journal.PubDate.MedlineDate); d != "" {
		return d
	}
	for _, d := range a.ArticleDates {
		if y := strings.TrimSpace(d.Year); y != "" {
			return y
		}
	}
	return ""
}

// correspondingEmail returns the first explicit Email element, else the
// first address embedded in any affiliation text.
func (a article) correspondingEmail() string {
	for _, au := range a.Authors {
		for _, ai := range au.Affiliations {
			if e := strings.TrimSpace(ai.Email); e != "" {
				return e
			}
		}
	}
	for _, au := range a.Authors {
		for _, ai := range au.Affiliations {
			if e := findEmail(ai.Affiliation.Text()); e != "" {
				return e
			}
		}
	}
	return ""
}

func (au author) fullName() string {
	if c := au.CollectiveName.Text(); c != "" {
		return c
	}
	last := strings.TrimSpace(au.LastName)
	fore := strings.TrimSpace(au.ForeName)
	if last != "" && fore != "" {
		return fore + " " + last
	}
	return last
}

func (au author) firstAffiliation() string {
	for _, ai := range au.Affiliations {
		if t := ai.Affiliation.Text(); t != "" {
			return t
		}
	}
	return ""
}
