// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markup captures an element's raw inner XML. PubMed titles and
// affiliations may carry inline formatting (<i>, <sup>, <sub>, MathML),
// which a plain string field would silently drop along with its text.
type markup struct {
	Inner string `xml:",innerxml"`
}

// Text returns the element's text with inline tags removed, entities
// decoded and runs of whitespace collapsed.
func (m markup) Text() string {
	if !strings.ContainsAny(m.Inner, "<&") {
		return collapseSpace(m.Inner)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(m.Inner))
	if err != nil {
		return collapseSpace(m.Inner)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

// findEmail returns the first email address in s, or "".
func findEmail(s string) string {
	return emailPattern.FindString(s)
}
