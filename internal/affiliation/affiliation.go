// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation classifies author affiliation text as academic or
// non-academic (industry). The classifier is a best-effort keyword match
// driven entirely by a Keywords table, so the lists can be reviewed, tested
// and replaced from a YAML file without touching control flow.
package affiliation

import (
	"os"
	"strings"
	"unicode"

	"github.com/Laisky/errors/v2"
	"go.yaml.in/yaml/v3"
)

// Keywords is the data table behind a Classifier. Entries are matched
// case-insensitively as whole words or word sequences, so "inc" matches
// "Acme Inc." but not "Lincoln".
type Keywords struct {
	// Academic markers. Any match classifies the text as academic.
	Academic []string `yaml:"academic"`

	// Company markers, consulted only when RequireCompanySignal is set.
	Company []string `yaml:"company"`

	// RequireCompanySignal makes the classifier demand a company marker in
	// addition to the absence of academic ones. When false, any text with
	// no academic marker counts as non-academic.
	RequireCompanySignal bool `yaml:"require_company_signal"`
}

// DefaultKeywords returns the built-in table.
func DefaultKeywords() Keywords {
	return Keywords{
		Academic: []string{
			"university", "universities", "universidad", "universidade",
			"universita", "università", "universität", "universitat",
			"universite", "université", "universiteit", "universitario",
			"college", "institute", "institutes", "institut", "instituto", "istituto",
			"hospital", "hôpital", "hospitals", "school of medicine",
			"medical school", "school of", "faculty", "academy",
			"center", "centre", "centers", "centres", "foundation",
			"clinic", "clinics",
			"ministry of", "national institutes of health",
		},
		Company: []string{
			"inc", "ltd", "llc", "corp", "corporation", "company",
			"gmbh", "plc", "limited", "co ltd", "pharma",
			"pharmaceutical", "pharmaceuticals", "biotech",
			"biotechnology", "therapeutics", "biosciences",
			"biopharma", "laboratories", "diagnostics",
		},
	}
}

// LoadKeywords reads a YAML keyword table from path. Keys missing from the
// file keep their default values.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	data, err := os.ReadFile(path)
	if err != nil {
		return kw, errors.Wrapf(err, "reading keyword table %s", path)
	}
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return kw, errors.Wrapf(err, "parsing keyword table %s", path)
	}
	if len(kw.Academic) == 0 {
		return kw, errors.Errorf("keyword table %s has no academic markers", path)
	}
	return kw, nil
}

// Classifier decides whether affiliation text is non-academic.
type Classifier struct {
	academic       []string
	company        []string
	requireCompany bool
}

// NewClassifier prepares kw for matching. Blank entries are dropped.
func NewClassifier(kw Keywords) *Classifier {
	return &Classifier{
		academic:       normalizeAll(kw.Academic),
		company:        normalizeAll(kw.Company),
		requireCompany: kw.RequireCompanySignal,
	}
}

// IsCompany reports whether text looks like a non-academic affiliation.
// Empty text is never a company.
func (c *Classifier) IsCompany(text string) bool {
	padded := pad(normalize(text))
	if padded == "" {
		return false
	}
	for _, kw := range c.academic {
		if strings.Contains(padded, kw) {
			return false
		}
	}
	if !c.requireCompany {
		return true
	}
	for _, kw := range c.company {
		if strings.Contains(padded, kw) {
			return true
		}
	}
	return false
}

// CompanyAffiliations returns the entries of affs classified as companies,
// in order and without repeats. The result is always a subset of affs.
func (c *Classifier) CompanyAffiliations(affs []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range affs {
		if seen[a] || !c.IsCompany(a) {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// normalize lowercases s and reduces every run of non-alphanumeric runes
// to a single space.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func pad(s string) string {
	if s == "" {
		return ""
	}
	return " " + s + " "
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if p := pad(normalize(w)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
