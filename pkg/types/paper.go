// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord holds the metadata exported for one PubMed article.
type PaperRecord struct {
	// ID is the PubMed identifier (PMID).
	ID string `json:"id" yaml:"id"`

	Title string `json:"title" yaml:"title"`

	// PublicationDate is the journal issue date as PubMed reports it: a
	// year, or a free-form MedlineDate such as "2019 Nov-Dec".
	PublicationDate string `json:"date" yaml:"date"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations holds the first affiliation of each author that has one,
	// in author order.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// CorrespondingEmail is empty when the record carries no address.
	CorrespondingEmail string `json:"corresponding_email" yaml:"corresponding_email"`

	// CompanyAffiliations is the subset of Affiliations classified as
	// non-academic. Empty unless company filtering was requested.
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`
}
