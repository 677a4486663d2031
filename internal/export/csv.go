// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns PaperRecords into CSV rows and writes them to a
// stream or a file.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Separator joins multi-valued fields inside a single CSV cell.
const Separator = "; "

var header = [...]string{
	"id",
	"title",
	"date",
	"authors",
	"affiliations",
	"corresponding_email",
	"company_affiliations",
}

// Header returns the fixed column names in output order.
func Header() []string {
	h := header
	return h[:]
}

// AssembleRow maps r onto the Header columns.
func AssembleRow(r types.PaperRecord) []string {
	return []string{
		r.ID,
		r.Title,
		r.PublicationDate,
		strings.Join(r.Authors, Separator),
		strings.Join(r.Affiliations, Separator),
		r.CorrespondingEmail,
		strings.Join(r.CompanyAffiliations, Separator),
	}
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []types.PaperRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, r := range records {
		if err := cw.Write(AssembleRow(r)); err != nil {
			return errors.Wrapf(err, "writing CSV row for %s", r.ID)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flushing CSV")
	}
	return nil
}

// WriteFile writes records as CSV to path, replacing any existing file.
// Output goes to a temporary file in the same directory that is renamed
// into place on success, so a failed write never leaves a partial file.
func WriteFile(path string, records []types.PaperRecord) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file in %s", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WriteCSV(tmp, records); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(err, "setting output permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "moving output into place at %s", path)
	}
	return nil
}
