// Package nytimes normalises rows from the New York Times US state
// and county case files.
package nytimes

import (
	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/geo"
	"github.com/replikit/tap-covid19/internal/normalisers/rowconv"
)

// Ensure Normaliser implements the interface.
var _ driven.RowNormaliser = (*Normaliser)(nil)

// Normaliser maps nytimes_us_states and nytimes_us_counties rows to
// their canonical shape.
type Normaliser struct{}

// New creates the normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Streams returns the row streams this normaliser handles.
func (n *Normaliser) Streams() []string {
	return []string{"nytimes_us_states", "nytimes_us_counties"}
}

// Normalise rewrites the date column as an ISO date/datetime pair,
// coerces the case and death counts, and canonicalises the state
// through the shared vocabulary, so codes and full names converge on
// one token.
func (n *Normaliser) Normalise(_ string, row domain.RawRow) (domain.Record, error) {
	rec := domain.Record{
		domain.FieldGitPath:         row[domain.FieldGitPath],
		domain.FieldGitSHA:          row[domain.FieldGitSHA],
		domain.FieldGitLastModified: row[domain.FieldGitLastModified],
		domain.FieldGitFileName:     row[domain.FieldGitFileName],
		domain.FieldRowNumber:       row[domain.FieldRowNumber],
	}

	for key, rawVal := range row {
		if domain.IsProvenanceField(key) {
			continue
		}
		val := rowconv.String(rawVal)

		switch key {
		case "date":
			if t, ok := rowconv.ParseTime(val, "2006-01-02"); ok {
				iso := rowconv.FormatISO(t)
				rec["date"] = rowconv.DateOf(iso)
				rec["datetime"] = iso
			} else {
				rec["date"] = val
			}
		case "state":
			rec["state"] = geo.CanonicalState(val)
		case "cases":
			rec["cases"] = rowconv.Int(rawVal, 0)
		case "deaths":
			rec["deaths"] = rowconv.Int(rawVal, 0)
		case "fips":
			rec["fips"] = val
		case "county":
			rec["county"] = val
		default:
			rec[key] = val
		}
	}

	return rec, nil
}
