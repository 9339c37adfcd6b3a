// Package eudaily normalises rows from the covid19-eu-zh daily country
// files. The source's column convention is camelCase; keys are
// converted deterministically to snake_case.
package eudaily

import (
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/geo"
	"github.com/replikit/tap-covid19/internal/normalisers/rowconv"
)

// Ensure Normaliser implements the interface.
var _ driven.RowNormaliser = (*Normaliser)(nil)

// countColumns are coerced to integers, defaulting to 0.
var countColumns = map[string]bool{
	"cases":          true,
	"deaths":         true,
	"recovered":      true,
	"hospitalized":   true,
	"intensive_care": true,
	"tests":          true,
	"quarantine":     true,
	"cases_lower":    true,
	"cases_upper":    true,
	"population":     true,
}

// datetimeLayouts are the timestamp formats observed in the source's
// datetime column.
var datetimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02", time.RFC3339}

// Normaliser maps eu_daily rows to their canonical shape.
type Normaliser struct{}

// New creates the normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Streams returns the row streams this normaliser handles.
func (n *Normaliser) Streams() []string {
	return []string{"eu_daily"}
}

// Normalise snake-cases every column, canonicalises the country
// through the alias table, coerces counts defensively, and derives a
// date field from the datetime column.
func (n *Normaliser) Normalise(_ string, row domain.RawRow) (domain.Record, error) {
	rec := domain.Record{
		domain.FieldGitPath:         row[domain.FieldGitPath],
		domain.FieldGitSHA:          row[domain.FieldGitSHA],
		domain.FieldGitLastModified: row[domain.FieldGitLastModified],
		domain.FieldGitFileName:     row[domain.FieldGitFileName],
		domain.FieldRowNumber:       row[domain.FieldRowNumber],
	}

	for rawKey, rawVal := range row {
		if domain.IsProvenanceField(rawKey) {
			continue
		}
		key := rowconv.CamelToSnake(rawKey)
		val := rowconv.String(rawVal)

		switch {
		case key == "country":
			rec["country"] = geo.CanonicalCountry(val)
		case key == "datetime":
			if t, ok := rowconv.ParseTime(val, datetimeLayouts...); ok {
				iso := rowconv.FormatISO(t)
				rec["datetime"] = iso
				rec["date"] = rowconv.DateOf(iso)
			} else {
				rec["datetime"] = val
			}
		case countColumns[key]:
			rec[key] = rowconv.Int(rawVal, 0)
		default:
			rec[key] = val
		}
	}

	return rec, nil
}
