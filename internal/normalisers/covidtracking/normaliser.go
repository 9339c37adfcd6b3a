// Package covidtracking normalises rows from the COVID Tracking
// Project files: the dated US/state report series plus the associated
// census, hospital-bed, and insurance reference tables.
package covidtracking

import (
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/geo"
	"github.com/replikit/tap-covid19/internal/normalisers/rowconv"
)

// Ensure Normaliser implements the interface.
var _ driven.RowNormaliser = (*Normaliser)(nil)

// datedStreams carry a YYYYMMDD date column that becomes the
// canonical date/datetime pair.
var datedStreams = map[string]bool{
	"c19_trk_us_daily":          true,
	"c19_trk_us_states_current": true,
	"c19_trk_us_states_daily":   true,
}

// countColumns are coerced to integers, defaulting to 0.
var countColumns = map[string]bool{
	"positive":           true,
	"negative":           true,
	"pending":            true,
	"hospitalized":       true,
	"death":              true,
	"recovered":          true,
	"total":              true,
	"total_test_results": true,
	"pos_neg":            true,
	"population":         true,
	"beds_total":         true,
}

// Normaliser maps c19_trk_* rows to their canonical shape.
type Normaliser struct{}

// New creates the normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Streams returns the row streams this normaliser handles.
func (n *Normaliser) Streams() []string {
	return []string{
		"c19_trk_us_daily",
		"c19_trk_us_states_current",
		"c19_trk_us_states_daily",
		"c19_trk_us_states_info",
		"c19_trk_us_population_counties",
		"c19_trk_us_population_states_age_groups",
		"c19_trk_us_population_states",
		"c19_trk_us_states_kff_hospital_beds",
		"c19_trk_us_states_acs_health_insurance",
	}
}

// Normalise snake-cases the source's camelCase column names, coerces
// count columns defensively, and, for the dated report series,
// rewrites the YYYYMMDD date column as ISO date and datetime fields.
func (n *Normaliser) Normalise(stream string, row domain.RawRow) (domain.Record, error) {
	rec := domain.Record{
		domain.FieldGitPath:         row[domain.FieldGitPath],
		domain.FieldGitSHA:          row[domain.FieldGitSHA],
		domain.FieldGitLastModified: row[domain.FieldGitLastModified],
		domain.FieldGitFileName:     row[domain.FieldGitFileName],
		domain.FieldRowNumber:       row[domain.FieldRowNumber],
	}

	dated := datedStreams[stream]

	for rawKey, rawVal := range row {
		if domain.IsProvenanceField(rawKey) {
			continue
		}
		key := rowconv.CamelToSnake(rawKey)
		val := rowconv.String(rawVal)

		switch {
		case dated && key == "date":
			if t, ok := rowconv.ParseTime(val, "20060102"); ok {
				iso := rowconv.FormatISO(t)
				rec["date"] = rowconv.DateOf(iso)
				rec["datetime"] = iso
			} else {
				rec["date"] = val
			}
		case key == "date_checked" || key == "last_update_et":
			if t, ok := rowconv.ParseTime(val, time.RFC3339, "1/2/2006 15:04"); ok {
				rec[key] = rowconv.FormatISO(t)
			} else {
				rec[key] = val
			}
		case key == "state":
			rec["state"] = val
			rec["state_name"] = geo.CanonicalState(val)
		case countColumns[key]:
			rec[key] = rowconv.Int(rawVal, 0)
		default:
			rec[key] = val
		}
	}

	return rec, nil
}
