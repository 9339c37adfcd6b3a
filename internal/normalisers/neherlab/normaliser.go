// Package neherlab normalises rows from the neherlab covid19_scenarios
// data files: per-location case counts, the country code table, and
// the population reference table.
package neherlab

import (
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/rowconv"
)

// Ensure Normaliser implements the interface.
var _ driven.RowNormaliser = (*Normaliser)(nil)

// countryCodeRenames is the explicit rename table for the country
// code file's hyphenated headers.
var countryCodeRenames = map[string]string{
	"name":                     "country",
	"alpha-2":                  "abbreviation_2",
	"alpha-3":                  "abbreviation_3",
	"country-code":             "country_code",
	"iso_3166-2":               "iso_3166_2",
	"region":                   "region",
	"sub-region":               "sub_region",
	"intermediate-region":      "intermediate_region",
	"region-code":              "region_code",
	"sub-region-code":          "sub_region_code",
	"intermediate-region-code": "intermediate_region_code",
}

// caseCountColumns are coerced to integers, defaulting to 0.
var caseCountColumns = map[string]bool{
	"cases":        true,
	"deaths":       true,
	"hospitalized": true,
	"icu":          true,
	"recovered":    true,
}

// populationIntColumns are coerced to integers, defaulting to 0.
var populationIntColumns = map[string]bool{
	"population_served":       true,
	"hospital_beds":           true,
	"icu_beds":                true,
	"suspected_cases_mar_1st": true,
}

// Normaliser maps the neherlab row streams to their canonical shape.
type Normaliser struct{}

// New creates the normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Streams returns the row streams this normaliser handles.
func (n *Normaliser) Streams() []string {
	return []string{"neherlab_case_counts", "neherlab_country_codes", "neherlab_population"}
}

// Normalise dispatches on the stream: case counts get ISO time fields
// and integer coercion, country codes go through the rename table, and
// population rows are snake-cased with typed numeric fields.
func (n *Normaliser) Normalise(stream string, row domain.RawRow) (domain.Record, error) {
	rec := domain.Record{
		domain.FieldGitPath:         row[domain.FieldGitPath],
		domain.FieldGitSHA:          row[domain.FieldGitSHA],
		domain.FieldGitLastModified: row[domain.FieldGitLastModified],
		domain.FieldGitFileName:     row[domain.FieldGitFileName],
		domain.FieldRowNumber:       row[domain.FieldRowNumber],
	}

	switch stream {
	case "neherlab_case_counts":
		n.normaliseCaseCounts(row, rec)
	case "neherlab_country_codes":
		n.normaliseCountryCodes(row, rec)
	case "neherlab_population":
		n.normalisePopulation(row, rec)
	}
	return rec, nil
}

func (n *Normaliser) normaliseCaseCounts(row domain.RawRow, rec domain.Record) {
	for key, rawVal := range row {
		if domain.IsProvenanceField(key) {
			continue
		}
		val := rowconv.String(rawVal)

		switch {
		case key == "time":
			if t, ok := rowconv.ParseTime(val, "2006-01-02", time.RFC3339, "2006-01-02T15:04:05"); ok {
				iso := rowconv.FormatISO(t)
				rec["date"] = rowconv.DateOf(iso)
				rec["datetime"] = iso
			} else {
				rec["date"] = val
			}
		case caseCountColumns[key]:
			rec[key] = rowconv.Int(rawVal, 0)
		case key == "location":
			rec["location"] = val
		default:
			rec[rowconv.CamelToSnake(key)] = val
		}
	}
}

func (n *Normaliser) normaliseCountryCodes(row domain.RawRow, rec domain.Record) {
	for key, rawVal := range row {
		if domain.IsProvenanceField(key) {
			continue
		}
		renamed, ok := countryCodeRenames[key]
		if !ok {
			renamed = rowconv.CamelToSnake(key)
		}
		rec[renamed] = rowconv.String(rawVal)
	}
}

func (n *Normaliser) normalisePopulation(row domain.RawRow, rec domain.Record) {
	for rawKey, rawVal := range row {
		if domain.IsProvenanceField(rawKey) {
			continue
		}
		key := rowconv.CamelToSnake(rawKey)

		switch {
		case populationIntColumns[key]:
			rec[key] = rowconv.Int(rawVal, 0)
		case key == "imports_per_day":
			if f := rowconv.Float(rawVal); f != nil {
				rec[key] = *f
			} else {
				rec[key] = nil
			}
		default:
			rec[key] = rowconv.String(rawVal)
		}
	}
}
