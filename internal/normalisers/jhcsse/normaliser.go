// Package jhcsse normalises rows from the Johns Hopkins CSSE daily
// report files. The source's header spellings changed twice over its
// history; each logical field is resolved through all known spellings.
package jhcsse

import (
	"strings"
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/geo"
	"github.com/replikit/tap-covid19/internal/normalisers/rowconv"
)

// Ensure Normaliser implements the interface.
var _ driven.RowNormaliser = (*Normaliser)(nil)

// Header key variations for each field. Earlier report revisions used
// slash-separated spellings; later ones use underscores.
var (
	provinceStateKeys = []string{"Province/State", "Province_State"}
	countryRegionKeys = []string{"Country/Region", "Country_Region"}
	lastUpdateKeys    = []string{"Last Update", "Last_Update"}
	latitudeKeys      = []string{"Latitude", "Lat"}
	longitudeKeys     = []string{"Longitude", "Long_"}
)

// fileNameLayout is the date encoded in each report's file name.
const fileNameLayout = "01-02-2006"

// lastUpdateLayouts are the two timestamp formats observed in the
// Last Update column.
var lastUpdateLayouts = []string{"2006-01-02T15:04:05", "1/2/2006 15:04"}

// Normaliser maps jh_csse_daily rows to their canonical shape.
type Normaliser struct{}

// New creates the normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Streams returns the row streams this normaliser handles.
func (n *Normaliser) Streams() []string {
	return []string{"jh_csse_daily"}
}

// Normalise builds the canonical record. The authoritative date is not
// a row column: it is parsed from the source file's name. Files whose
// names do not parse as dates are non-canonical duplicates, so their
// rows are dropped.
func (n *Normaliser) Normalise(_ string, row domain.RawRow) (domain.Record, error) {
	fileName := row.String(domain.FieldGitFileName)
	if fileName == "" {
		return nil, domain.ErrMissingFileName
	}

	dateStr := strings.TrimSuffix(strings.ToLower(fileName), ".csv")
	fileTime, err := time.ParseInLocation(fileNameLayout, dateStr, time.UTC)
	if err != nil {
		return nil, nil
	}
	fileISO := rowconv.FormatISO(fileTime)

	rec := domain.Record{
		domain.FieldGitPath:         row[domain.FieldGitPath],
		domain.FieldGitSHA:          row[domain.FieldGitSHA],
		domain.FieldGitLastModified: row[domain.FieldGitLastModified],
		domain.FieldGitFileName:     fileName,
		domain.FieldRowNumber:       row[domain.FieldRowNumber],
		"date":                      rowconv.DateOf(fileISO),
		"datetime":                  fileISO,
	}

	isACruise := false
	var county any

	for rawKey, rawVal := range row {
		key := strings.TrimSpace(rawKey)
		val := rowconv.String(rawVal)

		switch {
		case matches(key, provinceStateKeys):
			state, c, cruise := cleanProvinceState(val)
			rec["province_state"] = state
			county = c
			if cruise {
				isACruise = true
			}

		case matches(key, countryRegionKeys):
			country := geo.CanonicalCountry(val)
			if country == val {
				country = stripPunctuation(val)
			}
			if geo.IsCruise(val) {
				isACruise = true
			}
			rec["country_region"] = country

		case matches(key, lastUpdateKeys):
			if t, ok := rowconv.ParseTime(val, lastUpdateLayouts...); ok {
				rec["last_update"] = rowconv.FormatISO(t)
			} else {
				rec["last_update"] = val
			}

		case key == "Confirmed":
			rec["confirmed"] = rowconv.Int(rawVal, 0)
		case key == "Deaths":
			rec["deaths"] = rowconv.Int(rawVal, 0)
		case key == "Recovered":
			rec["recovered"] = rowconv.Int(rawVal, 0)
		case key == "Active":
			rec["active"] = rowconv.Int(rawVal, 0)

		case matches(key, latitudeKeys):
			rec["latitude"] = coordOrNil(rawVal)
		case matches(key, longitudeKeys):
			rec["longitude"] = coordOrNil(rawVal)

		case key == "Combined_Key":
			rec["combined_key"] = val
		case key == "FIPS":
			rec["fips"] = val
		case key == "Admin2":
			rec["admin_area"] = val
		}
	}

	rec["county"] = county
	rec["is_a_cruise"] = isACruise
	if s, ok := rec["province_state"].(string); !ok || s == "" {
		rec["province_state"] = "None"
	}

	return rec, nil
}

// cleanProvinceState expands state codes to full names, extracts a
// county from comma-qualified values, and flags cruise records.
// Empty input yields the literal "None".
func cleanProvinceState(val string) (state string, county any, cruise bool) {
	if val == "" {
		return "None", nil, false
	}

	parts := strings.Split(val, ",")
	cleaned := val
	if len(parts) == 1 {
		if name, ok := geo.StateName(val); ok {
			cleaned = name
		}
	} else {
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if strings.Contains(strings.ToLower(part), "county") {
				c := strings.TrimSpace(strings.NewReplacer("County", "", "county", "").Replace(part))
				county = c
			}
			cleaned = part
			if name, ok := geo.StateName(part); ok {
				cleaned = name
			}
		}
	}

	if geo.IsCruise(cleaned) {
		cruise = true
	}
	if cleaned == "" {
		cleaned = "None"
	}
	return cleaned, county, cruise
}

func matches(key string, candidates []string) bool {
	for _, c := range candidates {
		if key == c {
			return true
		}
	}
	return false
}

func coordOrNil(val any) any {
	if f := rowconv.Coordinate(val); f != nil {
		return *f
	}
	return nil
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			return -1
		}
		return r
	}, s)
}
