// Package geo holds the controlled geographic vocabulary used by the
// row normalisers: US state abbreviations, country aliases, and the
// keyword set identifying cruise-ship passenger records. The tables
// are immutable data; normalisers consume them through lookups only.
package geo

import "strings"

// usStateAbbrev maps full US state and territory names to their
// two-letter codes.
var usStateAbbrev = map[string]string{
	"Alabama":                  "AL",
	"Alaska":                   "AK",
	"American Samoa":           "AS",
	"Arizona":                  "AZ",
	"Arkansas":                 "AR",
	"California":               "CA",
	"Colorado":                 "CO",
	"Connecticut":              "CT",
	"Delaware":                 "DE",
	"District of Columbia":     "DC",
	"Florida":                  "FL",
	"Georgia":                  "GA",
	"Guam":                     "GU",
	"Hawaii":                   "HI",
	"Idaho":                    "ID",
	"Illinois":                 "IL",
	"Indiana":                  "IN",
	"Iowa":                     "IA",
	"Kansas":                   "KS",
	"Kentucky":                 "KY",
	"Louisiana":                "LA",
	"Maine":                    "ME",
	"Maryland":                 "MD",
	"Massachusetts":            "MA",
	"Michigan":                 "MI",
	"Minnesota":                "MN",
	"Mississippi":              "MS",
	"Missouri":                 "MO",
	"Montana":                  "MT",
	"Nebraska":                 "NE",
	"Nevada":                   "NV",
	"New Hampshire":            "NH",
	"New Jersey":               "NJ",
	"New Mexico":               "NM",
	"New York":                 "NY",
	"North Carolina":           "NC",
	"North Dakota":             "ND",
	"Northern Mariana Islands": "MP",
	"Ohio":                     "OH",
	"Oklahoma":                 "OK",
	"Oregon":                   "OR",
	"Pennsylvania":             "PA",
	"Puerto Rico":              "PR",
	"Rhode Island":             "RI",
	"South Carolina":           "SC",
	"South Dakota":             "SD",
	"Tennessee":                "TN",
	"Texas":                    "TX",
	"Utah":                     "UT",
	"Vermont":                  "VT",
	"Virgin Islands":           "VI",
	"Virginia":                 "VA",
	"Washington":               "WA",
	"West Virginia":            "WV",
	"Wisconsin":                "WI",
	"Wyoming":                  "WY",
}

// abbrevUSState is the reverse lookup, built once at init.
var abbrevUSState = func() map[string]string {
	m := make(map[string]string, len(usStateAbbrev))
	for name, code := range usStateAbbrev {
		m[code] = name
	}
	return m
}()

// countryAliases maps source spellings to their canonical country name.
var countryAliases = map[string]string{
	"Korea South":    "South Korea",
	"US":             "United States",
	"USA":            "United States",
	"UK":             "United Kingdom",
	"Mainland China": "China",
}

// cruiseKeywords mark free-text locations as cruise-ship passenger
// records.
var cruiseKeywords = []string{"cruise", "princess", "from"}

// StateName expands a two-letter code to the full state name.
func StateName(abbrev string) (string, bool) {
	name, ok := abbrevUSState[abbrev]
	return name, ok
}

// StateAbbrev returns the two-letter code for a full state name.
func StateAbbrev(name string) (string, bool) {
	code, ok := usStateAbbrev[name]
	return code, ok
}

// CanonicalState maps either a code or a full name to the canonical
// token (the full name). Unknown inputs pass through trimmed.
func CanonicalState(s string) string {
	s = strings.TrimSpace(s)
	if name, ok := abbrevUSState[s]; ok {
		return name
	}
	if _, ok := usStateAbbrev[s]; ok {
		return s
	}
	return s
}

// CanonicalCountry resolves a country name through the alias table.
func CanonicalCountry(s string) string {
	s = strings.TrimSpace(s)
	if alias, ok := countryAliases[s]; ok {
		return alias
	}
	return s
}

// IsCruise reports whether a location value refers to cruise-ship
// passengers rather than a geographic area.
func IsCruise(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range cruiseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
