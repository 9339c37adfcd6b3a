package domain

// ReplicationMethod determines how a stream's records are delivered
// across successive runs.
type ReplicationMethod string

const (
	// ReplicationIncremental delivers only records at or after the
	// persisted bookmark.
	ReplicationIncremental ReplicationMethod = "INCREMENTAL"

	// ReplicationFullTable re-delivers the whole corpus each run.
	ReplicationFullTable ReplicationMethod = "FULL_TABLE"
)

// ChildStreamDescriptor configures a row-level stream nested under a
// file-level stream. Child streams are always FULL_TABLE and versioned:
// each run re-derives the corpus and brackets it with activate-version
// messages.
type ChildStreamDescriptor struct {
	Name              string
	KeyProperties     []string
	ReplicationMethod ReplicationMethod
}

// StreamDescriptor configures one file-level stream: how its files are
// discovered, how their content is parsed, and how replication state is
// tracked. Descriptors are defined once at process start and shared
// read-only by every sync run.
type StreamDescriptor struct {
	Name string

	// SearchPath is the code-search query, relative to the API base URL.
	SearchPath string

	// DataKey is the JSON element containing the result list.
	DataKey string

	KeyProperties     []string
	ReplicationMethod ReplicationMethod

	// ReplicationKeys are the bookmark field names, ordered. The first
	// entry is the one used for filtering and state advancement.
	ReplicationKeys []string

	// BookmarkQueryField, when set, names the conditional-fetch request
	// header derived from the stream's bookmark.
	BookmarkQueryField string

	// CSVDelimiter overrides the comma delimiter for parsed content.
	CSVDelimiter rune

	// SkipHeaderRows drops leading boilerplate lines before the header.
	SkipHeaderRows int

	Children []ChildStreamDescriptor
}

// BookmarkField returns the first replication key, or "" when the
// stream carries no bookmark.
func (s StreamDescriptor) BookmarkField() string {
	if len(s.ReplicationKeys) == 0 {
		return ""
	}
	return s.ReplicationKeys[0]
}

// Delimiter returns the configured delimiter, defaulting to comma.
func (s StreamDescriptor) Delimiter() rune {
	if s.CSVDelimiter == 0 {
		return ','
	}
	return s.CSVDelimiter
}

func fileStream(name, searchPath string, children ...ChildStreamDescriptor) StreamDescriptor {
	return StreamDescriptor{
		Name:               name,
		SearchPath:         searchPath,
		DataKey:            "items",
		KeyProperties:      []string{"path"},
		ReplicationMethod:  ReplicationIncremental,
		ReplicationKeys:    []string{"last_modified"},
		BookmarkQueryField: "If-Modified-Since",
		Children:           children,
	}
}

func rowStream(name string, keys ...string) ChildStreamDescriptor {
	if len(keys) == 0 {
		keys = []string{"row_number"}
	}
	return ChildStreamDescriptor{
		Name:              name,
		KeyProperties:     keys,
		ReplicationMethod: ReplicationFullTable,
	}
}

// Streams returns the replication registry in declared order. Each
// entry pairs a file-discovery query with the row stream(s) parsed out
// of the discovered files.
func Streams() []StreamDescriptor {
	neherlabCaseCounts := fileStream("neherlab_case_counts_files",
		"search/code?q=path:case-counts+extension:tsv+repo:neherlab/covid19_scenarios_data&sort=indexed&order=asc",
		rowStream("neherlab_case_counts", "git_path", "row_number"))
	neherlabCaseCounts.SkipHeaderRows = 3
	neherlabCaseCounts.CSVDelimiter = '\t'

	neherlabPopulation := fileStream("neherlab_population_files",
		"search/code?q=filename:populationData+extension:tsv+repo:neherlab/covid19_scenarios_data&sort=indexed&order=asc",
		rowStream("neherlab_population"))
	neherlabPopulation.CSVDelimiter = '\t'

	return []StreamDescriptor{
		fileStream("c19_trk_us_daily_files",
			"search/code?q=path:data+filename:us_daily+extension:csv+repo:COVID19Tracking/covid-tracking-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_daily")),
		fileStream("c19_trk_us_states_current_files",
			"search/code?q=path:data+filename:states_current+extension:csv+repo:COVID19Tracking/covid-tracking-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_states_current")),
		fileStream("c19_trk_us_states_daily_files",
			"search/code?q=path:data+filename:states_daily_4pm_et+extension:csv+repo:COVID19Tracking/covid-tracking-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_states_daily")),
		fileStream("c19_trk_us_states_info_files",
			"search/code?q=path:data+filename:states_info+extension:csv+repo:COVID19Tracking/covid-tracking-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_states_info")),
		fileStream("c19_trk_us_population_counties_files",
			"search/code?q=path:us_census_data+filename:us_census_2018_population_estimates_counties+extension:csv+repo:COVID19Tracking/associated-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_population_counties")),
		fileStream("c19_trk_us_population_states_age_groups_files",
			"search/code?q=path:us_census_data+filename:us_census_2018_population_estimates_states_agegroups+extension:csv+repo:COVID19Tracking/associated-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_population_states_age_groups")),
		fileStream("c19_trk_us_population_states_files",
			"search/code?q=path:us_census_data+filename:us_census_2018_population_estimates_states+extension:csv+repo:COVID19Tracking/associated-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_population_states")),
		fileStream("c19_trk_us_states_kff_hospital_beds_files",
			"search/code?q=path:kff_hospital_beds+filename:kff_usa_hospital_beds_per_capita_2018+extension:csv+repo:COVID19Tracking/associated-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_states_kff_hospital_beds")),
		fileStream("c19_trk_us_states_acs_health_insurance_files",
			"search/code?q=path:acs_health_insurance+filename:acs_2018_health_insurance_coverage_estimates+extension:csv+repo:COVID19Tracking/associated-data&sort=indexed&order=asc",
			rowStream("c19_trk_us_states_acs_health_insurance")),
		fileStream("eu_daily_files",
			"search/code?q=path:dataset/daily+extension:csv+repo:covid19-eu-zh/covid19-eu-data&sort=indexed&order=asc",
			rowStream("eu_daily", "git_file_name", "row_number")),
		fileStream("jh_csse_daily_files",
			"search/code?q=path:csse_covid_19_data/csse_covid_19_daily_reports+extension:csv+repo:CSSEGISandData/COVID-19&sort=indexed&order=asc",
			rowStream("jh_csse_daily", "date", "row_number")),
		fileStream("nytimes_us_states_files",
			"search/code?q=filename:us-states+extension:csv+repo:nytimes/covid-19-data&sort=indexed&order=asc",
			rowStream("nytimes_us_states")),
		fileStream("nytimes_us_counties_files",
			"search/code?q=filename:us-counties+extension:csv+repo:nytimes/covid-19-data&sort=indexed&order=asc",
			rowStream("nytimes_us_counties")),
		neherlabCaseCounts,
		fileStream("neherlab_country_codes_files",
			"search/code?q=filename:country_codes+extension:csv+repo:neherlab/covid19_scenarios_data&sort=indexed&order=asc",
			rowStream("neherlab_country_codes")),
		neherlabPopulation,
	}
}

// StreamByName looks up a file-level stream descriptor.
func StreamByName(name string) (StreamDescriptor, bool) {
	for _, s := range Streams() {
		if s.Name == name {
			return s, true
		}
	}
	return StreamDescriptor{}, false
}

// FlatStream is a de-nested view of a stream used for catalog
// generation: children appear alongside their parents.
type FlatStream struct {
	KeyProperties     []string
	ReplicationMethod ReplicationMethod
	ReplicationKeys   []string
}

// FlattenStreams de-nests every child under its parent so discovery
// can describe all streams uniformly.
func FlattenStreams() map[string]FlatStream {
	flat := make(map[string]FlatStream)
	for _, s := range Streams() {
		flat[s.Name] = FlatStream{
			KeyProperties:     s.KeyProperties,
			ReplicationMethod: s.ReplicationMethod,
			ReplicationKeys:   s.ReplicationKeys,
		}
		for _, c := range s.Children {
			flat[c.Name] = FlatStream{
				KeyProperties:     c.KeyProperties,
				ReplicationMethod: c.ReplicationMethod,
			}
		}
	}
	return flat
}
