package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreams_Registry(t *testing.T) {
	streams := Streams()
	require.Len(t, streams, 16)

	names := make(map[string]bool, len(streams))
	for _, s := range streams {
		names[s.Name] = true

		assert.NotEmpty(t, s.SearchPath, "stream %s has no search path", s.Name)
		assert.True(t, strings.HasPrefix(s.SearchPath, "search/code?q="), "stream %s", s.Name)
		assert.Equal(t, "items", s.DataKey)
		assert.Equal(t, []string{"path"}, s.KeyProperties)
		assert.Equal(t, ReplicationIncremental, s.ReplicationMethod)
		assert.Equal(t, "last_modified", s.BookmarkField())
		assert.Equal(t, "If-Modified-Since", s.BookmarkQueryField)
		require.NotEmpty(t, s.Children, "stream %s has no row stream", s.Name)
		for _, c := range s.Children {
			assert.Equal(t, ReplicationFullTable, c.ReplicationMethod)
			assert.NotEmpty(t, c.KeyProperties)
		}
	}
	assert.Len(t, names, 16, "duplicate stream names")
}

func TestStreams_DeclaredOrder(t *testing.T) {
	streams := Streams()
	assert.Equal(t, "c19_trk_us_daily_files", streams[0].Name)
	assert.Equal(t, "neherlab_population_files", streams[len(streams)-1].Name)
}

func TestStreams_TabDelimited(t *testing.T) {
	s, ok := StreamByName("neherlab_case_counts_files")
	require.True(t, ok)
	assert.Equal(t, '\t', s.Delimiter())
	assert.Equal(t, 3, s.SkipHeaderRows)

	s, ok = StreamByName("neherlab_population_files")
	require.True(t, ok)
	assert.Equal(t, '\t', s.Delimiter())
	assert.Zero(t, s.SkipHeaderRows)
}

func TestStreams_DefaultDelimiter(t *testing.T) {
	s, ok := StreamByName("jh_csse_daily_files")
	require.True(t, ok)
	assert.Equal(t, ',', s.Delimiter())
	assert.Zero(t, s.SkipHeaderRows)
}

func TestStreams_ChildKeyProperties(t *testing.T) {
	jh, ok := StreamByName("jh_csse_daily_files")
	require.True(t, ok)
	require.Len(t, jh.Children, 1)
	assert.Equal(t, "jh_csse_daily", jh.Children[0].Name)
	assert.Equal(t, []string{"date", "row_number"}, jh.Children[0].KeyProperties)

	eu, ok := StreamByName("eu_daily_files")
	require.True(t, ok)
	assert.Equal(t, []string{"git_file_name", "row_number"}, eu.Children[0].KeyProperties)

	ny, ok := StreamByName("nytimes_us_states_files")
	require.True(t, ok)
	assert.Equal(t, []string{"row_number"}, ny.Children[0].KeyProperties)
}

func TestStreamByName_Unknown(t *testing.T) {
	_, ok := StreamByName("no_such_stream")
	assert.False(t, ok)
}

func TestFlattenStreams(t *testing.T) {
	flat := FlattenStreams()
	require.Len(t, flat, 32)

	parent := flat["jh_csse_daily_files"]
	assert.Equal(t, ReplicationIncremental, parent.ReplicationMethod)
	assert.Equal(t, []string{"last_modified"}, parent.ReplicationKeys)

	child := flat["jh_csse_daily"]
	assert.Equal(t, ReplicationFullTable, child.ReplicationMethod)
	assert.Empty(t, child.ReplicationKeys)
}

func TestStreams_SearchPathsTargetKnownRepos(t *testing.T) {
	repos := []string{
		"COVID19Tracking/covid-tracking-data",
		"COVID19Tracking/associated-data",
		"covid19-eu-zh/covid19-eu-data",
		"CSSEGISandData/COVID-19",
		"nytimes/covid-19-data",
		"neherlab/covid19_scenarios_data",
	}

	for _, s := range Streams() {
		found := false
		for _, repo := range repos {
			if strings.Contains(s.SearchPath, "repo:"+repo) {
				found = true
				break
			}
		}
		assert.True(t, found, "stream %s targets an unexpected repo: %s", s.Name, s.SearchPath)
	}
}
