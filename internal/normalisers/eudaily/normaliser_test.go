package eudaily

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

func baseRow() domain.RawRow {
	return domain.RawRow{
		domain.FieldGitPath:         "dataset/daily/at-2020-03-25.csv",
		domain.FieldGitSHA:          "abc123",
		domain.FieldGitLastModified: "2020-03-25T18:00:00Z",
		domain.FieldGitFileName:     "at-2020-03-25.csv",
		domain.FieldRowNumber:       2,
	}
}

func TestNormalise(t *testing.T) {
	normaliser := New()

	row := baseRow()
	row["country"] = "UK"
	row["datetime"] = "2020-03-25 15:00:00"
	row["cases"] = "5018"
	row["deaths"] = "30"
	row["tests"] = ""
	row["nuts_2"] = "Wien"

	rec, err := normaliser.Normalise("eu_daily", row)
	require.NoError(t, err)

	assert.Equal(t, "United Kingdom", rec["country"])
	assert.Equal(t, "2020-03-25T15:00:00Z", rec["datetime"])
	assert.Equal(t, "2020-03-25", rec["date"])
	assert.Equal(t, 5018, rec["cases"])
	assert.Equal(t, 30, rec["deaths"])
	assert.Equal(t, 0, rec["tests"])
	assert.Equal(t, "Wien", rec["nuts_2"])
	assert.Equal(t, 2, rec[domain.FieldRowNumber])
}

func TestNormalise_CamelCaseColumns(t *testing.T) {
	normaliser := New()

	row := baseRow()
	row["intensiveCare"] = "96"
	row["lau"] = "Vienna"

	rec, err := normaliser.Normalise("eu_daily", row)
	require.NoError(t, err)

	assert.Equal(t, 96, rec["intensive_care"])
	assert.Equal(t, "Vienna", rec["lau"])
}

func TestNormalise_DateOnlyDatetime(t *testing.T) {
	normaliser := New()

	row := baseRow()
	row["datetime"] = "2020-03-25"

	rec, err := normaliser.Normalise("eu_daily", row)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-25T00:00:00Z", rec["datetime"])
	assert.Equal(t, "2020-03-25", rec["date"])
}

func TestNormalise_UnparseableDatetimePassesThrough(t *testing.T) {
	normaliser := New()

	row := baseRow()
	row["datetime"] = "mid-march"

	rec, err := normaliser.Normalise("eu_daily", row)
	require.NoError(t, err)
	assert.Equal(t, "mid-march", rec["datetime"])
	assert.NotContains(t, rec, "date")
}
