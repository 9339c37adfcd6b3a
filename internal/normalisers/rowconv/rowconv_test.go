package rowconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name     string
		val      any
		def      int
		expected int
	}{
		{name: "plain integer string", val: "42", def: 0, expected: 42},
		{name: "float formatted count", val: "12.0", def: 0, expected: 12},
		{name: "native int", val: 7, def: 0, expected: 7},
		{name: "native float", val: 3.0, def: 0, expected: 3},
		{name: "empty string", val: "", def: 5, expected: 5},
		{name: "whitespace", val: "  ", def: 5, expected: 5},
		{name: "garbage", val: "n/a", def: 0, expected: 0},
		{name: "nil", val: nil, def: 9, expected: 9},
		{name: "negative", val: "-3", def: 0, expected: -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Int(tc.val, tc.def))
		})
	}
}

func TestFloat(t *testing.T) {
	f := Float("1.5")
	require.NotNil(t, f)
	assert.Equal(t, 1.5, *f)

	assert.Nil(t, Float(""))
	assert.Nil(t, Float("abc"))
	assert.Nil(t, Float(nil))
}

func TestCoordinate_Rounding(t *testing.T) {
	c := Coordinate("-122.08401234567891")
	require.NotNil(t, c)
	assert.Equal(t, -122.0840123457, *c)
}

func TestCoordinate_ZeroIsMissing(t *testing.T) {
	assert.Nil(t, Coordinate("0.0"))
	assert.Nil(t, Coordinate("0"))
	assert.Nil(t, Coordinate(""))
	assert.Nil(t, Coordinate("not a number"))
}

func TestCoordinate_Passthrough(t *testing.T) {
	c := Coordinate("35.4437")
	require.NotNil(t, c)
	assert.Equal(t, 35.4437, *c)
}

func TestString(t *testing.T) {
	assert.Equal(t, "hello", String("  hello "))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "", String(42))
}

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"positiveIncrease", "positive_increase"},
		{"totalTestResults", "total_test_results"},
		{"dateChecked", "date_checked"},
		{"state", "state"},
		{"FIPS", "fips"},
		{"hospitalizedICU", "hospitalized_icu"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, CamelToSnake(tc.in))
		})
	}
}

func TestParseTime(t *testing.T) {
	got, ok := ParseTime("20200301", "20060102")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseTime("3/21/2020 10:13", "2006-01-02T15:04:05", "1/2/2006 15:04")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 3, 21, 10, 13, 0, 0, time.UTC), got)

	_, ok = ParseTime("not a date", "2006-01-02")
	assert.False(t, ok)

	_, ok = ParseTime("", "2006-01-02")
	assert.False(t, ok)
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2020, 3, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "2020-03-01T12:30:45Z", FormatISO(ts))
}

func TestDateOf(t *testing.T) {
	assert.Equal(t, "2020-03-01", DateOf("2020-03-01T12:30:45Z"))
	assert.Equal(t, "short", DateOf("short"))
}
