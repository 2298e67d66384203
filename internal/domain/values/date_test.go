package values_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func TestParseDate(t *testing.T) {
	d, err := values.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = values.ParseDate("2024-13-01")
	require.Error(t, err)

	_, err = values.ParseDate("not a date")
	require.Error(t, err)
}

func TestDate_Arithmetic(t *testing.T) {
	d := values.MustParseDate("2022-12-30")

	assert.Equal(t, "2023-01-02", d.AddDays(3).String())
	assert.Equal(t, "2022-12-27", d.AddDays(-3).String())
	assert.Equal(t, 367, d.DaysUntil(values.MustParseDate("2024-01-01")))
	assert.Equal(t, 0, d.DaysUntil(d))
}

func TestDate_Ordering(t *testing.T) {
	a := values.MustParseDate("2023-05-01")
	b := values.MustParseDate("2023-05-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(values.MustParseDate("2023-05-01")))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := values.MustParseDate("2025-06-30")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-30"`, string(data))

	var back values.Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))

	var bad values.Date
	assert.Error(t, json.Unmarshal([]byte(`"06/30/2025"`), &bad))
}
