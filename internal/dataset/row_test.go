package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FullRecord(t *testing.T) {
	raw := []map[string]any{
		{
			"timestampUTC": "2024-03-01T10:00:00Z",
			"total":        120.5,
			"metered":      80.0,
			"profiled":     30.5,
			"flex":         10.0,
		},
	}

	rows, err := Normalize(Consumption, "FI", raw)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), row.Time)
	assert.Equal(t, "FI", row.Area)
	assert.Nil(t, row.Group)

	total := row.Values["total"].(*float64)
	require.NotNil(t, total)
	assert.Equal(t, 120.5, *total)
	flex := row.Values["flex"].(*float64)
	require.NotNil(t, flex)
	assert.Equal(t, 10.0, *flex)
}

func TestNormalize_AbsentValuesBecomeNil(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": "2024-03-01T10:00:00Z", "total": 50.0},
	}

	rows, err := Normalize(Consumption, "SE1", raw)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].Values["metered"].(*float64))
	assert.Nil(t, rows[0].Values["profiled"].(*float64))
	assert.Nil(t, rows[0].Values["flex"].(*float64))
}

func TestNormalize_MissingTimestampFailsBatch(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": "2024-03-01T10:00:00Z", "total": 1.0},
		{"total": 2.0},
	}

	rows, err := Normalize(Consumption, "SE1", raw)
	assert.Error(t, err)
	assert.Nil(t, rows)
}

func TestNormalize_NonStringTimestampFailsBatch(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": 1709287200.0},
	}

	_, err := Normalize(Production, "NO1", raw)
	assert.Error(t, err)
}

func TestNormalize_MalformedTimestampFailsBatch(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": "03/01/2024 10:00"},
	}

	_, err := Normalize(Production, "NO1", raw)
	assert.Error(t, err)
}

func TestNormalize_GroupCode(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": "2024-03-01T10:00:00Z", "mgaCode": "MGA1", "mgaName": "Helsinki", "quantity": 3.5},
		{"timestampUTC": "2024-03-01T10:15:00Z", "mgaCode": nil, "quantity": 4.0},
		{"timestampUTC": "2024-03-01T10:30:00Z", "quantity": 4.5},
	}

	rows, err := Normalize(LoadProfile, "FI", raw)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].Group)
	assert.Equal(t, "MGA1", *rows[0].Group)
	name := rows[0].Values["mga_name"].(*string)
	require.NotNil(t, name)
	assert.Equal(t, "Helsinki", *name)

	assert.Nil(t, rows[1].Group, "null mgaCode maps to absent group")
	assert.Nil(t, rows[2].Group, "missing mgaCode maps to absent group")
}

func TestNormalize_ZonelessTimestampIsUTC(t *testing.T) {
	// eSett does not guarantee a zone suffix on timestampUTC.
	raw := []map[string]any{
		{"timestampUTC": "2024-03-01T10:00:00", "total": 1.0},
		{"timestampUTC": "2024-03-01T11:00:00.000", "total": 2.0},
	}

	rows, err := Normalize(Production, "FI", raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rows[0].Time)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), rows[1].Time)
}

func TestNormalize_FractionalSecondTimestamp(t *testing.T) {
	raw := []map[string]any{
		{"timestampUTC": "2024-03-01T10:00:00.000Z", "total": 1.0},
	}

	rows, err := Normalize(Production, "DK1", raw)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rows[0].Time)
}

func TestPayload_GroupedDataset(t *testing.T) {
	g := "MGA1"
	qty := 1.25
	row := Row{
		Time:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Area:  "FI",
		Group: &g,
		Values: map[string]any{
			"mga_name": (*string)(nil),
			"quantity": &qty,
		},
	}

	payload := Payload(LoadProfile, row)
	assert.Equal(t, "FI", payload["mba"])
	assert.Equal(t, &g, payload["mga_code"])
	assert.Equal(t, &qty, payload["quantity"])
	assert.Contains(t, payload, "mga_name")
}

func TestPayload_UngroupedDatasetOmitsGroup(t *testing.T) {
	row := Row{
		Time:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Area:   "SE3",
		Values: map[string]any{"total": (*float64)(nil)},
	}

	payload := Payload(Consumption, row)
	assert.NotContains(t, payload, "mga_code")
}

func TestDescriptors(t *testing.T) {
	assert.Equal(t, 15*time.Minute, LoadProfile.Interval)
	assert.Equal(t, time.Hour, Production.Interval)
	assert.Equal(t, time.Hour, Consumption.Interval)
	assert.Equal(t, time.Hour, ImbalancePrice.Interval)

	assert.True(t, LoadProfile.HasGroup)
	assert.False(t, Production.HasGroup)

	assert.Equal(t, "/EXP18/LoadProfile", LoadProfile.Path)
	assert.Equal(t, "/EXP16/Volumes", Production.Path)
	assert.Equal(t, "/EXP15/Consumption", Consumption.Path)
	assert.Equal(t, "/EXP14/Prices", ImbalancePrice.Path)

	assert.Len(t, All, 4)
}

func TestRange_Duration(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 24*time.Hour, Range{Start: start, End: start.AddDate(0, 0, 1)}.Duration())
	assert.Equal(t, time.Duration(0), Range{Start: start, End: start}.Duration())
	assert.Negative(t, Range{Start: start, End: start.Add(-time.Hour)}.Duration())
}
