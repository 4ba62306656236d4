package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"RFC3339 keeps its offset", "2024-09-02T23:59:59Z", time.Date(2024, 9, 2, 23, 59, 59, 0, time.UTC)},
		{"seconds in local time", "2024-09-02T23:59:59", time.Date(2024, 9, 2, 23, 59, 59, 0, loc)},
		{"minutes with T", "2024-09-02T23:59", time.Date(2024, 9, 2, 23, 59, 0, 0, loc)},
		{"minutes with space", "2024-09-02 23:59", time.Date(2024, 9, 2, 23, 59, 0, 0, loc)},
		{"date only", "2024-09-02", time.Date(2024, 9, 2, 0, 0, 0, 0, loc)},
		{"surrounding space", "  2024-09-02 10:00 ", time.Date(2024, 9, 2, 10, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input, loc)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestParseTime_Now(t *testing.T) {
	before := time.Now()
	got, err := parseTime("NOW", time.UTC)
	require.NoError(t, err)
	assert.False(t, got.Before(before))
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := parseTime("next tuesday", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time")
}

func TestMergeModifiers_FlagsOverrideConfig(t *testing.T) {
	configured := map[string]int{"alice": 2, "bob": -1}
	flags := map[string]int{"bob": 3, "carol": 1}

	merged := mergeModifiers(configured, flags)

	assert.Equal(t, map[string]int{"alice": 2, "bob": 3, "carol": 1}, merged)
	assert.Equal(t, -1, configured["bob"])
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "+2", formatPoints(2))
	assert.Equal(t, "-1.5", formatPoints(-1.5))
	assert.Equal(t, "+0", formatPoints(0))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, colorGreen, statusColor("Early"))
	assert.Equal(t, colorReset, statusColor("On Time"))
	assert.Equal(t, colorYellow, statusColor("Late"))
	assert.Equal(t, colorRed, statusColor("NC Late"))
	assert.Equal(t, colorDim, statusColor(services.NoHandinLabel))
}
