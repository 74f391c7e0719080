package normalize

import (
	"fmt"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.Date
	}{
		{"compact", "20240315", model.NewDate(2024, time.March, 15)},
		{"compact with spaces", " 20240315 ", model.NewDate(2024, time.March, 15)},
		{"iso date", "2024-03-15", model.NewDate(2024, time.March, 15)},
		{"iso timestamp", "2024-03-15T09:30:00Z", model.NewDate(2024, time.March, 15)},
		{"iso timestamp no zone", "2024-03-15T09:30:00", model.NewDate(2024, time.March, 15)},
		{"iso timestamp space", "2024-03-15 09:30:00", model.NewDate(2024, time.March, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseDate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"garbage", "not a date"},
		{"seven digits", "2024031"},
		{"nine digits", "202403155"},
		{"invalid month", "20241301"},
		{"invalid day", "20240230"},
		{"partial iso", "2024-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrMalformedDate))
			assert.False(t, got.Valid)
		})
	}
}

// Normalization of a valid YYYYMMDD value yields the same calendar day no
// matter whether the source delivered it as an integer or a string.
func TestParseDate_IntStringRoundTrip(t *testing.T) {
	days := []struct{ y, m, d int }{
		{2020, 1, 1}, {2023, 12, 31}, {2024, 2, 29}, {2026, 7, 4},
	}
	for _, day := range days {
		asInt := day.y*10000 + day.m*100 + day.d
		fromInt, err := ParseDate(fmt.Sprintf("%d", asInt))
		require.NoError(t, err)

		fromString, err := ParseDate(fmt.Sprintf("%04d%02d%02d", day.y, day.m, day.d))
		require.NoError(t, err)

		assert.True(t, fromInt.Equal(fromString))
		assert.Equal(t, fmt.Sprintf("%04d-%02d-%02d", day.y, day.m, day.d), fromInt.String())
	}
}
