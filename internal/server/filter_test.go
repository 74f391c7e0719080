package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Add("regions", "London,Wales")
	q.Add("regions", "Scotland")
	q.Set("upgrades", "Featured")
	q.Set("title", "director")
	q.Set("from", "2024-03-01")
	q.Set("to", "20240331")

	f, err := parseFilter(q, "")
	require.NoError(t, err)

	assert.Equal(t, []region.Region{region.London, region.Wales, region.Scotland}, f.Regions)
	assert.Equal(t, []string{"Featured"}, f.Upgrades)
	assert.Equal(t, "director", f.TitleQuery)
	assert.Equal(t, "2024-03-01", f.DateFrom.String())
	assert.Equal(t, "2024-03-31", f.DateTo.String())
}

func TestParseFilter_Prefix(t *testing.T) {
	q := url.Values{}
	q.Set("a_regions", "London")
	q.Set("b_regions", "Wales")

	a, err := parseFilter(q, "a_")
	require.NoError(t, err)
	b, err := parseFilter(q, "b_")
	require.NoError(t, err)

	assert.Equal(t, []region.Region{region.London}, a.Regions)
	assert.Equal(t, []region.Region{region.Wales}, b.Regions)
}

func TestParseFilter_InvertedRange(t *testing.T) {
	q := url.Values{}
	q.Set("from", "2024-03-31")
	q.Set("to", "2024-03-01")

	_, err := parseFilter(q, "")
	assert.Error(t, err)
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := parseFilter(url.Values{}, "")
	require.NoError(t, err)
	assert.Empty(t, f.Regions)
	assert.False(t, f.DateFrom.Valid)
}
