package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

func TestParseDimension(t *testing.T) {
	for _, ok := range []string{"region", "importer", "organization", "occupation", "upgrade"} {
		got, err := ParseDimension(ok)
		require.NoError(t, err)
		assert.Equal(t, Dimension(ok), got)
	}
	_, err := ParseDimension("colour")
	assert.Error(t, err)
}

func TestGroupBy_Region(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit, withRegion(region.London)),
		rec("J1", model.EventVisit, withRegion(region.London)),
		rec("J2", model.EventVisit, withRegion(region.Wales)),
	}

	rows := GroupBy(records, DimRegion)
	require.Len(t, rows, 2)

	// Sorted by clicks descending.
	assert.Equal(t, "London", rows[0].Key)
	assert.Equal(t, 2, rows[0].Clicks)
	assert.Equal(t, 1, rows[0].Vacancies)
	assert.Equal(t, "Wales", rows[1].Key)
	assert.Equal(t, 1, rows[1].Clicks)
}

// Events with no organization anywhere still aggregate, under the unknown
// key.
func TestGroupBy_UnknownOrganization(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit),
		rec("J1", model.EventApplyStart),
	}

	rows := GroupBy(records, DimOrganization)
	require.Len(t, rows, 1)
	assert.Equal(t, UnknownKey, rows[0].Key)
	assert.Equal(t, 1, rows[0].Vacancies)
	assert.Equal(t, 1, rows[0].Clicks)
	assert.Equal(t, 1, rows[0].Applies)
}

// A record with two upgrade tags contributes to both groups, so group totals
// may exceed the overall total.
func TestGroupBy_UpgradeFanOut(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit, withUpgrades("Featured", "Highlighted")),
		rec("J2", model.EventVisit, withUpgrades("Featured")),
		rec("J3", model.EventVisit),
	}

	rows := GroupBy(records, DimUpgrade)
	require.Len(t, rows, 3)

	byKey := make(map[string]Row, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row
	}
	assert.Equal(t, 2, byKey["Featured"].Clicks)
	assert.Equal(t, 1, byKey["Highlighted"].Clicks)
	assert.Equal(t, 1, byKey[UnknownKey].Clicks)

	total := 0
	for _, row := range rows {
		total += row.Clicks
	}
	assert.Equal(t, 4, total, "fan-out counts J1 twice")
}

func TestGroupBy_DuplicateTagCountedOnce(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit, withUpgrades("Featured", "Featured")),
	}
	rows := GroupBy(records, DimUpgrade)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Clicks)
}

func TestGroupBy_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupBy(nil, DimRegion))
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		benchmark float64
		want      Band
	}{
		{"well above", 12, 10, BandAbove},
		{"just inside upper", 10.9, 10, BandNormal},
		{"equal", 10, 10, BandNormal},
		{"just inside lower", 9.1, 10, BandNormal},
		{"well below", 8, 10, BandBelow},
		{"zero benchmark", 5, 0, BandNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandOf(tt.value, tt.benchmark))
		})
	}
}

func TestGroupBy_BandsAgainstOverall(t *testing.T) {
	// J1 gets 8 clicks, J2 and J3 one each. Overall clicks/vacancy = 10/3.
	records := []join.Record{
		rec("J2", model.EventVisit, withRegion(region.Wales)),
		rec("J3", model.EventVisit, withRegion(region.Scotland)),
	}
	for i := 0; i < 8; i++ {
		records = append(records, rec("J1", model.EventVisit, withRegion(region.London)))
	}

	rows := GroupBy(records, DimRegion)
	require.Len(t, rows, 3)
	assert.Equal(t, "London", rows[0].Key)
	assert.Equal(t, BandAbove, rows[0].ClicksBand)
	assert.Equal(t, BandBelow, rows[1].ClicksBand)
	assert.Equal(t, BandBelow, rows[2].ClicksBand)
}
