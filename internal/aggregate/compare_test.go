package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

func TestDiff(t *testing.T) {
	d := Diff(10, 15)
	assert.InDelta(t, 5, d.Abs, 1e-9)
	assert.InDelta(t, 50, d.Pct, 1e-9)
	assert.True(t, d.Defined)

	// Zero baseline: absolute diff only.
	d = Diff(0, 15)
	assert.InDelta(t, 15, d.Abs, 1e-9)
	assert.False(t, d.Defined)

	d = Diff(10, 10)
	assert.Zero(t, d.Abs)
	assert.Zero(t, d.Pct)
	assert.True(t, d.Defined)
}

func TestCompare(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit, withRegion(region.London)),
		rec("J1", model.EventVisit, withRegion(region.London)),
		rec("J1", model.EventApplyStart, withRegion(region.London)),
		rec("J2", model.EventVisit, withRegion(region.Wales)),
	}

	c := Compare(records,
		Filter{Regions: []region.Region{region.London}},
		Filter{Regions: []region.Region{region.Wales}},
	)

	assert.Equal(t, 2, c.A.Clicks)
	assert.Equal(t, 1, c.B.Clicks)
	assert.InDelta(t, -1, c.Clicks.Abs, 1e-9)
	assert.InDelta(t, -50, c.Clicks.Pct, 1e-9)
	assert.True(t, c.Clicks.Defined)

	// Wales has no applies, so the percentage against that baseline is
	// undefined.
	c = Compare(records,
		Filter{Regions: []region.Region{region.Wales}},
		Filter{Regions: []region.Region{region.London}},
	)
	assert.Equal(t, 0, c.A.Applies)
	assert.Equal(t, 1, c.B.Applies)
	assert.False(t, c.Applies.Defined)
}

func TestCompare_SidesIndependent(t *testing.T) {
	records := []join.Record{
		rec("J1", model.EventVisit, withRegion(region.London)),
	}

	// Overlapping filters are fine; both sides see the same record.
	c := Compare(records, Filter{}, Filter{Regions: []region.Region{region.London}})
	assert.Equal(t, c.A, c.B)
	assert.True(t, c.Clicks.Defined)
	assert.Zero(t, c.Clicks.Pct)
}
