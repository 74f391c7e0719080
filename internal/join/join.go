package join

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

// Record is one event enriched with everything the aggregator groups and
// filters on. Meta is nil when no metadata row exists for the entity; such
// records still flow through, they just carry empty descriptive fields.
type Record struct {
	Event    model.Event
	Meta     *model.Metadata
	Region   region.Region
	Importer string
}

// Title returns the posting title, empty for unmatched records.
func (r Record) Title() string {
	if r.Meta == nil {
		return ""
	}
	return r.Meta.Title
}

// Organization prefers the metadata organization and falls back to the one
// carried on the event row.
func (r Record) Organization() string {
	if r.Meta != nil && r.Meta.Organization != "" {
		return r.Meta.Organization
	}
	return r.Event.Organization
}

// Occupations returns the posting's occupational field tags, nil for
// unmatched records.
func (r Record) Occupations() []string {
	if r.Meta == nil {
		return nil
	}
	return r.Meta.OccupationalFields
}

// Index is a by-entity lookup over a metadata snapshot. Duplicate entity ids
// resolve last-write-wins; the collision count survives for refresh stats.
type Index struct {
	byID       map[string]*model.Metadata
	Collisions int
}

// BuildIndex indexes a metadata snapshot by entity id. Later rows overwrite
// earlier ones; collisions are counted and logged, never fatal.
func BuildIndex(rows []model.Metadata) *Index {
	idx := &Index{byID: make(map[string]*model.Metadata, len(rows))}
	for i := range rows {
		id := rows[i].EntityID
		if id == "" {
			continue
		}
		if _, exists := idx.byID[id]; exists {
			idx.Collisions++
		}
		idx.byID[id] = &rows[i]
	}
	if idx.Collisions > 0 {
		zap.L().Warn("join: duplicate metadata keys resolved last-write-wins",
			zap.Int("collisions", idx.Collisions),
			zap.Int("rows", len(rows)),
		)
	}
	return idx
}

// Lookup returns the metadata for an entity id, or nil.
func (idx *Index) Lookup(id string) *model.Metadata {
	return idx.byID[id]
}

// Len reports the number of distinct entities indexed.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Join left-joins events against the metadata index, preserving event order.
// Every event yields exactly one Record. The region is classified from the
// metadata locations when the entity matched and carries one, else from the
// raw location on the event itself. The importer id resolves to a display
// label through the importers map.
func Join(events []model.Event, idx *Index, table *region.Table, importers map[string]string) []Record {
	out := make([]Record, 0, len(events))
	for _, ev := range events {
		meta := idx.Lookup(ev.EntityID)

		rawLoc := ev.RawLocation
		if meta != nil && meta.RawLocations != "" {
			rawLoc = meta.RawLocations
		}

		out = append(out, Record{
			Event:    ev,
			Meta:     meta,
			Region:   table.Classify(rawLoc),
			Importer: ImporterLabel(ev.ImporterID, importers),
		})
	}
	return out
}

// ImporterLabel maps an importer id to its display name. Ids missing from
// the mapping render as "ID: <id>" so they stay visible in groupings; an
// absent id stays empty.
func ImporterLabel(id string, importers map[string]string) string {
	if id == "" {
		return ""
	}
	if name, ok := importers[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("ID: %s", id)
}
