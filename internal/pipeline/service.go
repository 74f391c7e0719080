// Package pipeline orchestrates a dashboard refresh: fetch both datasets,
// normalize, join, and hand the joined records to the aggregator. Fetches go
// through TTL caches backed by an optional SQLite snapshot store, so a
// source outage degrades to stale data instead of an empty dashboard.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/join"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/source"
)

// Snapshot dataset names.
const (
	datasetEvents   = "events"
	datasetMetadata = "metadata"
)

// eventBatch is the cached unit for the event stream.
type eventBatch struct {
	Events []model.Event   `json:"events"`
	Stats  normalize.Stats `json:"stats"`
}

// metaBatch is the cached unit for the metadata snapshot.
type metaBatch struct {
	Rows  []model.Metadata `json:"rows"`
	Stats normalize.Stats  `json:"stats"`
}

// RefreshStats describes the data quality of the currently served dataset.
type RefreshStats struct {
	Events         int       `json:"events"`
	MetadataRows   int       `json:"metadata_rows"`
	Collisions     int       `json:"join_key_collisions"`
	MalformedDates int       `json:"malformed_dates"`
	FetchedAt      time.Time `json:"fetched_at"`
	Stale          bool      `json:"stale"`
}

// Dataset is one joined, ready-to-aggregate view of the world.
type Dataset struct {
	Records []join.Record
	Stats   RefreshStats
}

// Options configures a Service.
type Options struct {
	EventTTL    time.Duration
	MetadataTTL time.Duration

	RegionTable *region.Table     // nil = embedded default
	Importers   map[string]string // importer_id to display name

	Snapshots *source.SnapshotStore // nil = no persistence
}

// Service owns the caches and the join; one instance serves all requests.
type Service struct {
	events   source.EventSource
	metadata source.MetadataSource

	eventCache *source.Cache[eventBatch]
	metaCache  *source.Cache[metaBatch]

	table     *region.Table
	importers map[string]string
	snapshots *source.SnapshotStore
}

// New wires a Service from its sources.
func New(events source.EventSource, metadata source.MetadataSource, opts Options) *Service {
	table := opts.RegionTable
	if table == nil {
		table = region.Default()
	}
	return &Service{
		events:     events,
		metadata:   metadata,
		eventCache: source.NewCache[eventBatch](opts.EventTTL),
		metaCache:  source.NewCache[metaBatch](opts.MetadataTTL),
		table:      table,
		importers:  opts.Importers,
		snapshots:  opts.Snapshots,
	}
}

// LoadSnapshots primes the caches from the snapshot store, so a restart
// serves data before the first warehouse round trip. Missing snapshots are
// fine; corrupt ones are logged and skipped.
func (s *Service) LoadSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	var events eventBatch
	if fetchedAt, found, err := s.snapshots.Load(ctx, datasetEvents, &events); err != nil {
		zap.L().Warn("pipeline: event snapshot unreadable", zap.Error(err))
	} else if found {
		s.eventCache.Put(events, fetchedAt)
		zap.L().Info("pipeline: event snapshot loaded",
			zap.Int("rows", events.Stats.Rows),
			zap.Time("fetched_at", fetchedAt),
		)
	}

	var meta metaBatch
	if fetchedAt, found, err := s.snapshots.Load(ctx, datasetMetadata, &meta); err != nil {
		zap.L().Warn("pipeline: metadata snapshot unreadable", zap.Error(err))
	} else if found {
		s.metaCache.Put(meta, fetchedAt)
		zap.L().Info("pipeline: metadata snapshot loaded",
			zap.Int("rows", meta.Stats.Rows),
			zap.Time("fetched_at", fetchedAt),
		)
	}
}

// Dataset returns the joined record set, fetching whatever the caches no
// longer cover. Both sources fetch concurrently. The returned stats carry
// the data quality counters for the refresh panel.
func (s *Service) Dataset(ctx context.Context) (*Dataset, error) {
	var (
		events        eventBatch
		meta          metaBatch
		eventsAt      time.Time
		metaAt        time.Time
		eventsStale   bool
		metadataStale bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, eventsAt, eventsStale, err = s.eventCache.Get(gctx, s.fetchEvents)
		return err
	})
	g.Go(func() error {
		var err error
		meta, metaAt, metadataStale, err = s.metaCache.Get(gctx, s.fetchMetadata)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := join.BuildIndex(meta.Rows)
	records := join.Join(events.Events, idx, s.table, s.importers)

	stats := RefreshStats{
		Events:         events.Stats.Rows,
		MetadataRows:   meta.Stats.Rows,
		Collisions:     idx.Collisions,
		MalformedDates: events.Stats.MalformedDates + meta.Stats.MalformedDates,
		FetchedAt:      eventsAt,
		Stale:          eventsStale || metadataStale,
	}
	if metaAt.Before(stats.FetchedAt) {
		stats.FetchedAt = metaAt
	}

	return &Dataset{Records: records, Stats: stats}, nil
}

// Refresh expires both caches and fetches fresh data. The previous batches
// stay behind as stale fallbacks, so a refresh during a source outage still
// serves the old dataset flagged stale.
func (s *Service) Refresh(ctx context.Context) (*Dataset, error) {
	s.eventCache.Invalidate()
	s.metaCache.Invalidate()
	return s.Dataset(ctx)
}

func (s *Service) fetchEvents(ctx context.Context) (eventBatch, error) {
	events, stats, err := s.events.FetchEvents(ctx)
	if err != nil {
		return eventBatch{}, err
	}
	batch := eventBatch{Events: events, Stats: stats}
	s.saveSnapshot(ctx, datasetEvents, batch)
	return batch, nil
}

func (s *Service) fetchMetadata(ctx context.Context) (metaBatch, error) {
	rows, stats, err := s.metadata.FetchMetadata(ctx)
	if err != nil {
		return metaBatch{}, err
	}
	batch := metaBatch{Rows: rows, Stats: stats}
	s.saveSnapshot(ctx, datasetMetadata, batch)
	return batch, nil
}

// saveSnapshot is best-effort: a broken snapshot store must not fail a
// refresh that already has fresh data in hand.
func (s *Service) saveSnapshot(ctx context.Context, dataset string, value any) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, dataset, value, time.Now().UTC()); err != nil {
		zap.L().Warn("pipeline: snapshot save failed",
			zap.String("dataset", dataset),
			zap.Error(err),
		)
	}
}
