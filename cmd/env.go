package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/pipeline"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/source"
)

// env holds everything a data-serving command needs, plus the handles it
// must close on exit.
type env struct {
	Service *pipeline.Service

	bq        *source.BigQuerySource
	snapshots *source.SnapshotStore
}

func (e *env) Close() {
	if e.bq != nil {
		_ = e.bq.Close()
	}
	if e.snapshots != nil {
		_ = e.snapshots.Close()
	}
}

// initService wires sources, caches and the snapshot store from config.
func initService(ctx context.Context) (*env, error) {
	table, err := regionTable()
	if err != nil {
		return nil, err
	}

	importers := map[string]string{}
	if cfg.Importers.File != "" {
		importers, err = source.LoadImporterMap(cfg.Importers.File)
		if err != nil {
			zap.L().Warn("importer mapping unavailable, raw ids will show",
				zap.String("file", cfg.Importers.File),
				zap.Error(err),
			)
			importers = map[string]string{}
		}
	}

	bq, err := source.NewBigQuery(ctx, source.BigQueryOptions{
		ProjectID:       cfg.Warehouse.ProjectID,
		CredentialsFile: cfg.Warehouse.CredentialsFile,
		EventsTable:     cfg.Warehouse.EventsTable,
		MetadataTable:   cfg.Warehouse.MetadataTable,
		QueriesPerMin:   cfg.Warehouse.QueriesPerMin,
		QueryTimeout:    cfg.Warehouse.QueryTimeout(),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init warehouse client")
	}

	var metadata source.MetadataSource = bq
	if cfg.Metadata.File != "" {
		metadata = &source.FileMetadataSource{
			Path:      cfg.Metadata.File,
			SheetName: cfg.Metadata.Sheet,
		}
	}

	e := &env{bq: bq}
	if !cfg.Snapshot.Disable {
		snapshots, err := source.NewSnapshotStore(cfg.Snapshot.Path)
		if err != nil {
			bq.Close()
			return nil, eris.Wrap(err, "open snapshot store")
		}
		if err := snapshots.Migrate(ctx); err != nil {
			bq.Close()
			snapshots.Close()
			return nil, eris.Wrap(err, "migrate snapshot store")
		}
		e.snapshots = snapshots
	}

	e.Service = pipeline.New(bq, metadata, pipeline.Options{
		EventTTL:    cfg.Cache.EventTTL(),
		MetadataTTL: cfg.Cache.MetadataTTL(),
		RegionTable: table,
		Importers:   importers,
		Snapshots:   e.snapshots,
	})
	e.Service.LoadSnapshots(ctx)

	return e, nil
}

// regionTable returns the configured taxonomy, falling back to the embedded
// one.
func regionTable() (*region.Table, error) {
	if cfg.Regions.File == "" {
		return region.Default(), nil
	}
	table, err := region.LoadTableFile(cfg.Regions.File)
	if err != nil {
		return nil, eris.Wrap(err, "load region taxonomy")
	}
	return table, nil
}
