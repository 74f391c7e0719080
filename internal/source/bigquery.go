package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
)

// BigQueryOptions configures the warehouse client.
type BigQueryOptions struct {
	ProjectID       string
	CredentialsFile string // empty = application default credentials

	EventsTable   string // dataset.table holding the event stream
	MetadataTable string // dataset.table holding the posting export

	QueryTimeout  time.Duration // default 2m
	QueriesPerMin int           // default 30
}

// BigQuerySource reads events and metadata from the warehouse. One query per
// fetch; the limiter keeps refresh storms inside the project quota.
type BigQuerySource struct {
	client  *bigquery.Client
	opts    BigQueryOptions
	limiter *rate.Limiter
}

// NewBigQuery connects to the warehouse.
func NewBigQuery(ctx context.Context, opts BigQueryOptions) (*BigQuerySource, error) {
	if opts.QueryTimeout == 0 {
		opts.QueryTimeout = 2 * time.Minute
	}
	if opts.QueriesPerMin == 0 {
		opts.QueriesPerMin = 30
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "bigquery: new client")
	}

	return &BigQuerySource{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(float64(opts.QueriesPerMin)/60.0), 1),
	}, nil
}

// Close releases the underlying client.
func (s *BigQuerySource) Close() error {
	return s.client.Close()
}

// FetchEvents queries the full event stream and normalizes every row.
func (s *BigQuerySource) FetchEvents(ctx context.Context) ([]model.Event, normalize.Stats, error) {
	header, records, err := s.queryTable(ctx, s.opts.EventsTable)
	if err != nil {
		return nil, normalize.Stats{}, NewFetchError("events", err)
	}
	events, stats := normalize.Events(header, records)
	zap.L().Info("bigquery: events fetched",
		zap.String("table", s.opts.EventsTable),
		zap.Int("rows", stats.Rows),
	)
	return events, stats, nil
}

// FetchMetadata queries the posting snapshot and normalizes every row.
func (s *BigQuerySource) FetchMetadata(ctx context.Context) ([]model.Metadata, normalize.Stats, error) {
	header, records, err := s.queryTable(ctx, s.opts.MetadataTable)
	if err != nil {
		return nil, normalize.Stats{}, NewFetchError("metadata", err)
	}
	rows, stats := normalize.MetadataRows(header, records)
	zap.L().Info("bigquery: metadata fetched",
		zap.String("table", s.opts.MetadataTable),
		zap.Int("rows", stats.Rows),
	)
	return rows, stats, nil
}

// queryTable selects a whole table and flattens every row to strings, so the
// shared column-name normalization handles warehouse and file sources the
// same way. Unknown columns ride along and are ignored downstream.
func (s *BigQuerySource) queryTable(ctx context.Context, table string) ([]string, [][]string, error) {
	if table == "" {
		return nil, nil, eris.New("bigquery: table not configured")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, eris.Wrap(err, "bigquery: rate limiter wait")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	q := s.client.Query("SELECT * FROM `" + table + "`")
	it, err := q.Read(ctx)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "bigquery: query %s", table)
	}

	var (
		header  []string
		records [][]string
	)
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrapf(err, "bigquery: read %s", table)
		}

		if header == nil {
			header = make([]string, 0, len(it.Schema))
			for _, field := range it.Schema {
				header = append(header, field.Name)
			}
		}

		record := make([]string, len(header))
		for i, name := range header {
			record[i] = valueToString(row[name])
		}
		records = append(records, record)
	}

	return header, records, nil
}

// valueToString renders a BigQuery cell the way a flat export would.
func valueToString(v bigquery.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format("2006-01-02 15:04:05")
	case civil.Date:
		return val.String()
	case civil.DateTime:
		return val.Date.String()
	case []bigquery.Value:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = valueToString(p)
		}
		return strings.Join(parts, normalize.MultiDelimiter)
	default:
		return fmt.Sprint(val)
	}
}
