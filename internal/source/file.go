package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
)

// FileMetadataSource reads the posting snapshot from a flat XLSX or CSV
// export. The format is picked by file extension.
type FileMetadataSource struct {
	Path      string
	SheetName string // XLSX only; empty = first sheet
}

// FetchMetadata loads and normalizes the export.
func (s *FileMetadataSource) FetchMetadata(ctx context.Context) ([]model.Metadata, normalize.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, normalize.Stats{}, eris.Wrap(err, "source: context cancelled")
	}

	header, records, err := s.read()
	if err != nil {
		return nil, normalize.Stats{}, NewFetchError("metadata file", err)
	}

	rows, stats := normalize.MetadataRows(header, records)
	zap.L().Info("source: metadata file loaded",
		zap.String("path", s.Path),
		zap.Int("rows", stats.Rows),
	)
	return rows, stats, nil
}

func (s *FileMetadataSource) read() ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx":
		return readXLSX(s.Path, s.SheetName)
	case ".csv":
		return readCSV(s.Path)
	default:
		return nil, nil, eris.Errorf("source: unsupported metadata format %q", filepath.Ext(s.Path))
	}
}

// FileEventSource reads the event stream from a CSV export, mainly for
// offline runs and fixtures.
type FileEventSource struct {
	Path string
}

// FetchEvents loads and normalizes the export.
func (s *FileEventSource) FetchEvents(ctx context.Context) ([]model.Event, normalize.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, normalize.Stats{}, eris.Wrap(err, "source: context cancelled")
	}

	header, records, err := readCSV(s.Path)
	if err != nil {
		return nil, normalize.Stats{}, NewFetchError("events file", err)
	}

	events, stats := normalize.Events(header, records)
	zap.L().Info("source: events file loaded",
		zap.String("path", s.Path),
		zap.Int("rows", stats.Rows),
	)
	return events, stats, nil
}

func readXLSX(path, sheetName string) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, nil, err
	}

	var header []string
	var records [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		records = append(records, cells)
	}
	return header, records, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: file has no sheets")
	}
	return f.Sheets[0], nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	return readCSVRows(bomStrippingReader(f))
}

func readCSVRows(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}
		if header == nil {
			header = record
			continue
		}
		records = append(records, record)
	}
	return header, records, nil
}
