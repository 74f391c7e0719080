package source

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
)

// LoadImporterMap reads the importer_id to importer_name mapping from a
// local CSV file. Spreadsheet tools save these with a UTF-8 BOM, which is
// stripped before parsing. A missing file is not fatal; ids then render as
// their raw values.
func LoadImporterMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open mapping file")
	}
	defer f.Close() //nolint:errcheck

	return readImporterMap(bomStrippingReader(f))
}

func readImporterMap(r io.Reader) (map[string]string, error) {
	header, records, err := readCSVRows(r)
	if err != nil {
		return nil, eris.Wrap(err, "importer: parse mapping file")
	}

	colIdx := normalize.MapColumns(header)
	out := make(map[string]string, len(records))
	for _, record := range records {
		id := normalize.CoerceID(normalize.Col(record, colIdx, "importer_id"))
		name := normalize.Col(record, colIdx, "importer_name")
		if id == "" {
			continue
		}
		out[id] = name
	}

	zap.L().Info("importer: mapping loaded", zap.Int("entries", len(out)))
	return out, nil
}

// bomStrippingReader decodes UTF-8 input, dropping a leading BOM when one is
// present.
func bomStrippingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
