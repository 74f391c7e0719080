package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileEventSource(t *testing.T) {
	path := writeTempCSV(t, "events.csv",
		"entity_id,event_name,event_date\n"+
			"101,job_visit,20240301\n"+
			"101,job_apply_start,20240302\n")

	src := &FileEventSource{Path: path}
	events, stats, err := src.FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, "101", events[0].EntityID)
}

func TestFileEventSource_MissingFile(t *testing.T) {
	src := &FileEventSource{Path: filepath.Join(t.TempDir(), "nope.csv")}
	_, _, err := src.FetchEvents(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetch(err))
}

func TestFileMetadataSource_CSV(t *testing.T) {
	path := writeTempCSV(t, "metadata.csv",
		"entity_id,title,workflow_state,publishing_date,expiration_date\n"+
			"101,Housing Director,published,20240201,20240430\n")

	src := &FileMetadataSource{Path: path}
	rows, stats, err := src.FetchMetadata(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, "Housing Director", rows[0].Title)
}

func TestFileMetadataSource_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Export")
	require.NoError(t, err)

	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	addRow("entity_id", "title", "workflow_state")
	addRow("101", "Analyst", "published")
	addRow("202", "Warden", "unpublished")

	path := filepath.Join(t.TempDir(), "metadata.xlsx")
	require.NoError(t, f.Save(path))

	src := &FileMetadataSource{Path: path}
	rows, _, err := src.FetchMetadata(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Analyst", rows[0].Title)
	assert.Equal(t, "Warden", rows[1].Title)

	// Named sheet selection.
	src = &FileMetadataSource{Path: path, SheetName: "Export"}
	rows, _, err = src.FetchMetadata(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	src = &FileMetadataSource{Path: path, SheetName: "Missing"}
	_, _, err = src.FetchMetadata(context.Background())
	assert.True(t, IsFetch(err))
}

func TestFileMetadataSource_UnsupportedExtension(t *testing.T) {
	src := &FileMetadataSource{Path: "metadata.parquet"}
	_, _, err := src.FetchMetadata(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetch(err))
}
