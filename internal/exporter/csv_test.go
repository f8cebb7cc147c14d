package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

func sampleTable() *dataprocessing.Table {
	t := dataprocessing.NewTable([]string{domain.ColDate, domain.ColStatus, "عدد_الملاحظات"})
	t.Kind = domain.KindInspections
	t.Rows = [][]dataprocessing.Value{
		{
			dataprocessing.Timestamp(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			dataprocessing.Text(domain.StatusOpen),
			dataprocessing.Number(5),
		},
		{
			dataprocessing.Null(),
			dataprocessing.Text(domain.StatusClosed),
			dataprocessing.Number(3),
		},
	}
	return t
}

func TestCSVWriterWriteTable(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	require.NoError(t, w.WriteTable("inspections.csv", sampleTable()))

	data, err := os.ReadFile(filepath.Join(dir, "inspections.csv"))
	require.NoError(t, err)

	bom := []byte{0xEF, 0xBB, 0xBF}
	require.True(t, bytes.HasPrefix(data, bom), "file must start with the UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{domain.ColDate, domain.ColStatus, "عدد_الملاحظات"}, records[0])
	assert.Equal(t, []string{"2024-01-10", domain.StatusOpen, "5"}, records[1])
	assert.Equal(t, []string{"", domain.StatusClosed, "3"}, records[2], "null cells render empty")
}

func TestCSVWriterNilTable(t *testing.T) {
	w := NewCSVWriter(nil, t.TempDir())
	assert.Error(t, w.WriteTable("x.csv", nil))
}

func TestCSVWriterCreatesNestedDirs(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	require.NoError(t, w.WriteTable(filepath.Join("sub", "deep", "out.csv"), sampleTable()))
	_, err := os.Stat(filepath.Join(dir, "sub", "deep", "out.csv"))
	assert.NoError(t, err)
}
