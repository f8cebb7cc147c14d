package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"salama/pkg/contracts/domain"
)

func writeTempCSV(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoaderLoadCSVUTF8(t *testing.T) {
	dir := t.TempDir()
	csvData := "الرقم,التاريخ,الحالة,عدد_الملاحظات\n" +
		"1,2024-01-15,Open,5\n" +
		"2,2024-02-20,مغلق - Closed,3\n"
	writeTempCSV(t, dir, "inspections.csv", []byte(csvData))

	loader := NewLoader(nil, LoaderConfig{BaseDir: dir})
	table := loader.loadCSV(context.Background(), CSVSpec{
		Path: "inspections.csv",
		Kind: domain.KindInspections,
	})

	require.NotNil(t, table)
	assert.Equal(t, domain.KindInspections, table.Kind)
	assert.Equal(t, []string{domain.ColRecordNumber, domain.ColDate, domain.ColStatus, "عدد_الملاحظات"}, table.Columns)
	require.Equal(t, 2, table.NumRows())

	// The full cleaning chain ran: dates and counts coerced, statuses
	// canonicalized.
	_, isTime := table.Rows[0][1].AsTime()
	assert.True(t, isTime)
	n, isNum := table.Rows[0][3].AsNumber()
	require.True(t, isNum)
	assert.Equal(t, 5.0, n)
	assert.Equal(t, domain.StatusOpen, table.Rows[0][2].String())
	assert.Equal(t, domain.StatusClosed, table.Rows[1][2].String())
}

func TestLoaderCSVEncodingFallback(t *testing.T) {
	dir := t.TempDir()

	// Encode an Arabic CSV as Windows-1256. The UTF-8 attempts must reject
	// it so the third encoding in the fallback list gets its turn.
	encoder := charmap.Windows1256.NewEncoder()
	encoded, err := encoder.Bytes([]byte("الرقم,الحالة\n1,مفتوح\n"))
	require.NoError(t, err)
	writeTempCSV(t, dir, "legacy.csv", encoded)

	loader := NewLoader(nil, LoaderConfig{BaseDir: dir})
	table := loader.loadCSV(context.Background(), CSVSpec{
		Path: "legacy.csv",
		Kind: domain.KindIncidents,
	})

	require.NotNil(t, table)
	assert.Equal(t, []string{domain.ColRecordNumber, domain.ColStatus}, table.Columns)
	require.Equal(t, 1, table.NumRows())
	assert.Equal(t, domain.StatusOpen, table.Rows[0][1].String())
}

func TestLoaderMissingFileSkipped(t *testing.T) {
	loader := NewLoader(nil, LoaderConfig{BaseDir: t.TempDir()})
	table := loader.loadCSV(context.Background(), CSVSpec{Path: "absent.csv"})
	assert.Nil(t, table)
}

func TestLoaderUnreadableEncodingSkipped(t *testing.T) {
	dir := t.TempDir()
	encoder := charmap.Windows1256.NewEncoder()
	encoded, err := encoder.Bytes([]byte("الرقم,الحالة\n1,مفتوح\n"))
	require.NoError(t, err)
	writeTempCSV(t, dir, "legacy.csv", encoded)

	// Only UTF-8 allowed: the cp1256 file cannot decode, the loader warns
	// and skips instead of failing.
	loader := NewLoader(nil, LoaderConfig{BaseDir: dir, Encodings: []string{"utf-8"}})
	table := loader.loadCSV(context.Background(), CSVSpec{Path: "legacy.csv"})
	assert.Nil(t, table)
}

func TestLoaderLoadAllOrderAndResilience(t *testing.T) {
	dir := t.TempDir()
	writeTempCSV(t, dir, "a.csv", []byte("الرقم,الحالة\n1,مفتوح\n"))
	writeTempCSV(t, dir, "b.csv", []byte("الرقم,الحالة\n2,مغلق\n"))

	loader := NewLoader(nil, LoaderConfig{BaseDir: dir, Parallelism: 4})
	tables := loader.LoadAll(context.Background(), Manifest{
		CSVFiles: []CSVSpec{
			{Path: "a.csv", Kind: domain.KindInspections},
			{Path: "missing.csv", Kind: domain.KindIncidents},
			{Path: "b.csv", Kind: domain.KindInspections},
		},
	})

	// The unreadable source degrades, the rest keeps manifest order.
	require.Len(t, tables, 2)
	assert.Equal(t, "a.csv", tables[0].File)
	assert.Equal(t, "b.csv", tables[1].File)
}

func TestLoaderDropsEmptyRowsAndColumns(t *testing.T) {
	dir := t.TempDir()
	csvData := "الرقم,عدد,الحالة,فارغ,الوصف\n" +
		"1,3,مفتوح,,ملاحظة\n" +
		",,,,\n" +
		"2,4,مغلق,,أخرى\n"
	writeTempCSV(t, dir, "sparse.csv", []byte(csvData))

	loader := NewLoader(nil, LoaderConfig{BaseDir: dir})
	table := loader.loadCSV(context.Background(), CSVSpec{
		Path: "sparse.csv",
		Kind: domain.KindInspections,
	})

	require.NotNil(t, table)
	assert.Equal(t, []string{domain.ColRecordNumber, "عدد", domain.ColStatus, "الوصف"}, table.Columns, "all-null column dropped")
	assert.Equal(t, 2, table.NumRows(), "all-null row dropped")
}

func TestDecodeCSVRejectsInvalidUTF8(t *testing.T) {
	encoder := charmap.Windows1256.NewEncoder()
	encoded, err := encoder.Bytes([]byte("الحالة\nمفتوح\n"))
	require.NoError(t, err)

	_, err = decodeCSV(encoded, "utf-8")
	assert.Error(t, err, "cp1256 bytes must not pass as utf-8")

	rows, err := decodeCSV(encoded, "cp1256")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "الحالة", rows[0][0])
}

func TestDecodeCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	rows, err := decodeCSV(data, "utf-8-sig")
	require.NoError(t, err)
	assert.Equal(t, "a", rows[0][0])
}

func TestDecodeCSVUnsupportedEncoding(t *testing.T) {
	_, err := decodeCSV([]byte("a\n"), "utf-16")
	assert.Error(t, err)
}
