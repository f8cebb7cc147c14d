package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// JSONExport is the export envelope: metadata followed by the datasets as
// column-keyed records.
type JSONExport struct {
	GeneratedAt time.Time                           `json:"generated_at"`
	Datasets    map[string][]map[string]interface{} `json:"datasets"`
}

// JSONWriter exports the unified datasets as a single JSON document.
type JSONWriter struct {
	logger    *slog.Logger
	outputDir string
	now       func() time.Time
}

// NewJSONWriter creates a JSON writer rooted at outputDir.
func NewJSONWriter(logger *slog.Logger, outputDir string) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger, outputDir: outputDir, now: time.Now}
}

// Write marshals the datasets to the named file.
func (w *JSONWriter) Write(fileName string, unified map[domain.DatasetKind]*dataprocessing.Table) error {
	export := JSONExport{
		GeneratedAt: w.now().UTC(),
		Datasets:    make(map[string][]map[string]interface{}),
	}
	for kind, t := range unified {
		if t == nil || t.IsEmpty() {
			continue
		}
		export.Datasets[kind.String()] = tableRecords(t)
	}

	fullPath := w.resolve(fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	w.logger.Info("wrote JSON export",
		slog.String("file", fileName),
		slog.Int("datasets", len(export.Datasets)))
	return nil
}

func (w *JSONWriter) resolve(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(w.outputDir, fileName)
}

// tableRecords converts a table to column-keyed records. Null cells are
// omitted rather than serialized as empty strings.
func tableRecords(t *dataprocessing.Table) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, t.NumRows())
	for _, row := range t.Rows {
		record := make(map[string]interface{}, t.NumCols())
		for i, col := range t.Columns {
			if i >= len(row) || row[i].IsNull() {
				continue
			}
			record[col] = cellValue(row[i])
		}
		records = append(records, record)
	}
	return records
}

// orderedKinds returns the dataset kinds in a stable order, well-known kinds
// first.
func orderedKinds(unified map[domain.DatasetKind]*dataprocessing.Table) []domain.DatasetKind {
	kinds := make([]domain.DatasetKind, 0, len(unified))
	for kind := range unified {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		wi, wj := kinds[i].IsWellKnown(), kinds[j].IsWellKnown()
		if wi != wj {
			return wi
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}
