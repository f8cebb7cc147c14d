package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// ExcelWriter exports the unified datasets as one workbook, a sheet per
// dataset kind.
type ExcelWriter struct {
	logger    *slog.Logger
	outputDir string
}

// NewExcelWriter creates an Excel writer rooted at outputDir.
func NewExcelWriter(logger *slog.Logger, outputDir string) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger, outputDir: outputDir}
}

// WriteWorkbook writes every non-empty dataset to its own sheet. Dates and
// numbers keep their native types so Excel formats them.
func (w *ExcelWriter) WriteWorkbook(fileName string, unified map[domain.DatasetKind]*dataprocessing.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, kind := range orderedKinds(unified) {
		t := unified[kind]
		if t == nil || t.IsEmpty() {
			continue
		}
		sheet := kind.String()
		if first {
			// excelize starts with a default sheet; rename it instead of
			// leaving an empty Sheet1 behind.
			f.SetSheetName(f.GetSheetName(0), sheet)
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}
	if first {
		return fmt.Errorf("no datasets to export")
	}

	fullPath := w.resolve(fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("wrote Excel export",
		slog.String("file", fileName),
		slog.Int("datasets", len(unified)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *dataprocessing.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, t.NumCols())
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, t.NumCols())
		for i := range cells {
			if i < len(row) {
				cells[i] = cellValue(row[i])
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue converts a table value to the excelize native type.
func cellValue(v dataprocessing.Value) interface{} {
	if n, ok := v.AsNumber(); ok {
		return n
	}
	if ts, ok := v.AsTime(); ok {
		return ts.Format(time.DateOnly)
	}
	if s, ok := v.AsText(); ok {
		return s
	}
	return nil
}

func (w *ExcelWriter) resolve(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(w.outputDir, fileName)
}
