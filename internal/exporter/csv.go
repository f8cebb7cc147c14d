package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salama/internal/dataprocessing"
)

// CSVWriter exports tables as UTF-8 CSV files under the output directory.
// Files carry a UTF-8 BOM so Excel renders the Arabic headers correctly.
type CSVWriter struct {
	logger    *slog.Logger
	outputDir string
}

// NewCSVWriter creates a CSV writer rooted at outputDir.
func NewCSVWriter(logger *slog.Logger, outputDir string) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, outputDir: outputDir}
}

// WriteTable writes one table to the named file, streaming row by row.
func (w *CSVWriter) WriteTable(fileName string, t *dataprocessing.Table) error {
	if t == nil {
		return fmt.Errorf("nil table")
	}
	sw, err := w.CreateStreamWriter(fileName, t.Columns)
	if err != nil {
		return err
	}

	record := make([]string, t.NumCols())
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && !row[i].IsNull() {
				record[i] = row[i].String()
			}
		}
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.logger.Info("wrote CSV export",
		slog.String("file", fileName),
		slog.Int("rows", t.NumRows()))
	return sw.Close()
}

// StreamWriter streams CSV records to a file.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens a streaming CSV writer, writing the BOM and the
// header row up front.
func (w *CSVWriter) CreateStreamWriter(fileName string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolve(fileName)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func (w *CSVWriter) resolve(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(w.outputDir, fileName)
}
