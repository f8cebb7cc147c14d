package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// SourceManifest is the YAML registry of data sources: which workbooks and
// CSV files to read, which sheets matter, what kind each one feeds and how
// source column labels map to the canonical vocabulary.
type SourceManifest struct {
	ExcelFiles []ExcelSource `yaml:"excel_files"`
	CSVFiles   []CSVSource   `yaml:"csv_files"`
}

// ExcelSource declares one workbook and its sheets.
type ExcelSource struct {
	Path   string        `yaml:"path"`
	Sheets []SheetSource `yaml:"sheets"`
}

// SheetSource declares one sheet of a workbook.
type SheetSource struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	ColumnMapping map[string]string `yaml:"column_mapping"`
}

// CSVSource declares one CSV file.
type CSVSource struct {
	Path          string            `yaml:"path"`
	Kind          string            `yaml:"kind"`
	ColumnMapping map[string]string `yaml:"column_mapping"`
}

// LoadManifest reads and validates a source manifest file.
func LoadManifest(path string) (*SourceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source manifest: %w", err)
	}
	var m SourceManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse source manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("source manifest validation failed: %w", err)
	}
	return &m, nil
}

func (m *SourceManifest) validate() error {
	if len(m.ExcelFiles) == 0 && len(m.CSVFiles) == 0 {
		return fmt.Errorf("manifest declares no sources")
	}
	for _, wb := range m.ExcelFiles {
		if wb.Path == "" {
			return fmt.Errorf("excel source with empty path")
		}
		if len(wb.Sheets) == 0 {
			return fmt.Errorf("excel source %q declares no sheets", wb.Path)
		}
		for _, sheet := range wb.Sheets {
			if sheet.Name == "" {
				return fmt.Errorf("excel source %q has a sheet with empty name", wb.Path)
			}
			if sheet.Kind == "" {
				return fmt.Errorf("sheet %q of %q has no kind", sheet.Name, wb.Path)
			}
		}
	}
	for _, cs := range m.CSVFiles {
		if cs.Path == "" {
			return fmt.Errorf("csv source with empty path")
		}
		if cs.Kind == "" {
			return fmt.Errorf("csv source %q has no kind", cs.Path)
		}
	}
	return nil
}

// ToLoaderManifest converts the YAML manifest into the loader's form. Kinds
// outside the well-known set pass through unchanged; the pipeline carries
// them as extra datasets.
func (m *SourceManifest) ToLoaderManifest() dataprocessing.Manifest {
	out := dataprocessing.Manifest{}
	for _, wb := range m.ExcelFiles {
		spec := dataprocessing.WorkbookSpec{Path: wb.Path}
		for _, sheet := range wb.Sheets {
			spec.Sheets = append(spec.Sheets, dataprocessing.SheetSpec{
				Name:          sheet.Name,
				Kind:          domain.KindOf(sheet.Kind),
				ColumnMapping: dataprocessing.ColumnMapping(sheet.ColumnMapping),
			})
		}
		out.Workbooks = append(out.Workbooks, spec)
	}
	for _, cs := range m.CSVFiles {
		out.CSVFiles = append(out.CSVFiles, dataprocessing.CSVSpec{
			Path:          cs.Path,
			Kind:          domain.KindOf(cs.Kind),
			ColumnMapping: dataprocessing.ColumnMapping(cs.ColumnMapping),
		})
	}
	return out
}
