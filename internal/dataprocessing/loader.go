package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"salama/pkg/contracts/domain"
)

// SheetSpec declares one sheet of a workbook: which sheet to read, the kind
// to tag it with and the column mapping to apply.
type SheetSpec struct {
	Name          string
	Kind          domain.DatasetKind
	ColumnMapping ColumnMapping
}

// WorkbookSpec declares a multi-sheet Excel source.
type WorkbookSpec struct {
	Path   string
	Sheets []SheetSpec
}

// CSVSpec declares a single-table CSV source.
type CSVSpec struct {
	Path          string
	Kind          domain.DatasetKind
	ColumnMapping ColumnMapping
}

// Manifest is the declarative list of sources the loader reads.
type Manifest struct {
	Workbooks []WorkbookSpec
	CSVFiles  []CSVSpec
}

// DefaultEncodings is the ordered CSV encoding fallback list. The registers
// mix UTF-8 exports with Windows-1256 files saved from Excel on Arabic
// locales; first successful decode wins.
var DefaultEncodings = []string{"utf-8", "utf-8-sig", "cp1256", "iso-8859-1"}

// LoaderConfig holds loader options.
type LoaderConfig struct {
	BaseDir        string   // directory source paths are resolved against
	Encodings      []string // CSV encoding fallback order
	Parallelism    int      // max files read concurrently, 1 disables
	HeaderPromoter HeaderPromoterConfig
	StatusSynonyms map[string]string // nil selects the defaults
}

// Loader reads the configured sources and runs every sheet through the fixed
// cleaning chain: normalize columns, promote a swallowed header, map columns
// to canonical names, coerce types, clean text, canonicalize status values.
// Mapping runs before coercion on purpose: the canonical names drive the
// keyword heuristics. A missing or unreadable source is logged and skipped,
// never fatal to the overall load.
type Loader struct {
	logger   *slog.Logger
	cfg      LoaderConfig
	promoter *HeaderPromoter
	coercer  *TypeCoercer
	status   *StatusCanonicalizer
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = DefaultEncodings
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Loader{
		logger:   logger,
		cfg:      cfg,
		promoter: NewHeaderPromoter(cfg.HeaderPromoter),
		coercer:  NewTypeCoercer(),
		status:   NewStatusCanonicalizer(cfg.StatusSynonyms),
	}
}

// LoadAll reads every manifest entry and returns the cleaned tables. Files
// are independent until unification, so they are read concurrently up to the
// configured parallelism. The returned order follows the manifest.
func (l *Loader) LoadAll(ctx context.Context, manifest Manifest) []*Table {
	results := make([][]*Table, len(manifest.Workbooks)+len(manifest.CSVFiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Parallelism)

	for i, wb := range manifest.Workbooks {
		i, wb := i, wb
		g.Go(func() error {
			results[i] = l.loadWorkbook(ctx, wb)
			return nil
		})
	}
	offset := len(manifest.Workbooks)
	for i, cs := range manifest.CSVFiles {
		i, cs := i, cs
		g.Go(func() error {
			if t := l.loadCSV(ctx, cs); t != nil && !t.IsEmpty() {
				results[offset+i] = []*Table{t}
			}
			return nil
		})
	}
	// Workers only report via results; Wait is for completion, not errors.
	_ = g.Wait()

	var tables []*Table
	for _, group := range results {
		tables = append(tables, group...)
	}
	return tables
}

// loadWorkbook reads the configured sheets of one Excel file.
func (l *Loader) loadWorkbook(ctx context.Context, spec WorkbookSpec) []*Table {
	path := l.resolve(spec.Path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		l.logger.WarnContext(ctx, "skipping unreadable workbook",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	defer f.Close()

	available := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		available[name] = true
	}

	var tables []*Table
	for _, sheet := range spec.Sheets {
		if !available[sheet.Name] {
			l.logger.WarnContext(ctx, "sheet not found in workbook",
				slog.String("path", path),
				slog.String("sheet", sheet.Name))
			continue
		}
		rows, err := f.GetRows(sheet.Name)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping unreadable sheet",
				slog.String("path", path),
				slog.String("sheet", sheet.Name),
				slog.String("error", err.Error()))
			continue
		}
		t := l.buildTable(rows)
		if t == nil {
			continue
		}
		t.File = filepath.Base(path)
		t.Sheet = sheet.Name
		t.Kind = sheet.Kind
		l.clean(t, sheet.ColumnMapping)
		if !t.IsEmpty() {
			tables = append(tables, t)
		}
	}
	return tables
}

// loadCSV reads one CSV file, trying each configured encoding in order.
// Total failure yields nil and a logged warning, not an error.
func (l *Loader) loadCSV(ctx context.Context, spec CSVSpec) *Table {
	path := l.resolve(spec.Path)
	raw, err := os.ReadFile(path)
	if err != nil {
		l.logger.WarnContext(ctx, "skipping unreadable CSV",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	var rows [][]string
	decoded := false
	for _, enc := range l.cfg.Encodings {
		rows, err = decodeCSV(raw, enc)
		if err == nil {
			decoded = true
			l.logger.InfoContext(ctx, "decoded CSV",
				slog.String("path", path),
				slog.String("encoding", enc))
			break
		}
	}
	if !decoded {
		l.logger.WarnContext(ctx, "CSV unreadable under all encodings",
			slog.String("path", path),
			slog.Any("encodings", l.cfg.Encodings))
		return nil
	}

	t := l.buildTable(rows)
	if t == nil {
		return nil
	}
	t.File = filepath.Base(path)
	t.Kind = spec.Kind
	l.clean(t, spec.ColumnMapping)
	return t
}

// clean runs the fixed cleaning chain on one raw table.
func (l *Loader) clean(t *Table, mapping ColumnMapping) {
	dropEmpty(t)
	t.Columns = DedupeColumns(CleanColumnNames(t.Columns))
	l.promoter.Promote(t)
	mapping.Apply(t)
	l.coercer.Apply(t)
	CleanText(t)
	l.status.Apply(t)
}

// buildTable turns raw string rows into a table, taking the first row as the
// header. Blank cells become null.
func (l *Loader) buildTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}

	header := make([]string, width)
	copy(header, rows[0])
	t := NewTable(header)

	for _, row := range rows[1:] {
		cells := make([]Value, width)
		for i := 0; i < width; i++ {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = Text(row[i])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// resolve joins a relative source path onto the base directory.
func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.cfg.BaseDir == "" {
		return path
	}
	return filepath.Join(l.cfg.BaseDir, path)
}

// dropEmpty removes fully-empty rows and columns before any cleaning.
func dropEmpty(t *Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		empty := true
		for _, v := range row {
			if !v.IsNull() {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}
	t.Rows = kept

	var keepCols []int
	for i := range t.Columns {
		used := false
		for _, row := range t.Rows {
			if i < len(row) && !row[i].IsNull() {
				used = true
				break
			}
		}
		if used {
			keepCols = append(keepCols, i)
		}
	}
	if len(keepCols) == len(t.Columns) {
		return
	}
	columns := make([]string, len(keepCols))
	for j, i := range keepCols {
		columns[j] = t.Columns[i]
	}
	rows := make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		newRow := make([]Value, len(keepCols))
		for j, i := range keepCols {
			if i < len(row) {
				newRow[j] = row[i]
			}
		}
		rows[r] = newRow
	}
	t.Columns = columns
	t.Rows = rows
}

// decodeCSV decodes raw bytes under the named encoding and parses them as
// CSV. UTF-8 variants reject invalid byte sequences so that legacy encodings
// further down the fallback list get their turn.
func decodeCSV(raw []byte, encoding string) ([][]string, error) {
	var text []byte
	switch strings.ToLower(encoding) {
	case "utf-8":
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("invalid utf-8 data")
		}
		text = raw
	case "utf-8-sig":
		trimmed := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
		if !utf8.Valid(trimmed) {
			return nil, fmt.Errorf("invalid utf-8 data")
		}
		text = trimmed
	case "cp1256", "windows-1256":
		decoded, err := charmap.Windows1256.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode cp1256: %w", err)
		}
		text = decoded
	case "iso-8859-1", "latin-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode iso-8859-1: %w", err)
		}
		text = decoded
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}
