// Package results keeps the append-only xlsx log of analyzed reviews.
package results

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the sheet created for a new workbook.
	SheetName = "Sentiment Results"

	// DefaultPath is where the workbook lives unless configured otherwise.
	DefaultPath = "sentiment_analysis_results.xlsx"

	columnPadding = 2
)

// Header is always the first row of the sheet.
var Header = []string{"Review", "Sentiment", "Detected Language"}

var (
	// ErrCellTooLong rejects text longer than a worksheet cell can hold.
	ErrCellTooLong = errors.New("text exceeds the cell length limit")

	// ErrIllegalCharacter rejects text that cannot be stored in the sheet XML.
	ErrIllegalCharacter = errors.New("text contains a character not allowed in a worksheet")
)

// Record is one row of the log.
type Record struct {
	Review    string
	Sentiment string
	Language  string
}

func (r Record) row() []interface{} {
	return []interface{}{r.Review, r.Sentiment, r.Language}
}

// validate refuses values excelize would otherwise truncate or replace.
func (r Record) validate() error {
	for i, v := range []string{r.Review, r.Sentiment, r.Language} {
		if err := checkCell(v); err != nil {
			return fmt.Errorf("column %q: %w", Header[i], err)
		}
	}
	return nil
}

func checkCell(s string) error {
	if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
		return fmt.Errorf("%w: %d characters, at most %d allowed", ErrCellTooLong, n, excelize.TotalCellChars)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8", ErrIllegalCharacter)
	}
	for i, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U at byte %d", ErrIllegalCharacter, r, i)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Logger appends records to a workbook on disk. Each append is a full
// read-modify-write of the file, serialized by mu; separate processes writing
// the same path are not coordinated.
type Logger struct {
	path string
	mu   sync.Mutex
}

func NewLogger(path string) *Logger {
	if path == "" {
		path = DefaultPath
	}
	return &Logger{path: path}
}

func (l *Logger) Path() string {
	return l.path
}

// Append adds rec as the last row, recomputes column widths from every row
// and replaces the file atomically. Text the format cannot store unchanged is
// rejected with ErrCellTooLong or ErrIllegalCharacter. On error the
// previously saved workbook is left as it was.
func (l *Logger) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, sheet, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	row := rec.row()
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	if err := applyColumnWidths(f, sheet); err != nil {
		return err
	}

	return save(f, l.path)
}

// Rows returns all rows including the header. A missing workbook yields no rows.
func (l *Logger) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := excelize.OpenFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
}

// open loads the workbook and its active sheet, or builds a fresh one with
// the header row when the file does not exist yet.
func (l *Logger) open() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(l.path)
	if err == nil {
		return f, f.GetSheetName(f.GetActiveSheetIndex()), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to write header: %w", err)
	}
	return f, SheetName, nil
}

// ColumnWidths returns, per column, the longest cell length in runes over all
// rows plus padding.
func ColumnWidths(rows [][]string) []float64 {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			n := utf8.RuneCountInString(cell)
			if i < len(widths) {
				widths[i] = max(widths[i], n)
			} else {
				widths = append(widths, n)
			}
		}
	}

	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = float64(w + columnPadding)
	}
	return out
}

func applyColumnWidths(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	for i, width := range ColumnWidths(rows) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		// The format caps column width; longer reviews get the widest column allowed.
		if err := f.SetColWidth(sheet, col, col, min(width, excelize.MaxColumnWidth)); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}

// renameFile is replaced in tests to fail the final step of a save.
var renameFile = os.Rename

// save writes the workbook next to path and renames it into place so readers
// never observe a partially written file.
func save(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}

	if err := renameFile(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}
