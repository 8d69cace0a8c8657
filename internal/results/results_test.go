package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	return NewLogger(filepath.Join(t.TempDir(), "results.xlsx"))
}

func TestNewLogger_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewLogger("").Path())
}

func TestLogger_Append_CreatesWorkbook(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	_, err := os.Stat(l.Path())
	require.True(t, os.IsNotExist(err))

	require.NoError(t, l.Append(ctx, Record{Review: "I love this product!", Sentiment: "Positive 😀", Language: "en"}))

	f, err := excelize.OpenFile(l.Path())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(f.GetActiveSheetIndex()))

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		Header,
		{"I love this product!", "Positive 😀", "en"},
	}, rows)
}

func TestLogger_Append_GrowsByOneRow(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	records := []Record{
		{Review: "I love this product!", Sentiment: "Positive 😀", Language: "en"},
		{Review: "Este producto es terrible", Sentiment: "Negative 😞", Language: "es"},
		{Review: "It is a table.", Sentiment: "Neutral 😐", Language: "en"},
	}

	for i, rec := range records {
		require.NoError(t, l.Append(ctx, rec))

		rows, err := l.Rows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, i+2)
		assert.Equal(t, Header, rows[0])
		assert.Equal(t, []string{rec.Review, rec.Sentiment, rec.Language}, rows[i+1])
	}
}

func TestLogger_Append_ColumnWidthsAfterEveryAppend(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	reviews := []string{
		"ok",
		"A much longer review that should widen the first column considerably",
		"short",
		"Ünïcödé revïew wïth äccents",
	}

	for _, review := range reviews {
		require.NoError(t, l.Append(ctx, Record{Review: review, Sentiment: "Neutral 😐", Language: "en"}))

		f, err := excelize.OpenFile(l.Path())
		require.NoError(t, err)

		rows, err := f.GetRows(SheetName)
		require.NoError(t, err)

		for col := 0; col < len(Header); col++ {
			longest := 0
			for _, row := range rows {
				if col < len(row) {
					longest = max(longest, utf8.RuneCountInString(row[col]))
				}
			}

			name, err := excelize.ColumnNumberToName(col + 1)
			require.NoError(t, err)
			width, err := f.GetColWidth(SheetName, name)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, width, float64(longest+2), "column %s", name)
		}
		f.Close()
	}
}

func TestLogger_Append_ReopensExistingSheet(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, Record{Review: "first", Sentiment: "Neutral 😐", Language: "en"}))

	// A second logger on the same path picks up the saved rows.
	other := NewLogger(l.Path())
	require.NoError(t, other.Append(ctx, Record{Review: "second", Sentiment: "Neutral 😐", Language: "en"}))

	rows, err := l.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[1][0])
	assert.Equal(t, "second", rows[2][0])
}

func TestLogger_Append_CorruptWorkbookLeftUntouched(t *testing.T) {
	l := newTestLogger(t)
	garbage := []byte("this is not a zip archive")
	require.NoError(t, os.WriteFile(l.Path(), garbage, 0o644))

	err := l.Append(context.Background(), Record{Review: "x", Sentiment: "Neutral 😐", Language: "en"})
	require.Error(t, err)

	got, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, garbage, got)
}

func TestLogger_Append_MissingDirectory(t *testing.T) {
	l := NewLogger(filepath.Join(t.TempDir(), "missing", "results.xlsx"))

	err := l.Append(context.Background(), Record{Review: "x", Sentiment: "Neutral 😐", Language: "en"})
	assert.Error(t, err)
}

func TestLogger_Append_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(filepath.Join(dir, "results.xlsx"))

	require.NoError(t, l.Append(context.Background(), Record{Review: "x", Sentiment: "Neutral 😐", Language: "en"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "results.xlsx", entries[0].Name())
}

func TestLogger_Append_Concurrent(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, l.Append(ctx, Record{Review: fmt.Sprintf("review %d", i), Sentiment: "Neutral 😐", Language: "en"}))
		}(i)
	}
	wg.Wait()

	rows, err := l.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, n+1)
}

func TestLogger_Append_CanceledContext(t *testing.T) {
	l := newTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Append(ctx, Record{Review: "x"}), context.Canceled)

	_, err := os.Stat(l.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_Append_SaveFailureKeepsCommittedFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(filepath.Join(dir, "results.xlsx"))
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, Record{Review: "first", Sentiment: "Positive 😀", Language: "en"}))
	committed, err := os.ReadFile(l.Path())
	require.NoError(t, err)

	boom := errors.New("rename: device busy")
	renameFile = func(string, string) error { return boom }
	t.Cleanup(func() { renameFile = os.Rename })

	err = l.Append(ctx, Record{Review: "second", Sentiment: "Negative 😞", Language: "en"})
	require.ErrorIs(t, err, boom)

	got, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, committed, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed")
}

func TestLogger_Append_RejectsUnstorableText(t *testing.T) {
	tests := []struct {
		name   string
		review string
		want   error
	}{
		{name: "over cell limit", review: strings.Repeat("a", excelize.TotalCellChars+1), want: ErrCellTooLong},
		{name: "control characters", review: "bad\x01review\x0b", want: ErrIllegalCharacter},
		{name: "invalid utf-8", review: "caf\xe9", want: ErrIllegalCharacter},
		{name: "noncharacter", review: "odd\uFFFE", want: ErrIllegalCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLogger(t)
			ctx := context.Background()
			require.NoError(t, l.Append(ctx, Record{Review: "first", Sentiment: "Neutral 😐", Language: "en"}))
			committed, err := os.ReadFile(l.Path())
			require.NoError(t, err)

			err = l.Append(ctx, Record{Review: tt.review, Sentiment: "Neutral 😐", Language: "en"})
			assert.ErrorIs(t, err, tt.want)

			got, err := os.ReadFile(l.Path())
			require.NoError(t, err)
			assert.Equal(t, committed, got)
		})
	}
}

func TestLogger_Append_KeepsTextVerbatim(t *testing.T) {
	l := newTestLogger(t)
	ctx := context.Background()

	reviews := []string{
		strings.Repeat("é", excelize.TotalCellChars),
		"line one\nline two\ttabbed",
		"emoji 😀 and 中文",
	}
	for _, review := range reviews {
		require.NoError(t, l.Append(ctx, Record{Review: review, Sentiment: "Neutral 😐", Language: "en"}))
	}

	rows, err := l.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(reviews)+1)
	for i, review := range reviews {
		assert.Equal(t, review, rows[i+1][0])
	}
}

func TestLogger_Append_ClampsColumnWidth(t *testing.T) {
	l := newTestLogger(t)
	review := strings.Repeat("x", 300)

	require.NoError(t, l.Append(context.Background(), Record{Review: review, Sentiment: "Positive 😀", Language: "en"}))

	f, err := excelize.OpenFile(l.Path())
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth(SheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(excelize.MaxColumnWidth), width)

	// Unclamped columns still get longest+2.
	width, err = f.GetColWidth(SheetName, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(utf8.RuneCountInString("Detected Language")+2), width)

	assert.Equal(t, float64(302), ColumnWidths([][]string{{review}})[0])
}

func TestLogger_Rows_MissingWorkbook(t *testing.T) {
	rows, err := newTestLogger(t).Rows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestColumnWidths(t *testing.T) {
	rows := [][]string{
		Header,
		{"I love this product!", "Positive 😀", "en"},
		{"Ok", "Neutral 😐", "en"},
	}

	assert.Equal(t, []float64{22, 12, 19}, ColumnWidths(rows))
	assert.Empty(t, ColumnWidths(nil))
}
