package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/revsense/internal"
)

// Store is the SQLite review history. Rows are only ever inserted.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		review TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		score REAL NOT NULL,
		sentiment TEXT NOT NULL,
		language TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews(created_at);
	CREATE INDEX IF NOT EXISTS idx_reviews_language ON reviews(language);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveReview records one processed review.
func (s *Store) SaveReview(ctx context.Context, rec internal.ReviewRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, review, translated_text, score, sentiment, language, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, normalizeText(rec.Review), rec.TranslatedText, rec.Score, rec.Sentiment, rec.Language, rec.Timestamp)
	return err
}

// ListReviews returns the most recent reviews first. limit <= 0 returns all.
func (s *Store) ListReviews(ctx context.Context, limit int) ([]internal.ReviewRecord, error) {
	query := `SELECT id, review, translated_text, score, sentiment, language, created_at FROM reviews ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.ReviewRecord
	for rows.Next() {
		var r internal.ReviewRecord
		if err := rows.Scan(&r.ID, &r.Review, &r.TranslatedText, &r.Score, &r.Sentiment, &r.Language, &r.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// Stats summarises the review history.
type Stats struct {
	Total        int
	AverageScore float64
	BySentiment  map[string]int
	ByLanguage   map[string]int
}

// Stats returns totals and per-verdict and per-language counts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		BySentiment: make(map[string]int),
		ByLanguage:  make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM reviews`).Scan(&stats.Total, &stats.AverageScore)
	if err != nil {
		return nil, err
	}

	if err := s.countBy(ctx, "sentiment", stats.BySentiment); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "language", stats.ByLanguage); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy fills dst with row counts grouped by column, which must be a
// trusted column name.
func (s *Store) countBy(ctx context.Context, column string, dst map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM reviews GROUP BY %s`, column, column))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// visually identical reviews are stored identically.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
