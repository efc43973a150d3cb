// Package store exports finished runs to a SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/report"
)

// Store handles persistence of exported runs to SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens an export database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating export directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return s.dbPath
}

// SaveRun writes a run and its results in a single transaction and returns
// the run ID.
func (s *Store) SaveRun(root string, sum report.Summary, results []analysis.Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	likelihoods := make([]string, len(sum.Filter.Likelihoods))
	for i, l := range sum.Filter.Likelihoods {
		likelihoods[i] = string(l)
	}
	if _, err := tx.Exec(`
		INSERT INTO runs (id, created_at, root, profile, restriction, sort_order, likelihoods)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, time.Now().UTC().Format(time.RFC3339), root, sum.ProfileName,
		sum.Restriction.String(), sum.Filter.SortDescription(), strings.Join(likelihoods, ",")); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, r := range results {
		res, err := tx.Exec(`
			INSERT INTO tokens (run_id, spelling, status, reason, first_path)
			VALUES (?, ?, ?, ?, ?)
		`, id, r.Spelling, string(r.UsageLikelihood.Status), r.UsageLikelihood.Reason, r.FirstPath())
		if err != nil {
			return "", fmt.Errorf("inserting token %q: %w", r.Spelling, err)
		}
		tokenID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("reading token id: %w", err)
		}

		for _, d := range r.Definitions {
			if _, err := tx.Exec(`
				INSERT INTO definitions (token_id, name, file_path, language, kind, address)
				VALUES (?, ?, ?, ?, ?, ?)
			`, tokenID, d.Name, d.FilePath, string(d.Language), string(d.Kind), d.Address); err != nil {
				return "", fmt.Errorf("inserting definition: %w", err)
			}
		}

		for _, path := range r.OccurredPaths() {
			for _, o := range r.Occurrences[path] {
				if _, err := tx.Exec(`
					INSERT INTO occurrences (token_id, file_path, line, col)
					VALUES (?, ?, ?, ?)
				`, tokenID, path, o.Line, o.Column); err != nil {
					return "", fmt.Errorf("inserting occurrence: %w", err)
				}
			}
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO metadata (key, value)
		VALUES ('last_run', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, id); err != nil {
		return "", fmt.Errorf("storing metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// GetMetadata retrieves a value from the metadata table.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	return value, err
}

// Stats holds counts for one exported run.
type Stats struct {
	TokenCount      int `json:"token_count"`
	DefinitionCount int `json:"definition_count"`
	OccurrenceCount int `json:"occurrence_count"`
}

// GetStats returns counts for the given run.
func (s *Store) GetStats(runID string) (*Stats, error) {
	stats := &Stats{}

	rows := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM tokens WHERE run_id = ?", &stats.TokenCount},
		{"SELECT COUNT(*) FROM definitions d JOIN tokens t ON t.id = d.token_id WHERE t.run_id = ?", &stats.DefinitionCount},
		{"SELECT COUNT(*) FROM occurrences o JOIN tokens t ON t.id = o.token_id WHERE t.run_id = ?", &stats.OccurrenceCount},
	}

	for _, r := range rows {
		if err := s.db.QueryRow(r.query, runID).Scan(r.dest); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}
	return stats, nil
}

// Statuses returns spelling → status for a run, for inspection in tests and tooling.
func (s *Store) Statuses(runID string) (map[string]analysis.Status, error) {
	rows, err := s.db.Query("SELECT spelling, status FROM tokens WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	out := make(map[string]analysis.Status)
	for rows.Next() {
		var spelling, status string
		if err := rows.Scan(&spelling, &status); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		out[spelling] = analysis.Status(status)
	}
	return out, rows.Err()
}
