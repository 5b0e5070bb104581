// Package store persists statistics rows in DuckDB so downstream
// essentiality analysis can query them without re-parsing TSV output.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/tnseq/insertstats/internal/stats"
)

// Store manages a DuckDB connection holding gene insert site rows.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the rows table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS gene_insert_sites (
		source VARCHAR,
		locus_tag VARCHAR,
		gene_name VARCHAR,
		ncrna BOOLEAN,
		start_pos BIGINT,
		end_pos BIGINT,
		strand INTEGER,
		read_count BIGINT,
		ins_index DOUBLE,
		gene_length BIGINT,
		ins_count BIGINT,
		fcn VARCHAR,
		PRIMARY KEY (source, locus_tag, start_pos, end_pos)
	)`)
	return err
}

// WriteRows upserts one output stream's rows under the given source
// name (the output stream's base name).
func (s *Store) WriteRows(source string, rows []*stats.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO gene_insert_sites
		(source, locus_tag, gene_name, ncrna, start_pos, end_pos, strand,
		 read_count, ins_index, gene_length, ins_count, fcn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(source, r.ID, r.Name, r.RNA, r.Start, r.End,
			int32(r.Strand), r.ReadCount, r.InsertionIndex, r.Length,
			r.InsertionCount, r.Label)
		if err != nil {
			return fmt.Errorf("insert row %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM gene_insert_sites`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
