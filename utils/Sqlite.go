package utils

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reaandrew/s3hunter/core"
)

// InitializeSQLiteDB creates a fresh SQLite database at dbPath, replacing any
// existing file, and applies the Findings schema.
func InitializeSQLiteDB(dbPath string) (*sql.DB, error) {
	if err := DeleteFileIfExists(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// One-shot bulk load, durability of the last transaction is not needed.
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = OFF;")

	createStmt := `CREATE TABLE IF NOT EXISTS Findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Candidate TEXT,
		URL TEXT,
		Scheme TEXT,
		StatusCode INTEGER,
		Signed INTEGER
	);`

	if _, err := db.Exec(createStmt); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create findings table: %w", err)
	}

	return db, nil
}

// InsertFindings writes findings in a single transaction.
func InsertFindings(db *sql.DB, findings []core.Finding) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO Findings (Candidate, URL, Scheme, StatusCode, Signed)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, finding := range findings {
		_, execErr := stmt.Exec(
			finding.Candidate,
			finding.URL,
			finding.Scheme,
			finding.StatusCode,
			finding.Signed,
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert finding '%s': %w", finding.URL, execErr)
		}
	}

	return nil
}
