package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/utils"
	log "github.com/sirupsen/logrus"
)

var errNoMoreBatches = errors.New("no more batches")

// SqliteFindingRepository implements core.FindingRepository on a SQLite file.
type SqliteFindingRepository struct {
	mu        sync.Mutex
	db        *sql.DB
	batchSize int
}

// NewSqliteFindingRepository creates a new SQLite-backed repository at dbPath.
// Any existing file at dbPath is replaced.
func NewSqliteFindingRepository(dbPath string) (*SqliteFindingRepository, error) {
	db, err := utils.InitializeSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &SqliteFindingRepository{db: db, batchSize: DefaultBatchSize}, nil
}

func (r *SqliteFindingRepository) Store(findings ...core.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return utils.InsertFindings(r.db, findings)
}

func (r *SqliteFindingRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.Exec("DELETE FROM Findings"); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}
	return nil
}

// Count returns the number of stored findings.
func (r *SqliteFindingRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM Findings").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", err)
	}
	return count, nil
}

func (r *SqliteFindingRepository) NewIterator() core.FindingIterator {
	return &SqliteFindingIterator{repo: r}
}

// Close closes the underlying SQLite database.
func (r *SqliteFindingRepository) Close() error {
	return r.db.Close()
}

// SqliteFindingIterator walks the Findings table in id order, one batch per step.
type SqliteFindingIterator struct {
	repo       *SqliteFindingRepository
	currentID  int
	currentSet core.FindingSet
}

func (it *SqliteFindingIterator) HasNext() bool {
	err := it.loadNextBatch()
	if err != nil {
		if !errors.Is(err, errNoMoreBatches) {
			log.Errorf("Error loading findings with id > %d: %v", it.currentID, err)
		}
		it.currentSet = core.FindingSet{}
		return false
	}
	return true
}

func (it *SqliteFindingIterator) Next() (core.FindingSet, error) {
	if it.currentSet.Findings == nil {
		return core.FindingSet{}, fmt.Errorf("no more findings available")
	}
	return it.currentSet, nil
}

func (it *SqliteFindingIterator) Reset() error {
	it.currentID = 0
	it.currentSet = core.FindingSet{}
	return nil
}

func (it *SqliteFindingIterator) loadNextBatch() error {
	rows, err := it.repo.db.Query(`
		SELECT id, Candidate, URL, Scheme, StatusCode, Signed
		FROM Findings
		WHERE id > ?
		ORDER BY id ASC
		LIMIT ?
	`, it.currentID, it.repo.batchSize)
	if err != nil {
		return fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []core.Finding
	for rows.Next() {
		var id int
		var finding core.Finding
		if err := rows.Scan(&id, &finding.Candidate, &finding.URL, &finding.Scheme, &finding.StatusCode, &finding.Signed); err != nil {
			return fmt.Errorf("failed to scan finding row: %w", err)
		}
		it.currentID = id
		findings = append(findings, finding)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	if len(findings) == 0 {
		return errNoMoreBatches
	}

	it.currentSet = core.FindingSet{Findings: findings}
	return nil
}
