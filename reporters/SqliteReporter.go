package reporters

import (
	"fmt"

	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/repositories"
	log "github.com/sirupsen/logrus"
)

// SqliteReporter copies findings into the Findings table of a fresh SQLite
// database.
type SqliteReporter struct {
	DBPath string
}

func (s SqliteReporter) Report(repository core.FindingRepository) error {
	target, err := repositories.NewSqliteFindingRepository(s.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite database: %w", err)
	}
	defer target.Close()

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next findings: %w", err)
		}
		if err := target.Store(set.Findings...); err != nil {
			return fmt.Errorf("failed to store findings: %w", err)
		}
	}

	count, err := target.Count()
	if err != nil {
		return err
	}
	log.Printf("SQLite report generated successfully: %s (%d findings)", s.DBPath, count)
	return nil
}
