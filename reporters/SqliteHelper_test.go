package reporters

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reaandrew/s3hunter/core"
	"github.com/stretchr/testify/require"
)

func readSqliteFindings(t *testing.T, path string) []core.Finding {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT Candidate, URL, Scheme, StatusCode, Signed FROM Findings ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var findings []core.Finding
	for rows.Next() {
		var finding core.Finding
		require.NoError(t, rows.Scan(&finding.Candidate, &finding.URL, &finding.Scheme, &finding.StatusCode, &finding.Signed))
		findings = append(findings, finding)
	}
	require.NoError(t, rows.Err())
	return findings
}
