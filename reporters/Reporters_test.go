package reporters

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTextReporterWritesOneLinePerFinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.txt")

	err := TextReporter{OutputPath: path}.Report(sampleRepository(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://acme-dev.s3.amazonaws.com (200)\nhttp://acme.s3.amazonaws.com (307)\n", string(data))
}

func TestTextReporterWithNoFindingsWritesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.txt")

	err := TextReporter{OutputPath: path}.Report(repositories.NewMemoryFindingRepository(nil))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJsonReporterWritesJsonLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.json")

	require.NoError(t, JsonReporter{OutputPath: path}.Report(sampleRepository(t)))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var findings []core.Finding
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var finding core.Finding
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &finding))
		findings = append(findings, finding)
	}
	require.Len(t, findings, 2)
	assert.True(t, findings[0].Signed)
	assert.Equal(t, 307, findings[1].StatusCode)
}

func TestXlsxReporterWritesFindingsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.xlsx")

	require.NoError(t, XlsxReporter{OutputPath: path}.Report(sampleRepository(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(FindingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Candidate", "URL", "Scheme", "Status", "Signed"}, rows[0])
	assert.Equal(t, "https://acme-dev.s3.amazonaws.com", rows[1][1])
	assert.Equal(t, "200", rows[1][3])
}

func TestSqliteReporterCopiesFindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.db")

	require.NoError(t, SqliteReporter{DBPath: path}.Report(sampleRepository(t)))

	// reopening through the repository would replace the file, so query directly
	stored := readSqliteFindings(t, path)
	require.Len(t, stored, 2)
	assert.Equal(t, "acme-dev", stored[0].Candidate)
	assert.True(t, stored[0].Signed)
}

func TestCreateReporter(t *testing.T) {
	testCases := []struct {
		options  Options
		expected interface{}
		isNil    bool
		wantErr  bool
	}{
		{options: Options{Format: "text"}, isNil: true},
		{options: Options{Format: "", OutputPath: "out.txt"}, expected: TextReporter{OutputPath: "out.txt"}},
		{options: Options{Format: "json"}, expected: JsonReporter{OutputPath: DefaultJsonReport}},
		{options: Options{Format: "xlsx", OutputPath: "x.xlsx"}, expected: XlsxReporter{OutputPath: "x.xlsx"}},
		{options: Options{Format: "sqlite"}, expected: SqliteReporter{DBPath: DefaultSqliteReport}},
		{options: Options{Format: "http"}, wantErr: true},
		{options: Options{Format: "pdf"}, wantErr: true},
	}

	for _, tc := range testCases {
		reporter, err := CreateReporter(tc.options)
		if tc.wantErr {
			assert.Error(t, err, tc.options.Format)
			continue
		}
		require.NoError(t, err)
		if tc.isNil {
			assert.Nil(t, reporter)
			continue
		}
		assert.Equal(t, tc.expected, reporter)
	}

	reporter, err := CreateReporter(Options{Format: "http", BaseURL: "https://collector"})
	require.NoError(t, err)
	assert.Equal(t, "https://collector", reporter.(HttpReporter).BaseURL)
}
