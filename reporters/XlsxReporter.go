package reporters

import (
	"fmt"

	"github.com/reaandrew/s3hunter/core"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const FindingsSheet = "Findings"

// XlsxReporter writes findings to a single sheet workbook.
type XlsxReporter struct {
	OutputPath string
}

func (x XlsxReporter) Report(repository core.FindingRepository) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, FindingsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet '%s': %w", defaultSheet, err)
	}

	headers := []interface{}{"Candidate", "URL", "Scheme", "Status", "Signed"}
	if err := f.SetSheetRow(FindingsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set headers for sheet '%s': %w", FindingsSheet, err)
	}

	rowNum := 2
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next findings: %w", err)
		}
		for _, finding := range set.Findings {
			rowData := []interface{}{
				finding.Candidate,
				finding.URL,
				finding.Scheme,
				finding.StatusCode,
				finding.Signed,
			}
			cellAddress, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to get cell address for row %d: %w", rowNum, err)
			}
			if err := f.SetSheetRow(FindingsSheet, cellAddress, &rowData); err != nil {
				return fmt.Errorf("failed to set data for row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}

	if err := f.SaveAs(x.OutputPath); err != nil {
		return fmt.Errorf("failed to save XLSX file '%s': %w", x.OutputPath, err)
	}

	log.Printf("XLSX report generated successfully: %s", x.OutputPath)
	return nil
}
