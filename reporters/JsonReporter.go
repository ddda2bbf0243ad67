package reporters

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reaandrew/s3hunter/core"
	log "github.com/sirupsen/logrus"
)

// JsonReporter writes findings as JSON lines, one object per finding.
type JsonReporter struct {
	OutputPath string
}

func (j JsonReporter) Report(repository core.FindingRepository) error {
	outputFile, err := os.Create(j.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON output file: %w", err)
	}
	defer outputFile.Close()

	encoder := json.NewEncoder(outputFile)
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next findings: %w", err)
		}
		for _, finding := range set.Findings {
			if err := encoder.Encode(finding); err != nil {
				return fmt.Errorf("failed to write finding to JSON output file: %w", err)
			}
		}
	}

	log.Printf("JSON report generated successfully: %s", outputFile.Name())
	return nil
}
