package reporters

import (
	"bufio"
	"fmt"
	"os"

	"github.com/reaandrew/s3hunter/core"
	log "github.com/sirupsen/logrus"
)

// TextReporter writes one finding per line as "{url} ({status})".
type TextReporter struct {
	OutputPath string
}

func (t TextReporter) Report(repository core.FindingRepository) error {
	outputFile, err := os.Create(t.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	writer := bufio.NewWriter(outputFile)
	count := 0
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next findings: %w", err)
		}
		for _, finding := range set.Findings {
			if _, err := writer.WriteString(finding.String() + "\n"); err != nil {
				return fmt.Errorf("failed to write to output file: %w", err)
			}
			count++
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	log.Printf("Saved %d findings to %s", count, t.OutputPath)
	return nil
}
