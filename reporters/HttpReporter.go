package reporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/reaandrew/s3hunter/core"
	log "github.com/sirupsen/logrus"
)

type ReportIdGenerator interface {
	Generate() string
}

type UuidReportGenerator struct {
}

func (u UuidReportGenerator) Generate() string {
	return uuid.New().String()
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewDefaultHttpReporter(baseUrl string) HttpReporter {
	return HttpReporter{
		BaseURL:           baseUrl,
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		ReportIdGenerator: UuidReportGenerator{},
	}
}

// HttpReporter posts findings to a collection service in batches and then
// marks the report as completed.
type HttpReporter struct {
	BaseURL           string
	HTTPClient        HttpClient
	ReportIdGenerator ReportIdGenerator
}

func (h HttpReporter) Report(repository core.FindingRepository) error {
	reportId := h.ReportIdGenerator.Generate()
	log.Printf("Reporting findings to %s as report %s", h.BaseURL, reportId)

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		findingSet, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next findings: %w", err)
		}

		if err := h.postFindings(findingSet, reportId); err != nil {
			return fmt.Errorf("failed to report findings: %w", err)
		}
	}

	if err := h.signalCompletion(reportId); err != nil {
		return fmt.Errorf("failed to signal completion: %w", err)
	}

	return nil
}

func (h HttpReporter) postFindings(findingSet core.FindingSet, reportId string) error {
	url := fmt.Sprintf("%s/reports/%s/results", h.BaseURL, reportId)

	payload, err := json.Marshal(findingSet)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return h.send(req)
}

func (h HttpReporter) signalCompletion(reportId string) error {
	url := fmt.Sprintf("%s/report/%s", h.BaseURL, reportId)
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader([]byte(`{"status": "completed"}`)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return h.send(req)
}

func (h HttpReporter) send(req *http.Request) error {
	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}
	return nil
}
