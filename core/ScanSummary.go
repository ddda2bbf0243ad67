package core

import "time"

// ScanSummary reports the totals of a completed scan.
type ScanSummary struct {
	ScanID     string         `json:"scan_id"`
	Candidates int            `json:"candidates"`
	Attempts   int            `json:"attempts"`
	Findings   int            `json:"findings"`
	Outcomes   map[string]int `json:"outcomes"`
	Panics     int            `json:"panics"`
	Elapsed    time.Duration  `json:"-"`
	ElapsedMs  int64          `json:"elapsed_ms"`
}

// SetElapsed records the scan duration in both forms.
func (s *ScanSummary) SetElapsed(elapsed time.Duration) {
	s.Elapsed = elapsed
	s.ElapsedMs = elapsed.Milliseconds()
}
