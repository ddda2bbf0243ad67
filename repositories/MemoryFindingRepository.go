package repositories

import (
	"fmt"
	"sync"

	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/utils"
)

// DefaultBatchSize is the number of findings handed out per iterator step.
const DefaultBatchSize = 100

// Stats is a point-in-time copy of the counters kept by MemoryFindingRepository.
type Stats struct {
	Attempts  int
	Completed int
	Findings  int
	Outcomes  map[core.OutcomeKind]int
}

// MemoryFindingRepository collects findings and progress counters from
// concurrently running probes. Every mutation happens under one mutex.
type MemoryFindingRepository struct {
	mu        sync.Mutex
	findings  []core.Finding
	attempts  int
	completed int
	outcomes  map[core.OutcomeKind]int
	progress  utils.ProgressReporter
	batchSize int
}

// NewMemoryFindingRepository creates an empty repository. progress may be nil.
func NewMemoryFindingRepository(progress utils.ProgressReporter) *MemoryFindingRepository {
	return &MemoryFindingRepository{
		findings:  make([]core.Finding, 0),
		outcomes:  make(map[core.OutcomeKind]int),
		progress:  progress,
		batchSize: DefaultBatchSize,
	}
}

// Store appends findings in the order they arrive.
func (r *MemoryFindingRepository) Store(findings ...core.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, findings...)
	return nil
}

// RecordAttempt counts one request sent by a probe.
func (r *MemoryFindingRepository) RecordAttempt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
}

// RecordOutcome counts a terminal outcome for one endpoint.
func (r *MemoryFindingRepository) RecordOutcome(outcome core.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome.Kind]++
}

// RecordCompleted marks one candidate as fully probed and advances the
// progress reporter.
func (r *MemoryFindingRepository) RecordCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	if r.progress != nil {
		r.progress.Increment()
	}
}

// Findings returns a copy of the stored findings in append order.
func (r *MemoryFindingRepository) Findings() []core.Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	findings := make([]core.Finding, len(r.findings))
	copy(findings, r.findings)
	return findings
}

func (r *MemoryFindingRepository) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcomes := make(map[core.OutcomeKind]int, len(r.outcomes))
	for kind, count := range r.outcomes {
		outcomes[kind] = count
	}
	return Stats{
		Attempts:  r.attempts,
		Completed: r.completed,
		Findings:  len(r.findings),
		Outcomes:  outcomes,
	}
}

// Clear drops all findings and counters.
func (r *MemoryFindingRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = make([]core.Finding, 0)
	r.attempts = 0
	r.completed = 0
	r.outcomes = make(map[core.OutcomeKind]int)
	return nil
}

func (r *MemoryFindingRepository) Close() error {
	return nil
}

// NewIterator iterates over a snapshot of the findings taken now.
func (r *MemoryFindingRepository) NewIterator() core.FindingIterator {
	return &MemoryFindingIterator{
		findings:  r.Findings(),
		batchSize: r.batchSize,
	}
}

// MemoryFindingIterator hands out findings in fixed-size batches.
type MemoryFindingIterator struct {
	findings  []core.Finding
	batchSize int
	position  int
	current   core.FindingSet
}

// HasNext loads the next batch, returning false once all findings are consumed.
func (it *MemoryFindingIterator) HasNext() bool {
	if it.position >= len(it.findings) {
		it.current = core.FindingSet{}
		return false
	}
	end := it.position + it.batchSize
	if end > len(it.findings) {
		end = len(it.findings)
	}
	it.current = core.FindingSet{Findings: it.findings[it.position:end]}
	it.position = end
	return true
}

// Next returns the batch loaded by the last successful HasNext.
func (it *MemoryFindingIterator) Next() (core.FindingSet, error) {
	if it.current.Findings == nil {
		return core.FindingSet{}, fmt.Errorf("no more findings available")
	}
	return it.current, nil
}

func (it *MemoryFindingIterator) Reset() error {
	it.position = 0
	it.current = core.FindingSet{}
	return nil
}
