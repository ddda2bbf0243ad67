package scanners

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/repositories"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxWorkers is the concurrency ceiling used when none is configured.
const DefaultMaxWorkers = 10

// Prober resolves one candidate. Implementations report findings through
// their own recorder and must not panic on transport failures.
type Prober interface {
	Probe(ctx context.Context, candidate string) []core.Outcome
}

type CandidateJob struct {
	Candidate string
}

// BucketScanner probes every candidate exactly once using a fixed pool of
// MaxWorkers goroutines, so no more than MaxWorkers probes run at a time.
type BucketScanner struct {
	Prober     Prober
	Repository *repositories.MemoryFindingRepository
	MaxWorkers int
}

func NewBucketScanner(prober Prober, repository *repositories.MemoryFindingRepository, maxWorkers int) *BucketScanner {
	return &BucketScanner{
		Prober:     prober,
		Repository: repository,
		MaxWorkers: maxWorkers,
	}
}

// Scan blocks until every candidate has been probed. Findings are available
// from the repository once it returns.
func (s *BucketScanner) Scan(ctx context.Context, candidates []string) core.ScanSummary {
	started := time.Now()
	scanID := uuid.New().String()

	workers := s.MaxWorkers
	if workers < 1 {
		workers = DefaultMaxWorkers
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	log.WithFields(log.Fields{
		"scan_id":    scanID,
		"candidates": len(candidates),
		"workers":    workers,
	}).Info("Starting bucket scan")

	jobs := make(chan CandidateJob, len(candidates))
	for _, candidate := range candidates {
		jobs <- CandidateJob{Candidate: candidate}
	}
	close(jobs)

	var panics atomic.Int64
	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go s.worker(ctx, w, jobs, &wg, &panics)
	}
	wg.Wait()

	summary := s.summarize(scanID, len(candidates), int(panics.Load()))
	summary.SetElapsed(time.Since(started))

	log.WithFields(log.Fields{
		"scan_id":  scanID,
		"findings": summary.Findings,
		"attempts": summary.Attempts,
		"elapsed":  summary.Elapsed,
	}).Info("Bucket scan finished")
	return summary
}

// worker drains jobs until the channel is closed.
func (s *BucketScanner) worker(ctx context.Context, id int, jobs <-chan CandidateJob, wg *sync.WaitGroup, panics *atomic.Int64) {
	defer wg.Done()
	for job := range jobs {
		log.WithFields(log.Fields{"worker": id, "candidate": job.Candidate}).Debug("Probing candidate")
		s.probe(ctx, job.Candidate, panics)
		if s.Repository != nil {
			s.Repository.RecordCompleted()
		}
	}
}

// probe isolates a single candidate so a panicking prober cannot take the
// worker, or its siblings, down with it.
func (s *BucketScanner) probe(ctx context.Context, candidate string, panics *atomic.Int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Probe of candidate '%s' panicked: %v", candidate, r)
			panics.Add(1)
		}
	}()
	s.Prober.Probe(ctx, candidate)
}

func (s *BucketScanner) summarize(scanID string, candidates int, panics int) core.ScanSummary {
	summary := core.ScanSummary{
		ScanID:     scanID,
		Candidates: candidates,
		Outcomes:   map[string]int{},
		Panics:     panics,
	}

	if s.Repository == nil {
		return summary
	}
	stats := s.Repository.Stats()
	summary.Attempts = stats.Attempts
	summary.Findings = stats.Findings
	for kind, count := range stats.Outcomes {
		summary.Outcomes[kind.String()] = count
	}
	return summary
}
