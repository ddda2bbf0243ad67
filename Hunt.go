package main

import (
	"context"
	"fmt"
	"io"

	"github.com/reaandrew/s3hunter/candidates"
	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/probes"
	"github.com/reaandrew/s3hunter/repositories"
	"github.com/reaandrew/s3hunter/scanners"
	"github.com/reaandrew/s3hunter/utils"
	log "github.com/sirupsen/logrus"
)

// Hunt is one complete run: generate candidates, probe them under the
// configured ceiling and collect the findings.
type Hunt struct {
	Config   utils.ScanConfig
	Words    []string
	Events   core.EventSink
	Progress utils.ProgressReporter
	// HttpClient replaces the real client when set.
	HttpClient probes.HttpClient
	// Out receives the start banner when set.
	Out io.Writer
}

// Run validates everything up front, so a ConfigurationError always means
// nothing was probed.
func (h Hunt) Run(ctx context.Context) (*repositories.MemoryFindingRepository, core.ScanSummary, error) {
	h.Config.Normalize()
	if err := h.Config.Validate(); err != nil {
		return nil, core.ScanSummary{}, err
	}

	filter, err := candidates.NewFilter(h.Config.Exclude)
	if err != nil {
		return nil, core.ScanSummary{}, utils.NewConfigurationError("exclude", err)
	}

	proberConfig, err := h.Config.ProberConfig()
	if err != nil {
		return nil, core.ScanSummary{}, err
	}

	generated := candidates.Generate(h.Config.Company, h.Words)
	bucketNames, invalid := candidates.SplitValid(filter.Apply(generated))
	for _, name := range invalid {
		log.Warnf("Skipping candidate %q: not a valid bucket hostname", name)
	}
	log.WithFields(log.Fields{
		"company":    h.Config.Company,
		"words":      len(h.Words),
		"candidates": len(bucketNames),
		"invalid":    len(invalid),
		"excluded":   len(generated) - len(bucketNames) - len(invalid),
	}).Info("Generated bucket candidates")

	if h.Out != nil {
		fmt.Fprintf(h.Out, "Starting scan for company: %s\n", h.Config.Company)
		fmt.Fprintf(h.Out, "Buckets to check: %d\n", len(bucketNames))
	}

	progress := h.Progress
	if progress == nil {
		progress = utils.NoopProgressReporter{}
	}
	progress.SetTotal(len(bucketNames))
	defer progress.Finish()

	repository := repositories.NewMemoryFindingRepository(progress)

	var prober *probes.HttpProber
	if h.HttpClient != nil {
		prober = probes.NewHttpProberWithClient(proberConfig, h.HttpClient, repository, h.Events)
	} else {
		prober, err = probes.NewHttpProber(proberConfig, repository, h.Events)
		if err != nil {
			return nil, core.ScanSummary{}, utils.NewConfigurationError("proxy", err)
		}
	}

	scanner := scanners.NewBucketScanner(prober, repository, h.Config.Threads)
	summary := scanner.Scan(ctx, bucketNames)
	return repository, summary, nil
}
