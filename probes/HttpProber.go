package probes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/reaandrew/s3hunter/core"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultStorageDomain   = "s3.amazonaws.com"
	DefaultSignatureHeader = "x-amz-request-id"
	DefaultTimeout         = 5 * time.Second
	DefaultRetries         = 2
	DefaultBackoff         = time.Second
	DefaultUserAgent       = "s3hunter"
)

// Config controls how a candidate is probed.
type Config struct {
	StorageDomain   string
	SignatureHeader string
	Timeout         time.Duration
	Retries         int
	Backoff         time.Duration
	Proxy           string
	Mode            Mode
	UserAgent       string
	// RequestsPerSecond caps the request rate across all probes sharing the
	// prober. Zero means no cap.
	RequestsPerSecond float64
}

func DefaultConfig() Config {
	return Config{
		StorageDomain:   DefaultStorageDomain,
		SignatureHeader: DefaultSignatureHeader,
		Timeout:         DefaultTimeout,
		Retries:         DefaultRetries,
		Backoff:         DefaultBackoff,
		Mode:            ProbeAllProtocols,
		UserAgent:       DefaultUserAgent,
	}
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder receives everything a probe learns.
type Recorder interface {
	Store(findings ...core.Finding) error
	RecordAttempt()
	RecordOutcome(outcome core.Outcome)
}

// Endpoint is one URL a candidate is probed on.
type Endpoint struct {
	Scheme string
	URL    string
}

// HttpProber resolves whether a candidate bucket exists by sending HEAD
// requests to its HTTP and HTTPS endpoints.
type HttpProber struct {
	config   Config
	client   HttpClient
	recorder Recorder
	events   core.EventSink
	limiter  *rate.Limiter
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewHttpProber builds a prober with a real HTTP client configured from
// config.
func NewHttpProber(config Config, recorder Recorder, events core.EventSink) (*HttpProber, error) {
	client, err := NewHttpClient(config)
	if err != nil {
		return nil, err
	}
	return NewHttpProberWithClient(config, client, recorder, events), nil
}

// NewHttpProberWithClient builds a prober on top of an existing client.
func NewHttpProberWithClient(config Config, client HttpClient, recorder Recorder, events core.EventSink) *HttpProber {
	if config.StorageDomain == "" {
		config.StorageDomain = DefaultStorageDomain
	}
	if config.SignatureHeader == "" {
		config.SignatureHeader = DefaultSignatureHeader
	}
	if events == nil {
		events = core.DiscardEvents
	}
	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	return &HttpProber{
		config:   config,
		client:   client,
		recorder: recorder,
		events:   events,
		limiter:  limiter,
		sleep:    sleepContext,
	}
}

// NewHttpClient returns a client that never follows redirects and routes
// both schemes through config.Proxy when it is set.
func NewHttpClient(config Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.Proxy != "" {
		proxyURL, err := ParseProxyURL(config.Proxy)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// ParseProxyURL validates a forward proxy URL such as http://127.0.0.1:8080.
func ParseProxyURL(raw string) (*url.URL, error) {
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL '%s': %w", raw, err)
	}
	switch proxyURL.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("invalid proxy URL '%s': unsupported scheme %q", raw, proxyURL.Scheme)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy URL '%s': missing host", raw)
	}
	return proxyURL, nil
}

// SetSleep replaces the backoff sleep, mainly so tests do not wait.
func (p *HttpProber) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	p.sleep = sleep
}

func (p *HttpProber) Config() Config {
	return p.config
}

// Endpoints lists the URLs probed for candidate, in probing order.
func (p *HttpProber) Endpoints(candidate string) []Endpoint {
	host := fmt.Sprintf("%s.%s", candidate, p.config.StorageDomain)
	return []Endpoint{
		{Scheme: "http", URL: "http://" + host},
		{Scheme: "https", URL: "https://" + host},
	}
}

// Probe returns one terminal outcome per endpoint it attempted. Findings and
// counters go to the recorder as they happen.
func (p *HttpProber) Probe(ctx context.Context, candidate string) []core.Outcome {
	var outcomes []core.Outcome
	for _, endpoint := range p.Endpoints(candidate) {
		outcome := p.probeEndpoint(ctx, candidate, endpoint)
		outcomes = append(outcomes, outcome)
		p.record(outcome)

		if outcome.Kind.IsFound() && p.config.Mode == StopOnFirstFound {
			break
		}
	}
	return outcomes
}

func (p *HttpProber) record(outcome core.Outcome) {
	if p.recorder == nil {
		return
	}
	p.recorder.RecordOutcome(outcome)
	if finding, ok := outcome.Finding(); ok {
		if err := p.recorder.Store(finding); err != nil {
			log.Errorf("Failed to store finding %s: %v", finding.URL, err)
		}
	}
}

// probeEndpoint retries transport failures up to Retries times with a fixed
// backoff. Any HTTP response ends the loop.
func (p *HttpProber) probeEndpoint(ctx context.Context, candidate string, endpoint Endpoint) core.Outcome {
	retries := p.config.Retries
	if retries < 0 {
		retries = 0
	}

	var last core.Outcome
	for attempt := 1; attempt <= retries+1; attempt++ {
		last = p.attempt(ctx, candidate, endpoint)
		last.Attempts = attempt

		if last.Kind.IsTerminal() {
			p.emitResponse(last)
			return last
		}

		p.events.Emit(core.Event{
			Kind:       core.EventError,
			URL:        endpoint.URL,
			ErrorClass: last.ErrorClass,
			Err:        last.Err,
			Attempt:    attempt,
			Retries:    retries,
		})
		log.WithFields(log.Fields{
			"url":     endpoint.URL,
			"attempt": attempt,
			"class":   last.ErrorClass,
		}).Debugf("Probe failed: %v", last.Err)

		if attempt > retries {
			break
		}
		if err := p.sleep(ctx, p.config.Backoff); err != nil {
			log.WithField("url", endpoint.URL).Debugf("Backoff interrupted: %v", err)
			break
		}
		p.events.Emit(core.Event{
			Kind:    core.EventRetry,
			URL:     endpoint.URL,
			Attempt: attempt,
			Retries: retries,
		})
	}

	exhausted := core.Outcome{
		Candidate:  candidate,
		URL:        endpoint.URL,
		Scheme:     endpoint.Scheme,
		Kind:       core.ExhaustedRetries,
		ErrorClass: last.ErrorClass,
		Err:        last.Err,
		Attempts:   last.Attempts,
	}
	p.events.Emit(core.Event{
		Kind:       core.EventGiveUp,
		URL:        endpoint.URL,
		ErrorClass: exhausted.ErrorClass,
		Err:        exhausted.Err,
		Attempt:    exhausted.Attempts,
		Retries:    retries,
	})
	return exhausted
}

// attempt sends a single HEAD request and classifies the result.
func (p *HttpProber) attempt(ctx context.Context, candidate string, endpoint Endpoint) core.Outcome {
	outcome := core.Outcome{
		Candidate: candidate,
		URL:       endpoint.URL,
		Scheme:    endpoint.Scheme,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint.URL, nil)
	if err != nil {
		outcome.Kind = core.InvalidTarget
		outcome.ErrorClass = ErrorClassInvalidRequest
		outcome.Err = err
		return outcome
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			outcome.Kind = core.TransientError
			outcome.ErrorClass = ClassifyError(err)
			outcome.Err = err
			return outcome
		}
	}

	if p.recorder != nil {
		p.recorder.RecordAttempt()
	}
	if p.config.UserAgent != "" {
		req.Header.Set("User-Agent", p.config.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		outcome.Kind = core.TransientError
		outcome.ErrorClass = ClassifyError(err)
		outcome.Err = err
		return outcome
	}
	if resp.Body != nil {
		resp.Body.Close()
	}

	outcome.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		outcome.Kind = core.NotFound
	case resp.Header.Get(p.config.SignatureHeader) != "":
		outcome.Kind = core.FoundSigned
	default:
		outcome.Kind = core.FoundUnsigned
	}
	return outcome
}

func (p *HttpProber) emitResponse(outcome core.Outcome) {
	event := core.Event{
		URL:        outcome.URL,
		StatusCode: outcome.StatusCode,
		Attempt:    outcome.Attempts,
		Retries:    p.config.Retries,
	}
	switch {
	case outcome.Kind.IsFound():
		event.Kind = core.EventFound
		event.Signed = outcome.Kind == core.FoundSigned
	case outcome.Kind == core.InvalidTarget:
		event.Kind = core.EventError
		event.ErrorClass = outcome.ErrorClass
		event.Err = outcome.Err
	default:
		event.Kind = core.EventNotFound
	}
	p.events.Emit(event)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
