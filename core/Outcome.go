package core

// OutcomeKind classifies a probe of one endpoint.
type OutcomeKind int

const (
	FoundUnsigned OutcomeKind = iota
	FoundSigned
	NotFound
	// TransientError is produced per attempt and drives the retry loop. It is
	// never the terminal outcome of an endpoint.
	TransientError
	ExhaustedRetries
	// InvalidTarget means no request could be built for the endpoint. It is
	// terminal and never retried.
	InvalidTarget
)

var outcomeNames = map[OutcomeKind]string{
	FoundUnsigned:    "found-unsigned",
	FoundSigned:      "found-signed",
	NotFound:         "not-found",
	TransientError:   "transient-error",
	ExhaustedRetries: "exhausted-retries",
	InvalidTarget:    "invalid-target",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsFound reports whether the kind denotes an accessible bucket.
func (k OutcomeKind) IsFound() bool {
	return k == FoundUnsigned || k == FoundSigned
}

// IsTerminal reports whether the kind ends probing of an endpoint.
func (k OutcomeKind) IsTerminal() bool {
	return k != TransientError
}

// Outcome is the classified result of probing one endpoint of a candidate.
type Outcome struct {
	Candidate  string
	URL        string
	Scheme     string
	Kind       OutcomeKind
	StatusCode int
	ErrorClass string
	Err        error
	Attempts   int
}

// Finding converts a Found outcome into a Finding. ok is false for every
// other kind.
func (o Outcome) Finding() (finding Finding, ok bool) {
	if !o.Kind.IsFound() {
		return Finding{}, false
	}
	return Finding{
		Candidate:  o.Candidate,
		URL:        o.URL,
		Scheme:     o.Scheme,
		StatusCode: o.StatusCode,
		Signed:     o.Kind == FoundSigned,
	}, true
}
