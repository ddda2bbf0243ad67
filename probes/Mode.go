package probes

import "fmt"

// Mode decides what happens after an endpoint reports a bucket as found.
type Mode int

const (
	// ProbeAllProtocols probes HTTPS even when HTTP already found the bucket.
	ProbeAllProtocols Mode = iota
	// StopOnFirstFound skips the remaining endpoints once one finds the bucket.
	StopOnFirstFound
)

const (
	ProbeAllProtocolsName = "probe-all-protocols"
	StopOnFirstFoundName  = "stop-on-first-found"
)

func (m Mode) String() string {
	switch m {
	case ProbeAllProtocols:
		return ProbeAllProtocolsName
	case StopOnFirstFound:
		return StopOnFirstFoundName
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode. The empty string selects the
// default, ProbeAllProtocols.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", ProbeAllProtocolsName:
		return ProbeAllProtocols, nil
	case StopOnFirstFoundName:
		return StopOnFirstFound, nil
	}
	return ProbeAllProtocols, fmt.Errorf("unknown probe mode %q (supported: %s, %s)",
		name, ProbeAllProtocolsName, StopOnFirstFoundName)
}
