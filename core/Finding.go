package core

import "fmt"

// Finding is a confirmed, publicly reachable bucket endpoint.
type Finding struct {
	Candidate  string `json:"candidate"`
	URL        string `json:"url"`
	Scheme     string `json:"scheme"`
	StatusCode int    `json:"status_code"`
	Signed     bool   `json:"signed"`
}

// String renders the finding in the line format used for output files.
func (f Finding) String() string {
	return fmt.Sprintf("%s (%d)", f.URL, f.StatusCode)
}
