package core

// FindingSet is one batch of findings handed out by a FindingIterator.
type FindingSet struct {
	Findings []Finding `json:"findings"`
}

type FindingRepository interface {
	Store(findings ...Finding) error
	Clear() error
	NewIterator() FindingIterator
	Close() error
}

type FindingIterator interface {
	HasNext() bool
	Next() (FindingSet, error)
	Reset() error
}
