package candidates

import "regexp"

// A candidate becomes the leftmost labels of a hostname, so it may only hold
// letters, digits, hyphens and dots, and must start and end alphanumeric.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9.-]*[A-Za-z0-9])?$`)

// IsValidName reports whether name can be used as a bucket host prefix.
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// SplitValid separates the names that can form a hostname from those that
// cannot, preserving order.
func SplitValid(names []string) (valid []string, invalid []string) {
	valid = make([]string, 0, len(names))
	for _, name := range names {
		if IsValidName(name) {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	return valid, invalid
}
