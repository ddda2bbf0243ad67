package candidates

import (
	"fmt"
	"sort"
	"strings"
)

// Generate builds the de-duplicated set of bucket name guesses for org: every
// word both prefixed and suffixed to org with a hyphen, plus org itself. The
// result is sorted so that identical inputs, in any order, give identical
// output.
func Generate(org string, words []string) []string {
	set := make(map[string]struct{}, 2*len(words)+1)
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		set[fmt.Sprintf("%s-%s", word, org)] = struct{}{}
		set[fmt.Sprintf("%s-%s", org, word)] = struct{}{}
	}
	set[org] = struct{}{}

	candidates := make([]string, 0, len(set))
	for candidate := range set {
		candidates = append(candidates, candidate)
	}
	sort.Strings(candidates)
	return candidates
}
