package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadWordlist reads one word per line from path, trimming whitespace and
// skipping blank lines.
func LoadWordlist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewConfigurationError("wordlist", fmt.Errorf("error reading wordlist: %w", err))
	}
	defer file.Close()

	words, err := ReadWordlist(file)
	if err != nil {
		return nil, NewConfigurationError("wordlist", fmt.Errorf("error reading wordlist %s: %w", path, err))
	}
	return words, nil
}

// ReadWordlist parses a newline separated wordlist.
func ReadWordlist(reader io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
