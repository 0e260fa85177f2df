// Package search turns free-form conversational messages into lexical query
// terms for the document index.
package search

import (
	"bufio"
	"os"
	"sort"
	"strings"
)

const fallbackPrefixRunes = 80

// TermExtractor strips a fixed stopword list from a natural-language message
// and keeps the longest surviving tokens as search terms.
type TermExtractor struct {
	stopwords map[string]struct{}
	maxTerms  int
}

func NewTermExtractor(stopwords []string, maxTerms int) *TermExtractor {
	if maxTerms <= 0 {
		maxTerms = 6
	}
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &TermExtractor{stopwords: stop, maxTerms: maxTerms}
}

// Extract returns up to maxTerms terms from message, longest first. When
// nothing survives the stopword filter, it falls back to a truncated prefix
// of the raw message so the query planner always receives something to match.
func (e *TermExtractor) Extract(message string) []string {
	message = strings.TrimSpace(message)
	if message == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, token := range tokenize(message) {
		word := strings.ToLower(token)
		if len([]rune(word)) < 3 {
			continue
		}
		if _, stop := e.stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}

	if len(terms) == 0 {
		return []string{truncateRunes(message, fallbackPrefixRunes)}
	}

	// Longest first; equal lengths keep message order for determinism.
	sort.SliceStable(terms, func(i, j int) bool {
		return len([]rune(terms[i])) > len([]rune(terms[j]))
	})
	if len(terms) > e.maxTerms {
		terms = terms[:e.maxTerms]
	}
	return terms
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r >= 0x00C0 && r <= 0x024F:
			return false
		}
		return true
	})
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// LoadStopwords reads one stopword per line from path, falling back to the
// compiled-in list when path is empty or unreadable.
func LoadStopwords(path string) []string {
	if path != "" {
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			var lines []string
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				lines = append(lines, line)
			}
			if len(lines) > 0 {
				return lines
			}
		}
	}
	return DefaultStopwords()
}
