package tagging

import (
	"bufio"
	"os"
	"strings"
)

const maxKeywordSeeds = 10

// Tagger derives structured attributes from an uploaded document's filename.
// The city reference list and the stopword list are injected at construction
// so tests can substitute their own.
type Tagger struct {
	cities    []string
	stopwords map[string]struct{}
}

func NewTagger(cities, stopwords []string) *Tagger {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Tagger{cities: cities, stopwords: stop}
}

// Cities returns the subset of the reference list appearing as a
// case-insensitive substring of the filename. Matching runs on the filename
// only: titles are curated, while extracted body text is too noisy to tag
// from. Never returns nil; duplicates are eliminated.
func (t *Tagger) Cities(filename string) []string {
	matched := []string{}
	if strings.TrimSpace(filename) == "" {
		return matched
	}
	lower := strings.ToLower(filename)
	seen := make(map[string]struct{})
	for _, city := range t.cities {
		key := strings.ToLower(city)
		if _, dup := seen[key]; dup {
			continue
		}
		if strings.Contains(lower, key) {
			seen[key] = struct{}{}
			matched = append(matched, city)
		}
	}
	return matched
}

// Keywords returns lowercase keyword seeds derived from the filename: title
// tokens with stopwords and short fragments removed, deduplicated, capped.
func (t *Tagger) Keywords(filename string) []string {
	keywords := []string{}
	seen := make(map[string]struct{})
	for _, token := range splitTokens(filename) {
		word := strings.ToLower(token)
		if len([]rune(word)) < 4 {
			continue
		}
		if _, stop := t.stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) >= maxKeywordSeeds {
			break
		}
	}
	return keywords
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r >= 0x00C0 && r <= 0x024F: // accented latin letters
			return false
		}
		return true
	})
}

// LoadCities reads one city name per line from path; blank lines and lines
// starting with '#' are skipped. Falls back to the compiled-in list when path
// is empty or unreadable.
func LoadCities(path string) []string {
	if list := loadLines(path); len(list) > 0 {
		return list
	}
	return DefaultCities()
}

func loadLines(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
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
	return lines
}
