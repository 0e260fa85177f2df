package snippet

import (
	"strings"
	"unicode"
)

// Options controls excerpt extraction.
type Options struct {
	MaxWindow int    // excerpt length in runes around the first match
	StartSel  string // marker opened before each matched token
	StopSel   string // marker closed after each matched token
	Ellipsis  string
}

func DefaultOptions() Options {
	return Options{
		MaxWindow: 240,
		StartSel:  "<mark>",
		StopSel:   "</mark>",
		Ellipsis:  "...",
	}
}

// Extract returns a bounded excerpt of text around the first case-insensitive
// occurrence of phrase, with highlight markers around matched tokens and
// ellipses when the excerpt does not start or end at a text boundary.
// Returns "" when text or phrase is empty or nothing matches.
func Extract(text, phrase string, opts Options) string {
	text = strings.TrimSpace(text)
	phrase = strings.TrimSpace(phrase)
	if text == "" || phrase == "" {
		return ""
	}
	if opts.MaxWindow <= 0 {
		opts.MaxWindow = DefaultOptions().MaxWindow
	}

	runes := []rune(text)
	phraseRunes := lowerRunes([]rune(phrase))
	runeIdx := indexRunes(lowerRunes(runes), phraseRunes, 0)
	if runeIdx < 0 {
		return ""
	}
	phraseLen := len(phraseRunes)

	half := (opts.MaxWindow - phraseLen) / 2
	if half < 0 {
		half = 0
	}
	start := runeIdx - half
	if start < 0 {
		start = 0
	}
	end := runeIdx + phraseLen + half
	if end > len(runes) {
		end = len(runes)
	}

	// Snap to word boundaries so the excerpt does not open or close mid-word.
	for start > 0 && runes[start] != ' ' && runes[start] != '\n' {
		start--
	}
	for end < len(runes) && runes[end] != ' ' && runes[end] != '\n' {
		end++
	}

	excerpt := strings.TrimSpace(string(runes[start:end]))
	excerpt = highlight(excerpt, phraseRunes, opts.StartSel, opts.StopSel)

	if start > 0 {
		excerpt = opts.Ellipsis + excerpt
	}
	if end < len(runes) {
		excerpt = excerpt + opts.Ellipsis
	}
	return excerpt
}

// highlight wraps every case-insensitive occurrence of the lowered phrase
// inside excerpt with the given markers, preserving the original casing of
// the match.
func highlight(excerpt string, phrase []rune, startSel, stopSel string) string {
	if len(phrase) == 0 || startSel == "" && stopSel == "" {
		return excerpt
	}
	runes := []rune(excerpt)
	lowered := lowerRunes(runes)

	var b strings.Builder
	offset := 0
	for {
		idx := indexRunes(lowered, phrase, offset)
		if idx < 0 {
			b.WriteString(string(runes[offset:]))
			break
		}
		b.WriteString(string(runes[offset:idx]))
		b.WriteString(startSel)
		b.WriteString(string(runes[idx : idx+len(phrase)]))
		b.WriteString(stopSel)
		offset = idx + len(phrase)
	}
	return b.String()
}

// lowerRunes folds case rune by rune. Matching stays in rune space throughout:
// strings.ToLower can change a rune's byte length (and even its rune count,
// e.g. İ), so byte indexes found in a lowered copy do not transfer back to the
// original text.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
