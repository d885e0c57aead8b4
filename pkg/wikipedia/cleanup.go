package wikipedia

import (
	"regexp"
	"strings"
)

var (
	refMarker  = regexp.MustCompile(`\[[0-9a-z]{1,4}\]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanExtract normalizes a raw extract for use as model context: reference
// markers like [1] or [12] are stripped, whitespace is collapsed, and
// consecutive duplicate sentences (an occasional artifact of stitched page
// sections) are dropped.
func CleanExtract(s string) string {
	s = refMarker.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return dedupeSentences(s)
}

func dedupeSentences(s string) string {
	sentences := splitSentences(s)
	out := sentences[:0]
	prev := ""
	for _, sent := range sentences {
		if sent == prev {
			continue
		}
		out = append(out, sent)
		prev = sent
	}
	return strings.Join(out, " ")
}

// splitSentences is a rough splitter: a period, question or exclamation mark
// followed by a space ends a sentence. Abbreviation handling is deliberately
// absent; a missed split only weakens deduplication, it never loses text.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '.', '?', '!':
			if s[i+1] == ' ' {
				sentences = append(sentences, s[start:i+1])
				start = i + 2
				i++
			}
		}
	}
	if start < len(s) {
		sentences = append(sentences, s[start:])
	}
	return sentences
}

// interrogatives are cues that a user turn is a factual question worth a
// Wikipedia lookup.
var interrogatives = []string{"who", "what", "when", "where", "why", "how", "which"}

// Worthwhile reports whether a lookup is likely to help answer the question.
// Short conversational turns and messages without a question shape are
// skipped to avoid a wasted round trip.
func Worthwhile(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if len(q) < 12 {
		return false
	}
	if strings.Contains(q, "?") {
		return true
	}
	first := q
	if i := strings.IndexByte(q, ' '); i > 0 {
		first = q[:i]
	}
	for _, w := range interrogatives {
		if first == w {
			return true
		}
	}
	return false
}
