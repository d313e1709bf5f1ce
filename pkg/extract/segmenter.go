package extract

import (
	"regexp"
	"strings"
)

// a sentence is a run of non-terminators plus at most one terminator
var sentenceRegex = regexp.MustCompile(`[^.!?]+[.!?]?`)

// Segment splits text into trimmed sentences, in order. Fragments that are empty
// after trimming are dropped. The split is purely lexical, so abbreviations and
// decimals ("Dr. Smith", "3.5") are cut like any other full stop.
func Segment(text string) []string {
	fragments := sentenceRegex.FindAllString(text, -1)
	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if s := strings.TrimSpace(fragment); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
