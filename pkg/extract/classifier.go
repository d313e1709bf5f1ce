package extract

import "strings"

// DefaultTaskKeywords is the vocabulary a sentence must hit to count as a task.
var DefaultTaskKeywords = []string{
	"write", "read", "revise", "note", "notes",
	"practice", "remember", "homework", "assignment",
	"finish", "complete", "project",
}

// Classifier accepts sentences that contain at least one task keyword as a whole
// whitespace-separated token.
type Classifier struct {
	keywords map[string]struct{}
}

// NewClassifier builds a classifier over DefaultTaskKeywords plus any extra
// keywords. Extra keywords are lower-cased; blanks are ignored.
func NewClassifier(extra ...string) *Classifier {
	keywords := make(map[string]struct{}, len(DefaultTaskKeywords)+len(extra))
	for _, kw := range DefaultTaskKeywords {
		keywords[kw] = struct{}{}
	}
	for _, kw := range extra {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords[kw] = struct{}{}
	}
	return &Classifier{keywords: keywords}
}

// IsTask reports whether the sentence's token set intersects the vocabulary.
// Tokens keep any punctuation glued to them, so "homework." is not "homework".
func (c *Classifier) IsTask(sentence string) bool {
	for _, token := range strings.Fields(strings.ToLower(sentence)) {
		if _, ok := c.keywords[token]; ok {
			return true
		}
	}
	return false
}

// Keywords returns the number of words in the vocabulary.
func (c *Classifier) Keywords() int {
	return len(c.keywords)
}
