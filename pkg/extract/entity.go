package extract

import (
	"regexp"
	"sort"
)

// Entity labels understood by the deadline resolver.
const (
	LabelDate = "DATE"
	LabelTime = "TIME"
)

// Entity is a labelled span of a sentence. Start and End are byte offsets.
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// EntityRecognizer finds labelled spans in a sentence, in order of appearance.
type EntityRecognizer interface {
	Entities(sentence string) []Entity
}

const monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

const numberWordPattern = `(?:\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`

type entityRule struct {
	label string
	re    *regexp.Regexp
}

var defaultEntityRules = []entityRule{
	{LabelDate, regexp.MustCompile(`(?i)\b(?:today|tomorrow|yesterday)\b`)},
	{LabelDate, regexp.MustCompile(`(?i)\b(?:(?:next|this|last)\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)},
	{LabelDate, regexp.MustCompile(`(?i)\b(?:next|this|last)\s+(?:week|weekend|month|year)\b`)},
	{LabelDate, regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)},
	{LabelDate, regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `(?:,?\s+\d{4})?\b`)},
	{LabelDate, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{LabelDate, regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)},
	{LabelDate, regexp.MustCompile(`(?i)\b(?:in|within)\s+` + numberWordPattern + `\s+(?:days?|weeks?|months?)\b`)},
	{LabelTime, regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)},
	{LabelTime, regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)},
	{LabelTime, regexp.MustCompile(`(?i)\b(?:noon|midnight|tonight)\b`)},
	{LabelTime, regexp.MustCompile(`(?i)\b(?:this|tomorrow)\s+(?:morning|afternoon|evening|night)\b`)},
}

// RuleRecognizer is a pattern-based recognizer for DATE and TIME mentions in
// English text. Overlapping matches are resolved leftmost-longest.
type RuleRecognizer struct {
	rules []entityRule
}

func NewRuleRecognizer() *RuleRecognizer {
	return &RuleRecognizer{rules: defaultEntityRules}
}

func (r *RuleRecognizer) Entities(sentence string) []Entity {
	var candidates []Entity
	for _, rule := range r.rules {
		for _, loc := range rule.re.FindAllStringIndex(sentence, -1) {
			candidates = append(candidates, Entity{
				Text:  sentence[loc[0]:loc[1]],
				Label: rule.label,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	entities := make([]Entity, 0, len(candidates))
	lastEnd := -1
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue
		}
		entities = append(entities, c)
		lastEnd = c.End
	}
	return entities
}
