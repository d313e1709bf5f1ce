package extract

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
)

func TestSegment(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   \n\t ", []string{}},
		{"single without terminator", "finish the essay", []string{"finish the essay"}},
		{"mixed terminators", "Write notes. Are you done? Great!", []string{"Write notes.", "Are you done?", "Great!"}},
		{"leading whitespace trimmed", "  Read chapter two.   Revise it. ", []string{"Read chapter two.", "Revise it."}},
		{"repeated terminator dropped", "Stop!! Now.", []string{"Stop!", "Now."}},
		{"decimal is split", "Practice 3.5 hours.", []string{"Practice 3.", "5 hours."}},
		{"trailing fragment kept", "Do this. and that", []string{"Do this.", "and that"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Segment(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Segment(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

// Joining the sentences back together loses only whitespace and repeated
// terminators.
func TestSegmentRejoinKeepsCharacters(t *testing.T) {
	texts := []string{
		"Finish the report by Friday. I like to read books! Remember the homework?",
		"  no punctuation at all  ",
		"one.two.three",
		"Wait... what?! ok",
	}
	for _, text := range texts {
		got := normalize(strings.Join(Segment(text), ""))
		want := normalize(text)
		if got != want {
			t.Errorf("rejoin(%q) = %q, want %q", text, got, want)
		}
	}
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' || r == '!' || r == '?' {
			return -1
		}
		return r
	}, s)
}

func TestSegmentSentencesAreTrimmed(t *testing.T) {
	for _, s := range Segment(" a. \n b !\t c ?  d") {
		if s != strings.TrimSpace(s) || s == "" {
			t.Errorf("sentence %q is not trimmed or is empty", s)
		}
	}
}
