package extract

import (
	"testing"
)

func TestRuleRecognizerEntities(t *testing.T) {
	r := NewRuleRecognizer()
	cases := []struct {
		name     string
		sentence string
		want     []Entity
	}{
		{
			name:     "weekday",
			sentence: "Finish the report by Friday.",
			want:     []Entity{{Text: "Friday", Label: LabelDate}},
		},
		{
			name:     "date then time",
			sentence: "Submit the assignment on March 10th at 5pm",
			want: []Entity{
				{Text: "March 10th", Label: LabelDate},
				{Text: "5pm", Label: LabelTime},
			},
		},
		{
			name:     "relative modifiers",
			sentence: "Revise chapter four next Monday or tomorrow morning",
			want: []Entity{
				{Text: "next Monday", Label: LabelDate},
				{Text: "tomorrow morning", Label: LabelTime},
			},
		},
		{
			name:     "numeric forms",
			sentence: "Project due 2025-03-10, backup 10/03 at 17:30",
			want: []Entity{
				{Text: "2025-03-10", Label: LabelDate},
				{Text: "10/03", Label: LabelDate},
				{Text: "17:30", Label: LabelTime},
			},
		},
		{
			name:     "duration phrase",
			sentence: "complete the essay in two weeks",
			want:     []Entity{{Text: "in two weeks", Label: LabelDate}},
		},
		{
			name:     "may as a verb is not a month",
			sentence: "You may read it later",
			want:     nil,
		},
		{
			name:     "nothing",
			sentence: "I like to read books.",
			want:     nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Entities(tc.sentence)
			if len(got) != len(tc.want) {
				t.Fatalf("Entities(%q) = %+v, want %d entities", tc.sentence, got, len(tc.want))
			}
			for i, want := range tc.want {
				if got[i].Text != want.Text || got[i].Label != want.Label {
					t.Errorf("entity[%d] = {%q %s}, want {%q %s}", i, got[i].Text, got[i].Label, want.Text, want.Label)
				}
				if tc.sentence[got[i].Start:got[i].End] != got[i].Text {
					t.Errorf("entity[%d] offsets [%d:%d] do not match text %q", i, got[i].Start, got[i].End, got[i].Text)
				}
			}
		})
	}
}
