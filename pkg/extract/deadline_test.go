package extract

import (
	"strings"
	"testing"
	"time"
)

// Wednesday
var testBase = time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

type fakeParser struct {
	dates map[string]time.Time
	calls []string
}

func (p *fakeParser) Parse(text string, _ time.Time) (time.Time, error) {
	p.calls = append(p.calls, text)
	if t, ok := p.dates[text]; ok {
		return t, nil
	}
	return time.Time{}, ErrNoDate
}

type fakeRecognizer struct {
	entities []Entity
}

func (r *fakeRecognizer) Entities(string) []Entity {
	return r.entities
}

func fixedClock() time.Time { return testBase }

func TestResolverPhraseStrategy(t *testing.T) {
	friday := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	parser := &fakeParser{dates: map[string]time.Time{"friday": friday}}
	r := NewResolver(parser, &fakeRecognizer{}, WithClock(fixedClock))

	d := r.Resolve("Finish the report by Friday.")
	if !d.Valid {
		t.Fatal("expected a deadline from the phrase strategy")
	}
	if got, want := d.String(), "2025-03-07 00:00"; got != want {
		t.Errorf("deadline = %q, want %q", got, want)
	}
	if len(parser.calls) != 1 || parser.calls[0] != "friday" {
		t.Errorf("parser calls = %q, want [friday]", parser.calls)
	}
}

func TestResolverPhraseCapturesTrailingSpan(t *testing.T) {
	parser := &fakeParser{}
	r := NewResolver(parser, &fakeRecognizer{}, WithClock(fixedClock))

	r.PhraseDeadline("Hand in the Essay before Monday 10:30 please!")
	if len(parser.calls) != 1 {
		t.Fatalf("parser calls = %q, want one", parser.calls)
	}
	if got, want := parser.calls[0], "monday 10:30 please"; got != want {
		t.Errorf("captured %q, want %q", got, want)
	}
}

func TestResolverNoAnchorNoEntities(t *testing.T) {
	parser := &fakeParser{}
	r := NewResolver(parser, &fakeRecognizer{}, WithClock(fixedClock))

	if d := r.Resolve("I like to read books."); d.Valid {
		t.Errorf("expected no deadline, got %q", d)
	}
	if d := r.Resolve("I like to read books."); d.Ptr() != nil {
		t.Error("Ptr() of an empty deadline should be nil")
	}
	if len(parser.calls) != 0 {
		t.Errorf("parser should not be called, got %q", parser.calls)
	}
}

func TestResolverEntityOverridesPhrase(t *testing.T) {
	phrase := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	entity := time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)
	parser := &fakeParser{dates: map[string]time.Time{
		"march 10 at 5pm": phrase,
		"tomorrow":        entity,
	}}
	rec := &fakeRecognizer{entities: []Entity{{Text: "tomorrow", Label: LabelDate}}}
	r := NewResolver(parser, rec, WithClock(fixedClock))

	if got := r.PhraseDeadline("Finish it by March 10 at 5pm"); got.String() != "2025-03-10 17:00" {
		t.Fatalf("phrase deadline = %q", got)
	}
	if got, want := r.Resolve("Finish it by March 10 at 5pm").String(), "2025-03-06 00:00"; got != want {
		t.Errorf("deadline = %q, want %q (entity result replaces phrase result)", got, want)
	}
}

func TestResolverLastEntityWins(t *testing.T) {
	parser := &fakeParser{dates: map[string]time.Time{
		"March 10": time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		"5pm":      time.Date(2025, time.March, 5, 17, 0, 0, 0, time.UTC),
	}}
	rec := &fakeRecognizer{entities: []Entity{
		{Text: "March 10", Label: LabelDate},
		{Text: "5pm", Label: LabelTime},
		{Text: "the lab", Label: "ORG"},
		{Text: "someday", Label: LabelDate},
	}}
	r := NewResolver(parser, rec, WithClock(fixedClock))

	if got, want := r.EntityDeadline("irrelevant").String(), "2025-03-05 17:00"; got != want {
		t.Errorf("deadline = %q, want %q", got, want)
	}
	for _, call := range parser.calls {
		if call == "the lab" {
			t.Error("non DATE/TIME entity was parsed")
		}
	}
}

func TestResolverPhraseKeptWhenEntitiesFail(t *testing.T) {
	parser := &fakeParser{dates: map[string]time.Time{
		"friday": time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
	}}
	rec := &fakeRecognizer{entities: []Entity{{Text: "Fri-ish", Label: LabelDate}}}
	r := NewResolver(parser, rec, WithClock(fixedClock))

	if got, want := r.Resolve("finish by friday").String(), "2025-03-07 00:00"; got != want {
		t.Errorf("deadline = %q, want %q", got, want)
	}
}

func TestResolverWithWhenParser(t *testing.T) {
	r := NewResolver(NewWhenParser(), NewRuleRecognizer(), WithClock(fixedClock))

	d := r.Resolve("Finish the report by Friday.")
	if !d.Valid {
		t.Fatal("expected a deadline for Friday")
	}
	if d.Time.Weekday() != time.Friday {
		t.Errorf("deadline %s is a %s, want Friday", d, d.Time.Weekday())
	}

	if d := r.Resolve("I like to read books."); d.Valid {
		t.Errorf("expected no deadline, got %q", d)
	}

	if got, want := r.Resolve("Complete the project before 2025-03-10").String(), "2025-03-10 00:00"; got != want {
		t.Errorf("deadline = %q, want %q", got, want)
	}

	d = r.Resolve("Remember to revise tomorrow")
	if !strings.HasPrefix(d.String(), "2025-03-06") {
		t.Errorf("deadline = %q, want a time on 2025-03-06", d)
	}
}

func TestWhenParserRejectsBlank(t *testing.T) {
	if _, err := NewWhenParser().Parse("   ", testBase); err != ErrNoDate {
		t.Errorf("Parse(blank) err = %v, want ErrNoDate", err)
	}
}
