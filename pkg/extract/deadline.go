package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DeadlineLayout is the normalized form every stored deadline takes.
const DeadlineLayout = "2006-01-02 15:04"

var deadlinePhraseRegex = regexp.MustCompile(`\b(by|before|on|due)\s+([\w\s/:]+)`)

// Deadline is an optional resolved moment. The zero value means "no deadline".
type Deadline struct {
	Time  time.Time
	Valid bool
}

func deadlineOf(t time.Time) Deadline {
	return Deadline{Time: t, Valid: true}
}

// String formats the deadline with DeadlineLayout, or "" when not valid.
func (d Deadline) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DeadlineLayout)
}

// Ptr returns the formatted deadline, or nil when not valid.
func (d Deadline) Ptr() *string {
	if !d.Valid {
		return nil
	}
	s := d.String()
	return &s
}

// Resolver extracts a deadline from a sentence with two strategies: a phrase
// anchored on "by/before/on/due", then recognized DATE/TIME entities. Whatever the
// entity strategy finds replaces the phrase result, and among entities the last
// one that parses wins.
type Resolver struct {
	parser     DateParser
	recognizer EntityRecognizer
	now        func() time.Time
}

type ResolverOption func(*Resolver)

// WithClock sets the reference time used for relative phrases.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithLocation resolves relative phrases against the current time in loc.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		r.now = func() time.Time { return time.Now().In(loc) }
	}
}

func NewResolver(parser DateParser, recognizer EntityRecognizer, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		parser:     parser,
		recognizer: recognizer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs both strategies against the same reference time.
func (r *Resolver) Resolve(sentence string) Deadline {
	base := r.now()
	deadline := r.phraseDeadline(sentence, base)
	if d := r.entityDeadline(sentence, base); d.Valid {
		deadline = d
	}
	return deadline
}

// PhraseDeadline is the phrase-anchored strategy on its own.
func (r *Resolver) PhraseDeadline(sentence string) Deadline {
	return r.phraseDeadline(sentence, r.now())
}

// EntityDeadline is the entity-anchored strategy on its own.
func (r *Resolver) EntityDeadline(sentence string) Deadline {
	return r.entityDeadline(sentence, r.now())
}

func (r *Resolver) phraseDeadline(sentence string, base time.Time) Deadline {
	match := deadlinePhraseRegex.FindStringSubmatch(strings.ToLower(sentence))
	if match == nil {
		return Deadline{}
	}
	return r.parse(match[2], base)
}

func (r *Resolver) entityDeadline(sentence string, base time.Time) Deadline {
	var deadline Deadline
	for _, ent := range r.recognizer.Entities(sentence) {
		if ent.Label != LabelDate && ent.Label != LabelTime {
			continue
		}
		if d := r.parse(ent.Text, base); d.Valid {
			deadline = d
		}
	}
	return deadline
}

func (r *Resolver) parse(phrase string, base time.Time) Deadline {
	t, err := r.parser.Parse(phrase, base)
	if err != nil {
		log.Trace().Err(err).Str("phrase", phrase).Msg("No date in phrase")
		return Deadline{}
	}
	return deadlineOf(t)
}

// ResolveDeadline is Resolve in the formatted form stored on task records.
func (r *Resolver) ResolveDeadline(sentence string) *string {
	return r.Resolve(sentence).Ptr()
}
