package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/en"
)

// ErrNoDate is returned by a DateParser when the text holds no usable date.
var ErrNoDate = errors.New("no date found")

// DateParser turns a natural-language date/time phrase into a moment, relative
// to base for phrases like "tomorrow" or "friday".
type DateParser interface {
	Parse(text string, base time.Time) (time.Time, error)
}

// absolute forms tried before the natural-language rules
var absoluteLayouts = []string{
	DeadlineLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// numeric dates are month first: 3/10, 3/10/25, 3/10/2025
var slashDateRegex = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?(?:$|[^\d/])`)

// phrases that legitimately resolve to the reference moment itself
var presentRegex = regexp.MustCompile(`(?i)\b(?:now|today)\b`)

// WhenParser is a DateParser backed by github.com/olebedev/when with the English
// rule set. Numeric slash dates are read month first and handled before the
// rules run.
type WhenParser struct {
	w *when.Parser
}

func NewWhenParser() *WhenParser {
	return newWhenParser(en.All...)
}

func newWhenParser(rs ...rules.Rule) *WhenParser {
	w := when.New(nil)
	w.Add(rs...)
	return &WhenParser{w: w}
}

func (p *WhenParser) Parse(text string, base time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrNoDate
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, text, base.Location()); err == nil {
			return t, nil
		}
	}
	if m := slashDateRegex.FindStringSubmatchIndex(text); m != nil {
		return p.parseSlashDate(text, m, base)
	}
	return p.parseNatural(text, base)
}

func (p *WhenParser) parseNatural(text string, base time.Time) (time.Time, error) {
	result, err := p.w.Parse(text, base)
	if err != nil {
		return time.Time{}, err
	}
	if result == nil {
		return time.Time{}, ErrNoDate
	}
	// a rule matched but set neither a date nor a clock
	if result.Time.Equal(base) && !presentRegex.MatchString(result.Text) {
		return time.Time{}, ErrNoDate
	}
	return result.Time, nil
}

// parseSlashDate builds the date from the submatch indexes m, then takes a
// clock time from whatever surrounds it ("3/10 at 5pm").
func (p *WhenParser) parseSlashDate(text string, m []int, base time.Time) (time.Time, error) {
	month, _ := strconv.Atoi(text[m[2]:m[3]])
	day, _ := strconv.Atoi(text[m[4]:m[5]])
	year := base.Year()
	end := m[5]
	if m[6] >= 0 {
		year, _ = strconv.Atoi(text[m[6]:m[7]])
		if m[7]-m[6] == 2 {
			year += 2000
		}
		end = m[7]
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, ErrNoDate
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, base.Location())
	if date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, ErrNoDate
	}

	rest := strings.TrimSpace(text[:m[2]] + " " + text[end:])
	if rest == "" {
		return date, nil
	}
	clock, err := p.parseNatural(rest, date)
	if err != nil {
		return date, nil
	}
	return time.Date(year, time.Month(month), day, clock.Hour(), clock.Minute(), 0, 0, base.Location()), nil
}
