package resolve

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateFormat is the layout of resolved dates in the family record
const DateFormat = "2006/01/02"

// ErrUnparseableDate is returned when no layout or rule understands a phrase
var ErrUnparseableDate = errors.New("unparseable date")

// DateParser turns a written date phrase into a point in time
type DateParser interface {
	Parse(phrase string) (time.Time, error)
}

var (
	reWeekday  = regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday),?\s*`)
	reOrdinal  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	reFiller   = regexp.MustCompile(`(?i)\b(?:the|of|on)\b\s*`)
	reSept     = regexp.MustCompile(`(?i)\bsept\b`)
	reYear     = regexp.MustCompile(`\b(1[5-9]\d{2}|2\d{3})\b`)
	reSpaces   = regexp.MustCompile(`\s+`)
	dateLayout = []string{
		"January 2 2006",
		"Jan 2 2006",
		"2 January 2006",
		"2 Jan 2006",
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"1/2/2006",
		"January 2006",
		"Jan 2006",
	}
)

// NaturalDateParser tries a set of absolute layouts first and falls back
// to natural-language rules for anything else
type NaturalDateParser struct {
	when *when.Parser
	now  func() time.Time
}

// NewDateParser creates a parser with English and common rules
func NewDateParser() *NaturalDateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &NaturalDateParser{when: w, now: time.Now}
}

// Parse resolves phrase. Results carry no time-of-day and are in UTC.
func (p *NaturalDateParser) Parse(phrase string) (time.Time, error) {
	cleaned := cleanDate(phrase)
	if cleaned == "" {
		return time.Time{}, ErrUnparseableDate
	}
	// Without a written year the rules would borrow the current one
	year := reYear.FindString(cleaned)
	if year == "" {
		return time.Time{}, fmt.Errorf("parse %q: no year: %w", phrase, ErrUnparseableDate)
	}

	for _, layout := range dateLayout {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	r, err := p.when.Parse(cleaned, p.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", phrase, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", phrase, ErrUnparseableDate)
	}

	// The rules resolve month and day relative to now; the written year wins
	y, _ := strconv.Atoi(year)
	return time.Date(y, r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, time.UTC), nil
}

// cleanDate reduces "Friday, the 5th of June, 2020" to "5 June 2020"
func cleanDate(phrase string) string {
	s := reWeekday.ReplaceAllString(phrase, "")
	s = reOrdinal.ReplaceAllString(s, "$1")
	s = reFiller.ReplaceAllString(s, "")
	s = reSept.ReplaceAllString(s, "Sep")
	s = strings.NewReplacer(",", " ", ".", " ").Replace(s)
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
