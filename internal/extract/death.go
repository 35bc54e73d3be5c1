package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reDeathDate      = regexp.MustCompile(`\b(?i:passed away)[^.;]*? on (` + datePat + `)`)
	reDeathAge       = regexp.MustCompile(`, (\d{1,3}), of `)
	reDeathAgeOf     = regexp.MustCompile(`\b(?i:at the age of|aged) (\d{1,3})\b`)
	reDeathPlace     = regexp.MustCompile(`\b(?i:passed away|died)\b[^.;]*? at ((?:` + placeAbbrevPat + `|[^.;])+)\.`)
	rePlaceAgeLead   = regexp.MustCompile(`^the age of (\d{1,3})(?: years)?,?(?: (?:at|in) (.+))?$`)
	rePlaceOnDate    = regexp.MustCompile(`^(.*?),? on (` + datePat + `)(.*)$`)
	rePlaceBareDate  = regexp.MustCompile(`^(.*?),? (` + datePat + `)$`)
	rePlaceResidence = ci(`^the residence,\s*`)
	rePlaceAfter     = regexp.MustCompile(`,?\s+after a\b.*$`)
)

func death(_ context.Context, res Resolver, text string, fam model.Family) model.Family {
	d := &model.Death{}

	if m := reDeathDate.FindStringSubmatch(text); m != nil {
		d.Date = m[1]
	}
	if m := reDeathAge.FindStringSubmatch(text); m != nil {
		d.Age = plausibleAge(m[1])
	}
	if d.Age == 0 {
		if m := reDeathAgeOf.FindStringSubmatch(text); m != nil {
			d.Age = plausibleAge(m[1])
		}
	}
	if m := reDeathPlace.FindStringSubmatch(text); m != nil {
		place, date, age := deathPlace(m[1])
		d.Place = place
		if d.Date == "" {
			d.Date = date
		}
		if d.Age == 0 {
			d.Age = age
		}
	}

	if d.Date != "" && res != nil {
		if _, t, ok := res.Date(d.Date); ok {
			d.DateTime = t
		}
	}
	if d.Date == "" && d.Age == 0 && d.Place == "" {
		return fam
	}
	fam.Death = d
	return fam
}

// deathPlace cleans the text after "died ... at". It splits off an
// embedded date and an "the age of N" lead, drops a "the residence,"
// prefix and a trailing "after a ..." clause.
func deathPlace(raw string) (place, date string, age int) {
	place = strings.TrimSpace(raw)
	if m := rePlaceAgeLead.FindStringSubmatch(place); m != nil {
		age = plausibleAge(m[1])
		place = strings.TrimSpace(m[2])
	}
	if m := rePlaceOnDate.FindStringSubmatch(place); m != nil {
		place, date = m[1], m[2]
	} else if m := rePlaceBareDate.FindStringSubmatch(place); m != nil {
		place, date = m[1], m[2]
	}
	place = rePlaceResidence.ReplaceAllString(place, "")
	place = rePlaceAfter.ReplaceAllString(place, "")
	if reDateOnly.MatchString(place) {
		if date == "" {
			date = place
		}
		place = ""
	}
	return trimPhrase(place), date, age
}

func plausibleAge(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n >= model.MaxAge {
		return 0
	}
	return n
}
