package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

const yearsOfPat = `(?:\d+ years,? (?:(?:of|to) )?)?`

var (
	reSpouseLateYear    = regexp.MustCompile(`\b(?i:wife|husband) of the late ([^(.;,]+?)\s*\((\d{4})\)`)
	reSpouseMarried     = regexp.MustCompile(`\b(?i:married) (` + namePat + `)[^.;]*? on (` + datePat + `)(?:,? (?:at|in) ([^.;]+))?`)
	reHusbandLate       = regexp.MustCompile(`\b(?i:husband) (?:to|of) the late ([^.;]+?)\.`)
	reSpouseOf          = regexp.MustCompile(`\b(?i:wife|husband) of ` + yearsOfPat + `(` + namePat + `)`)
	reSurvivedByHusband = regexp.MustCompile(`(?i:survived by her (?:(?:loving|beloved|devoted) )?husband),? (?:of ` + yearsOfPat + `)?(` + namePat + `)`)
	reSurvivedByWife    = regexp.MustCompile(`(?i:survived by his (?:(?:loving|beloved|devoted) )?wife),? (?:of ` + yearsOfPat + `)?(` + namePat + `)`)
	spouseRules         = []personRule{
		{"late spouse with year", spouseLateYear},
		{"married on", spouseMarried},
		{"husband of the late", husbandLate},
		{"wife or husband of", namedSpouse(reSpouseOf)},
		{"survived by her husband", namedSpouse(reSurvivedByHusband)},
		{"survived by his wife", namedSpouse(reSurvivedByWife)},
	}
)

func spouse(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	people, _ := firstPeople(text, spouseRules)
	for i := range people {
		if strings.EqualFold(people[i].Location, "the late") {
			people[i].Location = ""
		}
	}
	fam.Spouse = people
	return fam
}

// "wife of the late John Smith (1998)"
func spouseLateYear(text string) []model.Person {
	m := reSpouseLateYear.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	year, _ := strconv.Atoi(m[2])
	return []model.Person{{Name: m[1], Status: model.StatusDeceased, DeathYear: year}}
}

// "married John Smith on June 5, 1950 at St. Mary's"
func spouseMarried(text string) []model.Person {
	m := reSpouseMarried.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return []model.Person{{Name: m[1], MarriageDate: m[2], Location: m[3]}}
}

// "husband to the late Mary."
func husbandLate(text string) []model.Person {
	name := cutAt(submatch(text, reHusbandLate, 1), ",")
	if name == "" {
		return nil
	}
	return []model.Person{{Name: name, Status: model.StatusDeceased}}
}

func namedSpouse(re *regexp.Regexp) func(string) []model.Person {
	return func(text string) []model.Person {
		if name := submatch(text, re, 1); name != "" {
			return []model.Person{{Name: name}}
		}
		return nil
	}
}
