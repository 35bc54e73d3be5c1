package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

const (
	niecesNephewsTrigger = "as well as several nieces and nephews"
	niecesNephewsPhrase  = "several nieces and nephews"
)

var (
	reFatherInLawTo = ci(`father-in-law to ([^.;]+)`)
	reMotherInLawTo = ci(`mother-in-law to ([^.;]+)`)
	reNieceOf       = regexp.MustCompile(`\b(?i:niece) of (` + namePat + `)`)
)

// niecesNephews records the bare phrase as a single placeholder entry.
// It fires only on the full "as well as ..." wording.
func niecesNephews(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if strings.Contains(strings.ToLower(text), niecesNephewsTrigger) {
		fam.NiecesNephews = []model.Person{{Name: niecesNephewsPhrase}}
	}
	return fam
}

func childrenInLaw(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	for _, re := range []*regexp.Regexp{reFatherInLawTo, reMotherInLawTo} {
		raw := trimPhrase(submatch(text, re, 1))
		if raw == "" {
			continue
		}
		people := parseNameList(raw)
		if len(people) == 0 {
			people = []model.Person{{Name: raw}}
		}
		fam.ChildrenInLaw = model.PrunePeople(people)
		return fam
	}
	return fam
}

// aunt reads "niece of NAME", which names the deceased's aunt
func aunt(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if name := submatch(text, reNieceOf, 1); name != "" {
		fam.Aunt = []model.Person{{Name: name}}
	}
	return fam
}
