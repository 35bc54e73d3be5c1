package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reSistersPredeceased  = regexp.MustCompile(`(?i:predeceased by (?:his|her) sisters?),? ([^.;]+)`)
	reBrothersPredeceased = regexp.MustCompile(`(?i:predeceased by (?:his|her) brothers?),? ([^.;]+)`)
	reCutBrother          = ci(`(?:,\s*|\s+)(?:and )?(?:(?:his|her) )?brothers?\b`)
	reCutSister           = ci(`(?:,\s*|\s+)(?:and )?(?:(?:his|her) )?sisters?\b`)
	reSisterEntry         = regexp.MustCompile(`\b(?i:sister), (` + namePat + `)(?:, (` + namePat + `))?`)
	reSisterMrs           = regexp.MustCompile(`^(?i:sister), Mrs\. (` + nameWord + `) (` + nameWord + `)(?:, (` + namePat + `))?`)
	reBrotherEntry        = regexp.MustCompile(`\b(?i:brother), (` + namePat + `)(?:, (` + namePat + `))?`)
	reTwoSisters          = regexp.MustCompile(`\b(?i:two sisters), ([^;]+);`)
	reNameLocation        = regexp.MustCompile(`^((?:Mrs\. )?` + namePat + `), (.+)$`)
	reSisterOf            = regexp.MustCompile(`\b(?i:sister) of (` + namePat + `) and (` + namePat + `)`)
	reBrothersClause      = regexp.MustCompile(`\b(?i:brothers), ([^;]+);`)
	reSiblingMention      = regexp.MustCompile(`\b(?i:his|her) ((?i:sister|brother)s?),? (` + nameListPat + `)`)
)

func sisters(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	people, _ := firstPeople(text, []personRule{
		{"predeceased by sisters", predeceased(reSistersPredeceased, reCutBrother)},
		{"sister entries", siblingEntries(reSisterEntry, model.SexFemale)},
		{"two sisters", twoSisters},
	})
	fam.Sisters = withSex(people, model.SexFemale)
	return fam
}

// brothers keeps a list already found by the grandchildren stage. When
// no sister or brother turns up it tries "sister of A and B", which
// names siblings of unknown sex.
func brothers(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if len(fam.Brothers) > 0 {
		return fam
	}
	people, _ := firstPeople(text, []personRule{
		{"predeceased by brothers", predeceased(reBrothersPredeceased, reCutSister)},
		{"brother entries", siblingEntries(reBrotherEntry, model.SexMale)},
	})
	if len(people) == 0 && len(fam.Sisters) == 0 && len(fam.Siblings) == 0 {
		if m := reSisterOf.FindStringSubmatch(text); m != nil {
			fam.Siblings = model.PrunePeople([]model.Person{{Name: m[1]}, {Name: m[2]}})
			return fam
		}
	}
	if len(people) == 0 {
		people = model.PrunePeople(clauseRule(reBrothersClause)(text))
	}
	fam.Brothers = withSex(people, model.SexMale)
	return fam
}

// siblings picks up "his sister Claire" and "her brothers Tom and Bill"
// when no other sibling phrasing matched.
func siblings(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if len(fam.Siblings) > 0 || len(fam.Sisters) > 0 || len(fam.Brothers) > 0 {
		return fam
	}
	var people []model.Person
	for _, m := range reSiblingMention.FindAllStringSubmatch(text, -1) {
		sex := model.SexMale
		if strings.HasPrefix(strings.ToLower(m[1]), "sister") {
			sex = model.SexFemale
		}
		people = append(people, withSex(parseNameList(m[2]), sex)...)
	}
	fam.Siblings = model.PrunePeople(people)
	return fam
}

// predeceased reads "predeceased by her sisters A and B", stopping
// before any brothers (or sisters) named in the same phrase
func predeceased(re, cut *regexp.Regexp) func(string) []model.Person {
	return func(text string) []model.Person {
		raw := submatch(text, re, 1)
		if raw == "" {
			return nil
		}
		return withStatus(parseNameList(cutAtPattern(raw, cut)), model.StatusDeceased)
	}
}

// siblingEntries collects every "sister, NAME[, LOCATION]". A sibling is
// marked deceased when "predeceased by" mentions the name in the same
// sentence, living otherwise.
func siblingEntries(re *regexp.Regexp, sex model.Sex) func(string) []model.Person {
	return func(text string) []model.Person {
		var people []model.Person
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			name, place := group(text, loc, 1), group(text, loc, 2)
			if name == "Mrs" {
				m := reSisterMrs.FindStringSubmatch(text[loc[0]:])
				if m == nil {
					continue
				}
				name, place = m[1]+" "+m[2], m[3]
			}
			p := model.Person{Name: name, Location: place, Sex: sex, Status: model.StatusLiving}
			if mentionedAsPredeceased(text, name) {
				p.Status = model.StatusDeceased
			}
			people = append(people, p)
		}
		return people
	}
}

func mentionedAsPredeceased(text, name string) bool {
	re, err := regexp.Compile(`(?i:predeceased by)[^.]*\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// "two sisters, Mrs. Jones, Halifax and Jane of Truro;"
func twoSisters(text string) []model.Person {
	raw := submatch(text, reTwoSisters, 1)
	if raw == "" {
		return nil
	}
	var people []model.Person
	for _, entry := range strings.Split(raw, " and ") {
		entry = trimPhrase(entry)
		if m := reNameLocation.FindStringSubmatch(entry); m != nil {
			people = append(people, model.Person{Name: m[1], Location: m[2]})
			continue
		}
		people = append(people, parseEntry(entry))
	}
	return people
}

// group returns submatch n from an index slice, or ""
func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}
