package extract

import (
	"context"
	"regexp"
	"unicode"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reChildrenSurvived = ci(`survived by (?:his|her|their) children,? ([^.;]+)`)
	reLovingMumTo      = ci(`loving (?:mum|mom|mother) (?:to|of) ([^.;]+)`)
	reLovingFatherOf   = ci(`loving (?:father|dad) (?:of|to) ([^.;]+)`)
	reMotherOf         = regexp.MustCompile(`\b(?i:mother) of ([^,.;]+),`)
	reSonsAndDaughters = regexp.MustCompile(`\b(?i:sons|daughters) (` + namePat + `) and (` + namePat + `)` +
		`(?:,? (?:and )?(?:(?i:a|one) )?(?i:sons?|daughters?) (` + namePat + `))?`)
	reSonsClause     = regexp.MustCompile(`\b(?i:sons), ([^;]+);`)
	reDaughterMrs    = regexp.MustCompile(`\b(?i:daughters?), Mrs\. (` + namePat + `) (` + nameWord + `), ([^,;.]+?) and\b`)
	reOneDaughter    = regexp.MustCompile(`\b(?i:one daughter), (` + namePat + `), ([^;]+);`)
	reSonEntry       = regexp.MustCompile(`\b(?i:son), ([^;.]+?)(?:,? and their children,? ([^;.]+))?[;.]`)
	reDaughterEntry  = regexp.MustCompile(`\b(?i:daughter), ([^;.]+?)(?:,? and their children,? ([^;.]+))?[;.]`)
	childrenTemplate = []personRule{
		{"survived by children", listRule(reChildrenSurvived)},
		{"loving mum to", listRule(reLovingMumTo)},
		{"loving father of", listRule(reLovingFatherOf)},
		{"mother of", listRule(reMotherOf)},
		{"sons and daughters", sonsAndDaughters},
		{"sons clause", clauseRule(reSonsClause)},
		{"daughter mrs", daughterMrs},
		{"one daughter", oneDaughter},
		{"son or daughter", sonOrDaughter},
	}
)

func children(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	fam.Children, _ = firstPeople(text, childrenTemplate)
	return fam
}

// listRule tokenizes group 1 of the first match
func listRule(re *regexp.Regexp) func(string) []model.Person {
	return func(text string) []model.Person {
		return parseNameList(submatch(text, re, 1))
	}
}

// clauseRule tokenizes group 1 of the first match, honouring "all of LOCATION"
func clauseRule(re *regexp.Regexp) func(string) []model.Person {
	return func(text string) []model.Person {
		return parseClause(submatch(text, re, 1))
	}
}

// "sons John and David" / "daughters Anna and Lucy, and a son Tom"
func sonsAndDaughters(text string) []model.Person {
	m := reSonsAndDaughters.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var people []model.Person
	for _, name := range m[1:] {
		if name != "" {
			people = append(people, model.Person{Name: name})
		}
	}
	return people
}

// "daughter, Mrs. Jane Smith, Halifax and ..."
func daughterMrs(text string) []model.Person {
	m := reDaughterMrs.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return []model.Person{{Name: m[1] + " " + m[2], Location: m[3], Sex: model.SexFemale}}
}

// "one daughter, Jane, Halifax;"
func oneDaughter(text string) []model.Person {
	m := reOneDaughter.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	p := model.Person{Name: m[1], Sex: model.SexFemale}
	if loc := trimPhrase(m[2]); loc != "" && unicode.IsUpper([]rune(loc)[0]) {
		p.Location = loc
	}
	return []model.Person{p}
}

// Isolated "son, NAME;" and "daughter, NAME." sentences, each optionally
// followed by "and their children A and B".
func sonOrDaughter(text string) []model.Person {
	var people []model.Person
	collect := func(re *regexp.Regexp, sex model.Sex) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			entries := parseNameList(m[1])
			if len(entries) == 0 {
				continue
			}
			child := entries[0]
			child.Sex = sex
			child.Grandchildren = namesOnly(m[2])
			people = append(people, child)
		}
	}
	collect(reSonEntry, model.SexMale)
	collect(reDaughterEntry, model.SexFemale)
	return people
}
