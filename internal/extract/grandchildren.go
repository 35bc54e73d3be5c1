package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reGrandchildren   = regexp.MustCompile(`\b(?i:grandchildren),? ([^.;]+)`)
	reGreatGrand      = ci(`,?\s*(?:and )?great[- ]grand`)
	reGrandmaTo       = regexp.MustCompile(`\b(?i:grandma to) ([^.]+?)(?: and loved|\.|$)`)
	reGrandparentOf   = regexp.MustCompile(`\b(?i:grandm\w+),? (?:(?i:of|to) )?(` + namePat + `(?:, ` + namePat + `)*,? and ` + namePat + `)`)
	grandchildrenRule = []personRule{
		{"grandma to", listRule(reGrandmaTo)},
		{"grandparent of", listRule(reGrandparentOf)},
	}
)

// grandchildren also recognises the "grandchildren, and brothers ..."
// shape, where the list that follows actually names brothers.
func grandchildren(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if raw, ok := grandchildrenList(text); ok {
		tokens := splitNames(raw)
		for len(tokens) > 0 && tokens[0] == "" {
			tokens = tokens[1:]
		}
		if len(tokens) > 0 && hasPrefixFold(tokens[0], "brothers") {
			tokens[0] = strings.TrimSpace(tokens[0][len("brothers"):])
			fam.Brothers = withSex(parseNameList(strings.Join(tokens, ", ")), model.SexMale)
			return fam
		}
		if people := parseNameList(raw); len(people) > 0 {
			fam.Grandchildren = people
			return fam
		}
	}
	fam.Grandchildren, _ = firstPeople(text, grandchildrenRule)
	return fam
}

// grandchildrenList finds the first "grandchildren ..." capture that is
// not part of "great-grandchildren", cut before any great-grandchildren
// that follow it.
func grandchildrenList(text string) (string, bool) {
	for _, loc := range reGrandchildren.FindAllStringSubmatchIndex(text, -1) {
		before := strings.ToLower(text[:loc[0]])
		if strings.HasSuffix(before, "great-") || strings.HasSuffix(before, "great ") {
			continue
		}
		return cutAtPattern(text[loc[2]:loc[3]], reGreatGrand), true
	}
	return "", false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
