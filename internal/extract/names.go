package extract

import (
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// regionSep stands in for the comma of "Dartmouth, NS" while a list is split
const regionSep = "\x1f"

var (
	reAndJoin      = regexp.MustCompile(`(?:^|\s+)and\s+`)
	reRegionComma  = regexp.MustCompile(`(\p{L}+), ([A-Z]{2})\b`)
	reEntrySpouse2 = regexp.MustCompile(`^(.+?)\s*\(([^)]*)\)\s+(\S.*?) of (.+)$`)
	reEntrySpouse  = regexp.MustCompile(`^(.+?)\s*\(([^)]*)\) of (.+)$`)
	reEntryOf      = regexp.MustCompile(`^(.+?) of (.+)$`)
	reAllOf        = regexp.MustCompile(`^(.*?),?\s+all of (.+)$`)
)

// splitNames breaks a free-text list on commas and the word "and".
// The comma in front of a two-letter region code is kept.
// Blank entries are preserved so callers can inspect list shape.
func splitNames(raw string) []string {
	s := reAndJoin.ReplaceAllString(raw, ", ")
	s = reRegionComma.ReplaceAllString(s, "${1}"+regionSep+"${2}")

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ReplaceAll(p, regionSep, ", ")
		out = append(out, strings.TrimRight(strings.TrimSpace(p), ";:"))
	}
	return out
}

// parseEntry reads one list entry.
//
//	"John (Mary) Smith of Halifax" -> name "John Smith", spouse "Mary", location "Halifax"
//	"John (Mary) of Halifax"       -> name "John", spouse "Mary", location "Halifax"
//	"Carol Girvan of Dartmouth, NS" -> name "Carol Girvan", location "Dartmouth, NS"
//
// Anything else becomes the name verbatim.
func parseEntry(entry string) model.Person {
	if m := reEntrySpouse2.FindStringSubmatch(entry); m != nil {
		return model.Person{Name: m[1] + " " + m[3], Spouse: m[2], Location: m[4]}
	}
	if m := reEntrySpouse.FindStringSubmatch(entry); m != nil {
		return model.Person{Name: m[1], Spouse: m[2], Location: m[3]}
	}
	if m := reEntryOf.FindStringSubmatch(entry); m != nil {
		return model.Person{Name: m[1], Location: m[2]}
	}
	return model.Person{Name: entry}
}

// parseNameList turns a captured list into people.
// Entries describing an in-law are skipped, and a "devoted ..." or
// "loved ..." entry ends the list.
func parseNameList(raw string) []model.Person {
	var people []model.Person
	for _, entry := range splitNames(raw) {
		if entry == "" {
			continue
		}
		lower := strings.ToLower(entry)
		if strings.HasPrefix(lower, "devoted ") || strings.HasPrefix(lower, "loved ") {
			break
		}
		if strings.HasPrefix(lower, "father-in-law to ") {
			continue
		}
		if p := model.PrunePerson(parseEntry(entry)); !p.IsBlank() {
			people = append(people, p)
		}
	}
	return people
}

// parseClause handles a list that ends in "all of LOCATION",
// applying the shared location to entries without one.
func parseClause(raw string) []model.Person {
	m := reAllOf.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return parseNameList(raw)
	}
	people := parseNameList(m[1])
	shared := trimPhrase(m[2])
	for i := range people {
		if people[i].Location == "" {
			people[i].Location = shared
		}
	}
	return people
}

// namesOnly flattens a list into plain name strings
func namesOnly(raw string) []string {
	var names []string
	for _, p := range parseNameList(raw) {
		names = append(names, p.Name)
	}
	return names
}

func withSex(people []model.Person, sex model.Sex) []model.Person {
	for i := range people {
		people[i].Sex = sex
	}
	return people
}

func withStatus(people []model.Person, status model.Status) []model.Person {
	for i := range people {
		people[i].Status = status
	}
	return people
}
