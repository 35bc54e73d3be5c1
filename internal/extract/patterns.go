package extract

import (
	"regexp"
	"strings"
)

// Pattern fragments shared by the category rules.
// Every rule is matched against the whole normalized text.
const (
	// One capitalized name token or an initial ("J.")
	nameWord = `\p{Lu}(?:[\p{L}'’-]+|\.)?`
	// A run of capitalized tokens: "Mary Ellen Smith"
	namePat = nameWord + `(?: ` + nameWord + `)*`
	// Names joined by commas and/or "and": "Anna, Bob and Carl"
	nameListPat = namePat + `(?:(?:, and |, | and )` + namePat + `)*`

	monthPat   = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?`
	weekdayPat = `(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`
	ordinalPat = `(?:st|nd|rd|th)?`

	// "June 5, 2020", "Friday, June 5th 2020", "the 5th of June, 2020"
	datePat = `(?:` + weekdayPat + `,? )?(?:` +
		monthPat + ` \d{1,2}` + ordinalPat + `,? \d{4}` +
		`|(?:the )?\d{1,2}` + ordinalPat + ` (?:of )?` + monthPat + `,? \d{4})`

	// Place-name abbreviations whose dot does not end a sentence: "St. Martha's"
	placeAbbrevPat = `\b(?:St|Ste|Mt|Ft|Pt|Dr)\.`

	// "2 p.m.", "11:30 am", "10 o'clock", "noon". Only the dotted form
	// keeps a trailing dot, so "at 11 am." stops before the full stop.
	timePat = `(?:\d{1,2}(?::\d{2})? ?(?:[aApP]\. ?[mM]\.?|[aApP] ?[mM]\b|o'clock)|\d{1,2}:\d{2}|[nN]oon)`
)

var (
	reMaidenName = regexp.MustCompile(`\s*\((?:(?i:nee|née) )?([^)]*)\)`)
	reMultiSpace = regexp.MustCompile(`\s{2,}`)
	reDateOnly   = regexp.MustCompile(`^` + datePat + `$`)
)

// ci compiles a pattern that ignores case throughout.
// Only use it where no group depends on capitalization.
func ci(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// unwrapMaiden turns "Mary (Smith) Brown" into "Mary Smith Brown"
func unwrapMaiden(name string) string {
	name = reMaidenName.ReplaceAllString(name, " $1")
	return strings.TrimSpace(reMultiSpace.ReplaceAllString(name, " "))
}

// cutAt truncates s at the first occurrence of sep
func cutAt(s, sep string) string {
	if before, _, found := strings.Cut(s, sep); found {
		return before
	}
	return s
}

// cutAtPattern truncates s where re first matches
func cutAtPattern(s string, re *regexp.Regexp) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

// trimPhrase strips surrounding space and trailing separators
func trimPhrase(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " ,;:")
}
