package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reFuneralFull    = regexp.MustCompile(`\b(?i:funeral services?)[^.;]*? at ([^,;]+?), on ([^.;]+?), at (` + timePat + `)`)
	reFuneralLoose   = regexp.MustCompile(`\bat (\p{Lu}[^,;]*?),? on ([^.;]+?) at (` + timePat + `)`)
	reFuneralTimeLoc = regexp.MustCompile(`\b(?i:funeral services?)[^.;]*? at (` + timePat + `) at ([^,;]+), with`)
	reFuneralLoc     = regexp.MustCompile(`\b(?i:funeral services?)[^.;]*? at ([^,;]+), with`)
	reServiceMention = ci(`\b(?:funeral|memorial)`)
	reEmbeddedTimeAt = regexp.MustCompile(`^(.*?),? at (` + timePat + `)$`)
	funeralTemplates = []func(string) *model.Funeral{funeralFull, funeralLoose, funeralTimeLocation, funeralLocation}
)

func funeral(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	for _, match := range funeralTemplates {
		if f := match(text); f != nil && (f.Location != "" || f.Date != "" || f.Time != "") {
			fam.Funeral = f
			return fam
		}
	}
	return fam
}

// "Funeral service will be held at St. Paul's Church, on Saturday, June 6, at 2 p.m."
func funeralFull(text string) *model.Funeral {
	m := reFuneralFull.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &model.Funeral{Location: trimPhrase(m[1]), Date: trimPhrase(m[2]), Time: m[3]}
}

// "at Knox Church on Friday June 5 at 11 am", only after the first
// funeral or memorial mention
func funeralLoose(text string) *model.Funeral {
	loc := reServiceMention.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	m := reFuneralLoose.FindStringSubmatch(text[loc[0]:])
	if m == nil {
		return nil
	}
	date, tm := cutAt(m[2], "  "), m[3]
	if e := reEmbeddedTimeAt.FindStringSubmatch(strings.TrimSpace(date)); e != nil {
		date, tm = e[1], e[2]
	}
	return &model.Funeral{Location: trimPhrase(m[1]), Date: trimPhrase(date), Time: tm}
}

// "Funeral services will be at 2 p.m. at Knox Church, with ..."
func funeralTimeLocation(text string) *model.Funeral {
	m := reFuneralTimeLoc.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &model.Funeral{Time: m[1], Location: trimPhrase(m[2])}
}

// "Funeral services will be held at Knox Church, with ..."
func funeralLocation(text string) *model.Funeral {
	m := reFuneralLoc.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &model.Funeral{Location: trimPhrase(m[1])}
}
