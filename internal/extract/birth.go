package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reBornInCommaOn = regexp.MustCompile(`\b(?i:born in) (\p{Lu}[^,.;]*), [^.;]*? on (` + datePat + `)`)
	reBornInOn      = regexp.MustCompile(`\b(?i:born in) (\p{Lu}[^.;]*?) on (` + datePat + `)`)
	reBornToParents = regexp.MustCompile(`\b(?i:s?he was born)(?: ([^.]*?))? in (\p{Lu}[^.]*?) to ([^.]+?) and ([^.]+?)\.`)
	reBornOnDate    = regexp.MustCompile(`\b(?i:s?he was born) (?:on )?(` + datePat + `)(?:,? in (\p{Lu}[^.;]*))?`)
	reFatherLiving  = ci(`survived by (?:his|her) father`)
	reMotherLiving  = ci(`survived by (?:his|her) mother`)
)

func birth(ctx context.Context, res Resolver, text string, fam model.Family) model.Family {
	var place, phrase string

	if m := reBornInCommaOn.FindStringSubmatch(text); m != nil {
		place, phrase = m[1], m[2]
	} else if m := reBornInOn.FindStringSubmatch(text); m != nil {
		place, phrase = m[1], m[2]
	} else if m := reBornToParents.FindStringSubmatch(text); m != nil {
		place, phrase = m[2], trimPhrase(strings.TrimPrefix(strings.TrimSpace(m[1]), "on "))
		if fam.Parents == nil {
			fam.Parents = parentsFromBirth(m[3], m[4])
		} else {
			cp := *fam.Parents
			fam.Parents = &cp
		}
		markLivingParents(text, fam.Parents)
	} else if m := reBornOnDate.FindStringSubmatch(text); m != nil {
		phrase, place = m[1], m[2]
	} else {
		return fam
	}

	b := &model.Birth{Place: trimPhrase(place)}
	if b.Place != "" && res != nil {
		b.Location = res.Place(ctx, b.Place)
	}
	if phrase != "" && res != nil {
		if formatted, _, ok := res.Date(phrase); ok {
			b.Date = formatted
		}
	}
	fam.Birth = b
	return fam
}

// parentsFromBirth reads "to John  Smith and Mary (Jones) Smith". The
// father's name is cut at a double space, the mother's maiden name is
// unwrapped.
func parentsFromBirth(father, mother string) *model.Parents {
	father = cutAt(strings.TrimSpace(father), "  ")
	return &model.Parents{
		Father: &model.Person{Name: father, Sex: model.SexMale},
		Mother: &model.Person{Name: unwrapMaiden(mother), Sex: model.SexFemale},
	}
}

func markLivingParents(text string, p *model.Parents) {
	if p == nil {
		return
	}
	if p.Father != nil && reFatherLiving.MatchString(text) {
		father := *p.Father
		father.Status = model.StatusLiving
		p.Father = &father
	}
	if p.Mother != nil && reMotherLiving.MatchString(text) {
		mother := *p.Mother
		mother.Status = model.StatusLiving
		p.Mother = &mother
	}
}
