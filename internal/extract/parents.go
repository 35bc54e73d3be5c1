package extract

import (
	"context"
	"regexp"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

var (
	reChildOfTheLate = regexp.MustCompile(`\b(?i:son|daughter) of the late ([^.]+?) and (?:the late )?([^.]+?)\.`)
	reParentsWere    = regexp.MustCompile(`(?i:parents were) (the late )?(` + namePat + `) and (` + namePat + `)`)
)

func parents(_ context.Context, _ Resolver, text string, fam model.Family) model.Family {
	if m := reChildOfTheLate.FindStringSubmatch(text); m != nil {
		fam.Parents = &model.Parents{
			Father: &model.Person{Name: cutAt(m[1], ","), Sex: model.SexMale, Status: model.StatusDeceased},
			Mother: &model.Person{Name: unwrapMaiden(cutAt(m[2], ",")), Sex: model.SexFemale, Status: model.StatusDeceased},
		}
		return fam
	}
	if m := reParentsWere.FindStringSubmatch(text); m != nil {
		father := &model.Person{Name: m[2]}
		mother := &model.Person{Name: m[3]}
		if m[1] != "" {
			father.Status, mother.Status = model.StatusDeceased, model.StatusDeceased
		}
		fam.Parents = &model.Parents{Father: father, Mother: mother}
	}
	return fam
}
