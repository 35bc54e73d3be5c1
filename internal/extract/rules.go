package extract

import (
	"context"
	"regexp"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Resolver enriches date phrases and place names found by the rules.
// Implementations absorb their own failures: a date that cannot be
// parsed reports ok=false and a place that cannot be located returns nil.
type Resolver interface {
	Date(phrase string) (formatted string, t *time.Time, ok bool)
	Place(ctx context.Context, place string) *model.GeoPoint
}

// StageFunc reads the normalized text and the record built so far and
// returns the next record. Stages never mutate their input.
type StageFunc func(ctx context.Context, res Resolver, text string, fam model.Family) model.Family

// Stage is one named step of the extraction pipeline
type Stage struct {
	Category model.Category
	Run      StageFunc
}

// Stages returns the fixed extraction order. Later stages may read what
// earlier ones found: brothers keeps a list set by the grandchildren
// stage, siblings only fires when no sister or brother was found, and
// birth only fills parents when the parents stage left them empty.
func Stages() []Stage {
	return []Stage{
		{Category: model.CategoryChildren, Run: children},
		{Category: model.CategoryGrandchildren, Run: grandchildren},
		{Category: model.CategorySpouse, Run: spouse},
		{Category: model.CategorySisters, Run: sisters},
		{Category: model.CategoryBrothers, Run: brothers},
		{Category: model.CategorySiblings, Run: siblings},
		{Category: model.CategoryParents, Run: parents},
		{Category: model.CategoryNiecesNephews, Run: niecesNephews},
		{Category: model.CategoryChildrenInLaw, Run: childrenInLaw},
		{Category: model.CategoryAunt, Run: aunt},
		{Category: model.CategoryBirth, Run: birth},
		{Category: model.CategoryDeath, Run: death},
		{Category: model.CategoryFuneral, Run: funeral},
	}
}

// Run folds text through the stages, starting from an empty record
func Run(ctx context.Context, res Resolver, text string, stages []Stage) model.Family {
	var fam model.Family
	for _, st := range stages {
		fam = st.Run(ctx, res, text, fam)
	}
	return fam
}

// personRule is one template of a category's precedence list
type personRule struct {
	name  string
	match func(text string) []model.Person
}

// firstPeople returns the result of the first rule yielding at least one
// named person, along with that rule's name
func firstPeople(text string, rules []personRule) ([]model.Person, string) {
	for _, r := range rules {
		if people := model.PrunePeople(r.match(text)); len(people) > 0 {
			return people, r.name
		}
	}
	return nil, ""
}

// submatch returns group n of the first match of re, or ""
func submatch(text string, re *regexp.Regexp, n int) string {
	m := re.FindStringSubmatch(text)
	if m == nil || n >= len(m) {
		return ""
	}
	return m[n]
}
