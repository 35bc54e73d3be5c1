package model

import "strings"

// Family is the structured record extracted from one obituary.
// Each category has a fixed shape; an absent category means the text
// did not mention it, never that it was mentioned but empty.
type Family struct {
	Children      []Person `json:"children,omitempty" yaml:"children,omitempty"`
	Grandchildren []Person `json:"grandchildren,omitempty" yaml:"grandchildren,omitempty"`
	Spouse        []Person `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Siblings      []Person `json:"siblings,omitempty" yaml:"siblings,omitempty"`
	Brothers      []Person `json:"brothers,omitempty" yaml:"brothers,omitempty"`
	Sisters       []Person `json:"sisters,omitempty" yaml:"sisters,omitempty"`
	Parents       *Parents `json:"parents,omitempty" yaml:"parents,omitempty"`
	ChildrenInLaw []Person `json:"children_in_law,omitempty" yaml:"children_in_law,omitempty"`
	Aunt          []Person `json:"aunt,omitempty" yaml:"aunt,omitempty"`
	NiecesNephews []Person `json:"nieces_nephews,omitempty" yaml:"nieces_nephews,omitempty"`
	Birth         *Birth   `json:"birth,omitempty" yaml:"birth,omitempty"`
	Death         *Death   `json:"death,omitempty" yaml:"death,omitempty"`
	Funeral       *Funeral `json:"funeral,omitempty" yaml:"funeral,omitempty"`
}

// Category names a key of the family record
type Category string

const (
	CategoryChildren      Category = "children"
	CategoryGrandchildren Category = "grandchildren"
	CategorySpouse        Category = "spouse"
	CategorySiblings      Category = "siblings"
	CategoryBrothers      Category = "brothers"
	CategorySisters       Category = "sisters"
	CategoryParents       Category = "parents"
	CategoryChildrenInLaw Category = "children_in_law"
	CategoryAunt          Category = "aunt"
	CategoryNiecesNephews Category = "nieces_nephews"
	CategoryBirth         Category = "birth"
	CategoryDeath         Category = "death"
	CategoryFuneral       Category = "funeral"
)

// AllCategories lists every category in canonical output order
func AllCategories() []Category {
	return []Category{
		CategoryChildren, CategoryGrandchildren, CategorySpouse,
		CategorySiblings, CategoryBrothers, CategorySisters,
		CategoryParents, CategoryChildrenInLaw, CategoryAunt,
		CategoryNiecesNephews, CategoryBirth, CategoryDeath, CategoryFuneral,
	}
}

// People returns the person list held by a list-shaped category.
// It returns nil for the structured categories (parents, birth, death, funeral).
func (f Family) People(c Category) []Person {
	switch c {
	case CategoryChildren:
		return f.Children
	case CategoryGrandchildren:
		return f.Grandchildren
	case CategorySpouse:
		return f.Spouse
	case CategorySiblings:
		return f.Siblings
	case CategoryBrothers:
		return f.Brothers
	case CategorySisters:
		return f.Sisters
	case CategoryChildrenInLaw:
		return f.ChildrenInLaw
	case CategoryAunt:
		return f.Aunt
	case CategoryNiecesNephews:
		return f.NiecesNephews
	}
	return nil
}

// Has reports whether the category is present
func (f Family) Has(c Category) bool {
	switch c {
	case CategoryParents:
		return f.Parents != nil
	case CategoryBirth:
		return f.Birth != nil
	case CategoryDeath:
		return f.Death != nil
	case CategoryFuneral:
		return f.Funeral != nil
	}
	return len(f.People(c)) > 0
}

// Categories lists the present categories in canonical order
func (f Family) Categories() []Category {
	var present []Category
	for _, c := range AllCategories() {
		if f.Has(c) {
			present = append(present, c)
		}
	}
	return present
}

// IsEmpty reports whether no category is present
func (f Family) IsEmpty() bool {
	return len(f.Categories()) == 0
}

// Prune returns a copy of the record with blank values removed: blank
// strings are cleared, blank people are filtered out of every list, and
// any category left empty is deleted.
func (f Family) Prune() Family {
	return Family{
		Children:      PrunePeople(f.Children),
		Grandchildren: PrunePeople(f.Grandchildren),
		Spouse:        PrunePeople(f.Spouse),
		Siblings:      PrunePeople(f.Siblings),
		Brothers:      PrunePeople(f.Brothers),
		Sisters:       PrunePeople(f.Sisters),
		Parents:       pruneParents(f.Parents),
		ChildrenInLaw: PrunePeople(f.ChildrenInLaw),
		Aunt:          PrunePeople(f.Aunt),
		NiecesNephews: PrunePeople(f.NiecesNephews),
		Birth:         pruneBirth(f.Birth),
		Death:         pruneDeath(f.Death),
		Funeral:       pruneFuneral(f.Funeral),
	}
}

// PrunePerson trims every field of p and drops the blank ones
func PrunePerson(p Person) Person {
	out := Person{
		Name:         strings.TrimSpace(p.Name),
		Spouse:       strings.TrimSpace(p.Spouse),
		Location:     strings.TrimSpace(p.Location),
		Sex:          p.Sex,
		Status:       p.Status,
		DeathYear:    p.DeathYear,
		MarriageDate: strings.TrimSpace(p.MarriageDate),
	}
	for _, gc := range p.Grandchildren {
		if gc = strings.TrimSpace(gc); gc != "" {
			out.Grandchildren = append(out.Grandchildren, gc)
		}
	}
	return out
}

// PrunePeople prunes each person and drops the blank ones
func PrunePeople(people []Person) []Person {
	var out []Person
	for _, p := range people {
		p = PrunePerson(p)
		if p.IsBlank() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func prunePersonPtr(p *Person) *Person {
	if p == nil {
		return nil
	}
	pruned := PrunePerson(*p)
	if pruned.IsBlank() {
		return nil
	}
	return &pruned
}

func pruneParents(p *Parents) *Parents {
	if p == nil {
		return nil
	}
	out := &Parents{
		Father: prunePersonPtr(p.Father),
		Mother: prunePersonPtr(p.Mother),
	}
	if out.Father == nil && out.Mother == nil {
		return nil
	}
	return out
}

func pruneBirth(b *Birth) *Birth {
	if b == nil {
		return nil
	}
	out := &Birth{
		Place:    strings.TrimSpace(b.Place),
		Location: b.Location,
		Date:     strings.TrimSpace(b.Date),
	}
	if out.Place == "" && out.Location == nil && out.Date == "" {
		return nil
	}
	return out
}

func pruneDeath(d *Death) *Death {
	if d == nil {
		return nil
	}
	out := &Death{
		Date:     strings.TrimSpace(d.Date),
		DateTime: d.DateTime,
		Age:      d.Age,
		Place:    strings.TrimSpace(d.Place),
	}
	if out.Age <= 0 || out.Age >= MaxAge {
		out.Age = 0
	}
	if out.Date == "" && out.DateTime == nil && out.Age == 0 && out.Place == "" {
		return nil
	}
	return out
}

func pruneFuneral(f *Funeral) *Funeral {
	if f == nil {
		return nil
	}
	out := &Funeral{
		Location: strings.TrimSpace(f.Location),
		Date:     strings.TrimSpace(f.Date),
		Time:     strings.TrimSpace(f.Time),
	}
	if out.Location == "" && out.Date == "" && out.Time == "" {
		return nil
	}
	return out
}
