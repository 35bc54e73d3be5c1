package extract

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/resolve"
)

// echoGeocoder places everything at the origin
type echoGeocoder struct{}

func (echoGeocoder) Geocode(ctx context.Context, place string) (*model.GeoPoint, error) {
	return &model.GeoPoint{Raw: place, Latitude: 0, Longitude: 0}, nil
}

func testResolver() Resolver {
	return resolve.New(nil, echoGeocoder{}, nil)
}

// runStages folds text through the named stages only
func runStages(text string, fns ...StageFunc) model.Family {
	var fam model.Family
	for _, fn := range fns {
		fam = fn(context.Background(), testResolver(), text, fam)
	}
	return fam.Prune()
}

func samePeople(t *testing.T, got, want []model.Person) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func sameNames(t *testing.T, people []model.Person, want ...string) {
	t.Helper()
	if got := names(people); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected names %q, got %q", want, got)
	}
}

func TestStages_Order(t *testing.T) {
	want := []model.Category{
		model.CategoryChildren, model.CategoryGrandchildren, model.CategorySpouse,
		model.CategorySisters, model.CategoryBrothers, model.CategorySiblings,
		model.CategoryParents, model.CategoryNiecesNephews, model.CategoryChildrenInLaw,
		model.CategoryAunt, model.CategoryBirth, model.CategoryDeath, model.CategoryFuneral,
	}

	var got []model.Category
	for _, st := range Stages() {
		got = append(got, st.Category)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected stage order %v, got %v", want, got)
	}
}

func TestStages_DoNotMutateInput(t *testing.T) {
	in := model.Family{
		Parents: &model.Parents{Father: &model.Person{Name: "George"}},
	}
	text := "She was born on June 5, 1940 in Truro to John Smith and Mary Smith. She is survived by her father."
	out := birth(context.Background(), testResolver(), text, in)

	if in.Parents.Father.Status != "" {
		t.Errorf("Expected input father untouched, got status %q", in.Parents.Father.Status)
	}
	if out.Parents.Father.Status != model.StatusLiving {
		t.Errorf("Expected output father living, got %q", out.Parents.Father.Status)
	}
	if in.Birth != nil {
		t.Error("Expected input family to stay without a birth")
	}
}

func TestParseNameList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []model.Person
	}{
		{"and joins", "Anna and Lucy", []model.Person{{Name: "Anna"}, {Name: "Lucy"}}},
		{"oxford comma", "Sophie, Liam, and Ava", []model.Person{{Name: "Sophie"}, {Name: "Liam"}, {Name: "Ava"}}},
		{"region comma", "Carol Girvan of Dartmouth, NS", []model.Person{{Name: "Carol Girvan", Location: "Dartmouth, NS"}}},
		{"spouse before surname", "John (Mary) Smith of Halifax", []model.Person{{Name: "John Smith", Spouse: "Mary", Location: "Halifax"}}},
		{"spouse without surname", "John (Mary) of Halifax", []model.Person{{Name: "John", Spouse: "Mary", Location: "Halifax"}}},
		{"mixed", "Anna Smith (Tom) of Halifax, and Bob of Truro, NS",
			[]model.Person{{Name: "Anna Smith", Spouse: "Tom", Location: "Halifax"}, {Name: "Bob", Location: "Truro, NS"}}},
		{"stops at loved", "Tim, Tom, loved by all, and Ted", []model.Person{{Name: "Tim"}, {Name: "Tom"}}},
		{"stops at devoted", "Tim, devoted friend Sam", []model.Person{{Name: "Tim"}}},
		{"skips in-law entries", "Tim, father-in-law to Ann, Ted", []model.Person{{Name: "Tim"}, {Name: "Ted"}}},
		{"blank", " , ,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samePeople(t, parseNameList(tt.raw), tt.want)
		})
	}
}

func TestParseClause_AllOf(t *testing.T) {
	samePeople(t, parseClause("Tom, Dick and Harry of Truro, all of Halifax"), []model.Person{
		{Name: "Tom", Location: "Halifax"},
		{Name: "Dick", Location: "Halifax"},
		{Name: "Harry", Location: "Truro"},
	})
}

func TestChildren(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []model.Person
	}{
		{"survived by children", "She is survived by her children, Anna and Bob.",
			[]model.Person{{Name: "Anna"}, {Name: "Bob"}}},
		{"loving mum", "Loving mum to Kate and Sam.",
			[]model.Person{{Name: "Kate"}, {Name: "Sam"}}},
		{"loving father", "Loving father of Ian, Jo and Al; he will be missed.",
			[]model.Person{{Name: "Ian"}, {Name: "Jo"}, {Name: "Al"}}},
		{"mother of", "She was the proud mother of Denise Hall, and a friend to many.",
			[]model.Person{{Name: "Denise Hall"}}},
		{"sons and a daughter", "He leaves sons Tom and Bill, and a daughter Sue.",
			[]model.Person{{Name: "Tom"}, {Name: "Bill"}, {Name: "Sue"}}},
		{"sons clause", "Survived by sons, Tom, Dick and Harry, all of Halifax; and a sister.",
			[]model.Person{{Name: "Tom", Location: "Halifax"}, {Name: "Dick", Location: "Halifax"}, {Name: "Harry", Location: "Halifax"}}},
		{"daughter mrs", "She leaves one daughter, Mrs. Jane Smith, Halifax and a brother.",
			[]model.Person{{Name: "Jane Smith", Location: "Halifax", Sex: model.SexFemale}}},
		{"one daughter", "She leaves one daughter, Ruth, Kentville;",
			[]model.Person{{Name: "Ruth", Location: "Kentville", Sex: model.SexFemale}}},
		{"son and daughter sentences", "Survived by his son, Robert, and their children Amy and Ben. Also his daughter, Susan Jones of Truro.",
			[]model.Person{
				{Name: "Robert", Sex: model.SexMale, Grandchildren: []string{"Amy", "Ben"}},
				{Name: "Susan Jones", Location: "Truro", Sex: model.SexFemale},
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samePeople(t, runStages(tt.text, children).Children, tt.want)
		})
	}
}

func TestChildren_FirstTemplateWins(t *testing.T) {
	text := "Loving mum to Kate. She is survived by her children, Anna and Bob."
	sameNames(t, runStages(text, children).Children, "Anna", "Bob")
}

func TestGrandchildren(t *testing.T) {
	fam := runStages("Survived by grandchildren Amy and Ben, and great-grandchildren Cal.", grandchildren)
	sameNames(t, fam.Grandchildren, "Amy", "Ben")

	fam = runStages("Grandma to Zoe and Max and loved by all.", grandchildren)
	sameNames(t, fam.Grandchildren, "Zoe", "Max")

	fam = runStages("Proud grandmother of Anna, Bob and Carl.", grandchildren)
	sameNames(t, fam.Grandchildren, "Anna", "Bob", "Carl")

	fam = runStages("She leaves her great-grandchildren Lou and Pat.", grandchildren)
	if len(fam.Grandchildren) != 0 {
		t.Errorf("Expected great-grandchildren to be ignored, got %+v", fam.Grandchildren)
	}
}

func TestGrandchildren_BrothersReinterpretation(t *testing.T) {
	fam := runStages("She is survived by her grandchildren, and brothers Tom and Bob.", grandchildren, brothers)

	if len(fam.Grandchildren) != 0 {
		t.Errorf("Expected grandchildren to be dropped, got %+v", fam.Grandchildren)
	}
	samePeople(t, fam.Brothers, []model.Person{
		{Name: "Tom", Sex: model.SexMale},
		{Name: "Bob", Sex: model.SexMale},
	})
}

func TestSpouse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Person
	}{
		{"late with year", "Beloved wife of the late John Smith (1998).",
			model.Person{Name: "John Smith", Status: model.StatusDeceased, DeathYear: 1998}},
		{"married on", "She married Robert Brown on June 5, 1950 in Truro.",
			model.Person{Name: "Robert Brown", MarriageDate: "June 5, 1950", Location: "Truro"}},
		{"husband to the late", "Devoted husband to the late Mary.",
			model.Person{Name: "Mary", Status: model.StatusDeceased}},
		{"wife of years", "Beloved wife of 52 years to Frank.",
			model.Person{Name: "Frank"}},
		{"survived by her husband", "She is survived by her loving husband of 40 years, Alan.",
			model.Person{Name: "Alan"}},
		{"survived by his wife", "He is survived by his wife Mary.",
			model.Person{Name: "Mary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samePeople(t, runStages(tt.text, spouse).Spouse, []model.Person{tt.want})
		})
	}
}

func TestSisters(t *testing.T) {
	fam := runStages("She was predeceased by her sisters Ann and Beth and brother Carl.", sisters)
	samePeople(t, fam.Sisters, []model.Person{
		{Name: "Ann", Sex: model.SexFemale, Status: model.StatusDeceased},
		{Name: "Beth", Sex: model.SexFemale, Status: model.StatusDeceased},
	})

	fam = runStages("Survived by a sister, Joan, Halifax; and a sister, Mrs. Ruth Moore, Truro. She was predeceased by Joan.", sisters)
	samePeople(t, fam.Sisters, []model.Person{
		{Name: "Joan", Location: "Halifax", Sex: model.SexFemale, Status: model.StatusDeceased},
		{Name: "Ruth Moore", Location: "Truro", Sex: model.SexFemale, Status: model.StatusLiving},
	})

	fam = runStages("Survived by two sisters, Mrs. Jones, Halifax and Jane of Truro;", sisters)
	samePeople(t, fam.Sisters, []model.Person{
		{Name: "Mrs. Jones", Location: "Halifax", Sex: model.SexFemale},
		{Name: "Jane", Location: "Truro", Sex: model.SexFemale},
	})
}

func TestBrothers(t *testing.T) {
	fam := runStages("Also survived by a brother, Tom, Halifax.", sisters, brothers)
	samePeople(t, fam.Brothers, []model.Person{
		{Name: "Tom", Location: "Halifax", Sex: model.SexMale, Status: model.StatusLiving},
	})

	fam = runStages("Survived by brothers, Carl, Dan and Ed, all of Truro;", sisters, brothers)
	sameNames(t, fam.Brothers, "Carl", "Dan", "Ed")
	if len(fam.Brothers) > 0 && fam.Brothers[0].Location != "Truro" {
		t.Errorf("Expected location Truro, got %q", fam.Brothers[0].Location)
	}
}

func TestBrothers_SisterOfYieldsSiblings(t *testing.T) {
	fam := runStages("Loving sister of Anna and Beth.", sisters, brothers, siblings)
	sameNames(t, fam.Siblings, "Anna", "Beth")
	if len(fam.Brothers) != 0 || len(fam.Sisters) != 0 {
		t.Errorf("Expected no brothers or sisters, got %+v / %+v", fam.Brothers, fam.Sisters)
	}
}

func TestSiblings_Mentions(t *testing.T) {
	fam := runStages("He leaves behind his sister Claire and his brothers Tom and Ned.", sisters, brothers, siblings)
	samePeople(t, fam.Siblings, []model.Person{
		{Name: "Claire", Sex: model.SexFemale},
		{Name: "Tom", Sex: model.SexMale},
		{Name: "Ned", Sex: model.SexMale},
	})

	// Only fires when nothing else named a sibling
	fam = runStages("Survived by a brother, Tom, Halifax. He leaves his sister Claire.", sisters, brothers, siblings)
	if len(fam.Siblings) != 0 {
		t.Errorf("Expected no siblings, got %+v", fam.Siblings)
	}
}

func TestParents(t *testing.T) {
	fam := runStages("He was the son of the late John Smith, of Truro, and Mary (nee Jones) Smith.", parents)
	if fam.Parents == nil {
		t.Fatal("Expected parents")
	}
	want := &model.Person{Name: "John Smith", Sex: model.SexMale, Status: model.StatusDeceased}
	if !reflect.DeepEqual(fam.Parents.Father, want) {
		t.Errorf("Expected father %+v, got %+v", want, fam.Parents.Father)
	}

	fam = runStages("Daughter of the late Paul Hart and Joan (Lee) Hart.", parents)
	if fam.Parents == nil {
		t.Fatal("Expected parents")
	}
	if fam.Parents.Father.Name != "Paul Hart" || fam.Parents.Mother.Name != "Joan Lee Hart" {
		t.Errorf("Expected Paul Hart and Joan Lee Hart, got %q and %q", fam.Parents.Father.Name, fam.Parents.Mother.Name)
	}

	fam = runStages("Her parents were the late George and Helen.", parents)
	if fam.Parents == nil {
		t.Fatal("Expected parents")
	}
	if fam.Parents.Father.Status != model.StatusDeceased {
		t.Errorf("Expected father deceased, got %q", fam.Parents.Father.Status)
	}
	if fam.Parents.Mother.Name != "Helen" {
		t.Errorf("Expected mother Helen, got %q", fam.Parents.Mother.Name)
	}
}

func TestNiecesNephews(t *testing.T) {
	fam := runStages("Survived by many friends as well as several nieces and nephews.", niecesNephews)
	samePeople(t, fam.NiecesNephews, []model.Person{{Name: "several nieces and nephews"}})

	fam = runStages("She is survived by two sons and several nieces and nephews.", niecesNephews)
	if len(fam.NiecesNephews) != 0 {
		t.Errorf("Expected no entry without \"as well as\", got %+v", fam.NiecesNephews)
	}
}

func TestInLawsAndAunt(t *testing.T) {
	fam := runStages("He was a kind father-in-law to Carl and Dana.", childrenInLaw)
	sameNames(t, fam.ChildrenInLaw, "Carl", "Dana")

	fam = runStages("A caring mother-in-law to Pat.", childrenInLaw)
	sameNames(t, fam.ChildrenInLaw, "Pat")

	fam = runStages("She was the niece of Margaret Hall.", aunt)
	sameNames(t, fam.Aunt, "Margaret Hall")
}

func TestBirth(t *testing.T) {
	tests := []struct {
		text  string
		place string
		date  string
	}{
		{"Born in Halifax, Nova Scotia on March 3, 1931, he was a sailor.", "Halifax", "1931/03/03"},
		{"He was born in Yarmouth on May 1, 1950.", "Yarmouth", "1950/05/01"},
		{"He was born May 1, 1950, in Yarmouth.", "Yarmouth", "1950/05/01"},
	}
	for _, tt := range tests {
		fam := runStages(tt.text, birth)
		if fam.Birth == nil {
			t.Errorf("%q: expected a birth", tt.text)
			continue
		}
		if fam.Birth.Place != tt.place || fam.Birth.Date != tt.date {
			t.Errorf("%q: expected %s %s, got %s %s", tt.text, tt.place, tt.date, fam.Birth.Place, fam.Birth.Date)
		}
		if fam.Birth.Location == nil || fam.Birth.Location.Raw != tt.place {
			t.Errorf("%q: expected %s to be geocoded, got %+v", tt.text, tt.place, fam.Birth.Location)
		}
	}
}

func TestBirth_ToParents(t *testing.T) {
	text := "She was born on June 5, 1940 in Truro to John  Smith and Mary (Brown) Smith. She is survived by her mother."
	fam := runStages(text, parents, birth)

	if fam.Birth == nil || fam.Parents == nil {
		t.Fatalf("Expected birth and parents, got %+v", fam)
	}
	if fam.Birth.Place != "Truro" || fam.Birth.Date != "1940/06/05" {
		t.Errorf("Expected Truro 1940/06/05, got %s %s", fam.Birth.Place, fam.Birth.Date)
	}
	if fam.Parents.Father.Name != "John" || fam.Parents.Father.Status != "" {
		t.Errorf("Expected father John without status, got %+v", fam.Parents.Father)
	}
	if fam.Parents.Mother.Name != "Mary Brown Smith" || fam.Parents.Mother.Status != model.StatusLiving {
		t.Errorf("Expected living mother Mary Brown Smith, got %+v", fam.Parents.Mother)
	}
}

func TestBirth_NoYearLeavesDateOut(t *testing.T) {
	fam := runStages("She was born June 5 in Halifax to John Smith and Mary Jones. She loved gardening.", birth)

	if fam.Birth == nil {
		t.Fatal("Expected a birth")
	}
	if fam.Birth.Place != "Halifax" {
		t.Errorf("Expected place Halifax, got %q", fam.Birth.Place)
	}
	if fam.Birth.Date != "" {
		t.Errorf("Expected no date for a phrase without a year, got %q", fam.Birth.Date)
	}
}

// blindResolver understands no dates and no places
type blindResolver struct{}

func (blindResolver) Date(string) (string, *time.Time, bool) { return "", nil, false }
func (blindResolver) Place(context.Context, string) *model.GeoPoint { return nil }

func TestBirth_UnresolvedFieldsLeftOut(t *testing.T) {
	fam := birth(context.Background(), blindResolver{}, "She was born in Truro on June 5, 1940.", model.Family{})
	if fam.Birth == nil {
		t.Fatal("Expected a birth")
	}
	if fam.Birth.Place != "Truro" || fam.Birth.Date != "" || fam.Birth.Location != nil {
		t.Errorf("Expected only the place Truro, got %+v", fam.Birth)
	}
}

func TestDeath(t *testing.T) {
	tests := []struct {
		text  string
		place string
		date  string
		age   int
	}{
		{"He died at the age of 90 at his home.", "his home", "", 90},
		{"She died at the residence, 12 Main Street.", "12 Main Street", "", 0},
		{"He passed away at Valley Hospital, June 5, 2020.", "Valley Hospital", "June 5, 2020", 0},
		{"He passed away at home after a long illness.", "home", "", 0},
		{"She died peacefully at St. Martha's Regional Hospital.", "St. Martha's Regional Hospital", "", 0},
		{"He passed away at home in Mt. Uniacke. He was 80.", "home in Mt. Uniacke", "", 0},
	}
	for _, tt := range tests {
		fam := runStages(tt.text, death)
		if fam.Death == nil {
			t.Errorf("%q: expected a death", tt.text)
			continue
		}
		d := fam.Death
		if d.Place != tt.place || d.Date != tt.date || d.Age != tt.age {
			t.Errorf("%q: expected %q %q %d, got %q %q %d", tt.text, tt.place, tt.date, tt.age, d.Place, d.Date, d.Age)
		}
		if tt.date != "" && d.DateTime == nil {
			t.Errorf("%q: expected a parsed datetime", tt.text)
		}
	}
}

func TestFuneral(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Funeral
	}{
		{"full", "A funeral service will be held at St. Paul's Church, on Saturday, June 6, at 2 p.m.",
			model.Funeral{Location: "St. Paul's Church", Date: "Saturday, June 6", Time: "2 p.m."}},
		{"loose after mention", "Visitation will be at the funeral home. A memorial gathering at Knox Church on Friday, June 5 at 11 am.",
			model.Funeral{Location: "Knox Church", Date: "Friday, June 5", Time: "11 am"}},
		{"undotted time before next sentence", "A memorial service at Knox Church on Friday, June 5 at 10 AM. Burial to follow.",
			model.Funeral{Location: "Knox Church", Date: "Friday, June 5", Time: "10 AM"}},
		{"time then location", "Funeral services will be held at 2 p.m. at Knox Church, with Rev. Smith officiating.",
			model.Funeral{Location: "Knox Church", Time: "2 p.m."}},
		{"location only", "Funeral services will be held at Knox Church, with burial to follow.",
			model.Funeral{Location: "Knox Church"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam := runStages(tt.text, funeral)
			if fam.Funeral == nil {
				t.Fatal("Expected a funeral")
			}
			if *fam.Funeral != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *fam.Funeral)
			}
		})
	}
}

func TestFuneral_LooseRuleNeedsMention(t *testing.T) {
	if fam := runStages("We met at Knox Church on Friday, June 5 at 11 am.", funeral); fam.Funeral != nil {
		t.Errorf("Expected no funeral without a service mention, got %+v", fam.Funeral)
	}
}
