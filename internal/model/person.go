package model

import (
	"strings"
	"time"
)

// Sex of a relative when the phrasing makes it explicit
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Status records whether a relative was alive when the notice was written
type Status string

const (
	StatusLiving   Status = "living"
	StatusDeceased Status = "deceased"
)

// Person is one relative named in an obituary
type Person struct {
	Name          string   `json:"name" yaml:"name"`                                       // Required, never blank after pruning
	Spouse        string   `json:"spouse,omitempty" yaml:"spouse,omitempty"`               // e.g. "Mary" from "John (Mary) Smith"
	Location      string   `json:"location,omitempty" yaml:"location,omitempty"`           // e.g. "Dartmouth, NS"
	Sex           Sex      `json:"sex,omitempty" yaml:"sex,omitempty"`                     // M or F
	Status        Status   `json:"status,omitempty" yaml:"status,omitempty"`               // living or deceased
	DeathYear     int      `json:"death_year,omitempty" yaml:"death_year,omitempty"`       // From "the late NAME (1998)"
	Grandchildren []string `json:"grandchildren,omitempty" yaml:"grandchildren,omitempty"` // From "and their children ..."
	MarriageDate  string   `json:"marriage_date,omitempty" yaml:"marriage_date,omitempty"` // From "married NAME on DATE"
}

// IsBlank reports whether the person has no usable name
func (p Person) IsBlank() bool {
	return strings.TrimSpace(p.Name) == ""
}

// Parents pairs the father and mother of the deceased
type Parents struct {
	Father *Person `json:"father,omitempty" yaml:"father,omitempty"`
	Mother *Person `json:"mother,omitempty" yaml:"mother,omitempty"`
}

// GeoPoint is a geocoded place
type GeoPoint struct {
	Raw       string  `json:"raw" yaml:"raw"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Birth holds where and when the deceased was born
type Birth struct {
	Place    string    `json:"place,omitempty" yaml:"place,omitempty"`
	Location *GeoPoint `json:"location,omitempty" yaml:"location,omitempty"`
	Date     string    `json:"date,omitempty" yaml:"date,omitempty"` // YYYY/MM/DD
}

// Death holds the date, age and place of death
type Death struct {
	Date     string     `json:"date,omitempty" yaml:"date,omitempty"`         // Phrase as written
	DateTime *time.Time `json:"datetime,omitempty" yaml:"datetime,omitempty"` // Parsed form of Date
	Age      int        `json:"age,omitempty" yaml:"age,omitempty"`           // Always below MaxAge
	Place    string     `json:"place,omitempty" yaml:"place,omitempty"`
}

// MaxAge bounds a plausible age at death; larger numbers are treated as noise
const MaxAge = 110

// Funeral holds the service details
type Funeral struct {
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
}
