// Package model holds the request and response schemas of the API.
//
// The struct tags are the schema: `json`/`query`/`param` name the wire
// fields, `validate` carries the constraints enforced by the validation
// package and `doc`/`example` feed the OpenAPI document.
package model

// HairColor is the closed set of hair colors a Person may declare.
type HairColor string

const (
	HairColorWhite  HairColor = "white"
	HairColorBlack  HairColor = "black"
	HairColorBrown  HairColor = "brown"
	HairColorRed    HairColor = "red"
	HairColorBlonde HairColor = "blonde"
	HairColorTinted HairColor = "tinted"
)

// HairColors returns every valid HairColor in declaration order.
func HairColors() []HairColor {
	return []HairColor{
		HairColorWhite,
		HairColorBlack,
		HairColorBrown,
		HairColorRed,
		HairColorBlonde,
		HairColorTinted,
	}
}

// Valid reports whether h is one of the declared colors.
func (h HairColor) Valid() bool {
	for _, c := range HairColors() {
		if h == c {
			return true
		}
	}
	return false
}

// Values lists the colors as wire strings.
func (h HairColor) Values() []string {
	colors := HairColors()
	values := make([]string, 0, len(colors))
	for _, c := range colors {
		values = append(values, string(c))
	}
	return values
}

// Person is the body of create and update requests and is echoed back
// unchanged. Optional fields are pointers so an absent value is
// serialized as null.
type Person struct {
	FirstName string     `json:"first_name" validate:"required,min=1,max=50" doc:"First name" example:"Jose"`
	LastName  string     `json:"last_name" validate:"required,min=1,max=50" doc:"Last name" example:"Perez"`
	Age       int        `json:"age" validate:"required,gt=0,lte=115" doc:"Age in years" example:"25"`
	HairColor *HairColor `json:"hair_color" validate:"omitempty,enum" doc:"Hair color" example:"black"`
	IsMarried *bool      `json:"is_married" doc:"Marital status" example:"false"`
	Email     string     `json:"email" validate:"required,email" doc:"Email address" example:"jose@example.com"`
}

// Location is where a Person lives.
type Location struct {
	City    string `json:"city" validate:"required" doc:"City" example:"Bogota"`
	State   string `json:"state" validate:"required" doc:"State or province" example:"Cundinamarca"`
	Country string `json:"country" validate:"required" doc:"Country" example:"Colombia"`
}

// PersonLocation is the flat result of merging a Person with a Location.
//
// Both structs are embedded so their fields are promoted into a single
// JSON object; their field names are disjoint.
type PersonLocation struct {
	Person
	Location
}
