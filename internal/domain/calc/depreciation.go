package calc

import "math"

type Structure string

const (
	StructureRC         Structure = "rc"
	StructureSRC        Structure = "src"
	StructureHeavySteel Structure = "steel_heavy"
	StructureLightSteel Structure = "steel_light"
	StructureWood       Structure = "wood"
	StructureWoodMortar Structure = "wood_mortar"
)

// Statutory useful lives for residential buildings.
var usefulLives = map[Structure]int{
	StructureRC:         47,
	StructureSRC:        47,
	StructureHeavySteel: 34,
	StructureLightSteel: 27,
	StructureWood:       22,
	StructureWoodMortar: 20,
}

func (s Structure) Valid() bool {
	_, ok := usefulLives[s]
	return ok
}

type DepreciationInput struct {
	Structure    Structure `json:"structure" binding:"required,structure"`
	BuildingCost int64     `json:"building_cost" binding:"max=10000000000000"`
	// BuildingAge is the age in whole years at acquisition; 0 for new builds.
	BuildingAge int `json:"building_age" binding:"min=0,max=200"`
}

type DepreciationYear struct {
	Year      int   `json:"year"`
	Amount    int64 `json:"amount"`
	BookValue int64 `json:"book_value"`
}

type DepreciationResult struct {
	StatutoryLife int                `json:"statutory_life"`
	UsefulLife    int                `json:"useful_life"`
	Rate          float64            `json:"rate"`
	AnnualAmount  int64              `json:"annual_amount"`
	Schedule      []DepreciationYear `json:"schedule"`
}

// Depreciation computes straight-line depreciation. Second-hand buildings
// use the simplified life: remaining life plus 20% of elapsed years, or 20%
// of the statutory life once it has fully elapsed, never below two years.
// The schedule stops at a memorandum value of ¥1.
func Depreciation(in DepreciationInput) DepreciationResult {
	life, ok := usefulLives[in.Structure]
	if !ok {
		return DepreciationResult{}
	}

	useful := UsefulLife(life, in.BuildingAge)
	rateMille := int64(math.Ceil(1000 / float64(useful)))
	cost := clamp(in.BuildingCost)
	annual := perMille(cost, rateMille)

	r := DepreciationResult{
		StatutoryLife: life,
		UsefulLife:    useful,
		Rate:          float64(rateMille) / 1000,
		AnnualAmount:  annual,
	}

	book := cost
	for year := 1; book > 1 && annual > 0; year++ {
		amount := min(annual, book-1)
		book -= amount
		r.Schedule = append(r.Schedule, DepreciationYear{Year: year, Amount: amount, BookValue: book})
	}
	return r
}

// UsefulLife returns the simplified useful life for a building of the
// given age.
func UsefulLife(statutory, age int) int {
	if age < 0 {
		age = 0
	}
	var life int
	if age >= statutory {
		life = statutory * 2 / 10
	} else {
		life = statutory - age + age*2/10
	}
	if life < 2 {
		life = 2
	}
	return life
}
