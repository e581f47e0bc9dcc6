package calc

const (
	corporateLowerBand   = 8_000_000
	enterpriseFirstBand  = 4_000_000
	enterpriseSecondBand = 8_000_000

	// EqualLevy is the flat 均等割 of the corporate inhabitant tax, owed even
	// at a loss.
	EqualLevy = 70_000
)

// Rates in per-mille.
const (
	corporateLowerRate   = 150 // 15%
	corporateUpperRate   = 232 // 23.2%
	localCorporateRate   = 103 // 10.3% of national corporate tax
	residentIncomeRate   = 70  // 7.0% of national corporate tax
	enterpriseRate1      = 35
	enterpriseRate2      = 53
	enterpriseRate3      = 70
	specialEnterpriseFac = 370 // 37% of enterprise tax
)

type CorporateTaxResult struct {
	TaxableIncome        int64   `json:"taxable_income"`
	CorporateTax         int64   `json:"corporate_tax"`
	LocalCorporateTax    int64   `json:"local_corporate_tax"`
	ResidentIncomeLevy   int64   `json:"resident_income_levy"`
	ResidentEqualLevy    int64   `json:"resident_equal_levy"`
	EnterpriseTax        int64   `json:"enterprise_tax"`
	SpecialEnterpriseTax int64   `json:"special_enterprise_tax"`
	Total                int64   `json:"total"`
	EffectiveRate        float64 `json:"effective_rate"`
}

// CorporateTax estimates the annual tax of a small company (資本金1億円以下)
// for the given taxable income.
func CorporateTax(taxableIncome int64) CorporateTaxResult {
	income := floorTo(clamp(taxableIncome), 1000)

	lower := min(income, corporateLowerBand)
	upper := income - lower
	national := floorTo(perMille(lower, corporateLowerRate)+perMille(upper, corporateUpperRate), 100)

	band1 := min(income, enterpriseFirstBand)
	band2 := min(income, enterpriseSecondBand) - band1
	band3 := income - band1 - band2
	enterprise := floorTo(
		perMille(band1, enterpriseRate1)+perMille(band2, enterpriseRate2)+perMille(band3, enterpriseRate3),
		100,
	)

	r := CorporateTaxResult{
		TaxableIncome:        income,
		CorporateTax:         national,
		LocalCorporateTax:    floorTo(perMille(national, localCorporateRate), 100),
		ResidentIncomeLevy:   floorTo(perMille(national, residentIncomeRate), 100),
		ResidentEqualLevy:    EqualLevy,
		EnterpriseTax:        enterprise,
		SpecialEnterpriseTax: floorTo(perMille(enterprise, specialEnterpriseFac), 100),
	}
	r.Total = r.CorporateTax + r.LocalCorporateTax + r.ResidentIncomeLevy + r.ResidentEqualLevy +
		r.EnterpriseTax + r.SpecialEnterpriseTax
	r.EffectiveRate = ratio(float64(r.Total-EqualLevy), float64(income))
	return r
}
