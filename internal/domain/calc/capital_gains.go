package calc

import "time"

// Rates in units of 0.001% so the 0.315% reconstruction surtax stays integral.
type gainsRates struct {
	income         int64
	reconstruction int64
	resident       int64
}

var (
	longTermRates  = gainsRates{income: 15_000, reconstruction: 315, resident: 5_000}
	shortTermRates = gainsRates{income: 30_000, reconstruction: 630, resident: 9_000}
)

type CapitalGainsInput struct {
	SalePrice               int64 `json:"sale_price" binding:"max=10000000000000"`
	AcquisitionCost         int64 `json:"acquisition_cost" binding:"max=10000000000000"`
	AccumulatedDepreciation int64 `json:"accumulated_depreciation" binding:"max=10000000000000"`
	SellingCosts            int64 `json:"selling_costs" binding:"max=10000000000000"`
	AcquiredOn              Date  `json:"acquired_on"`
	SoldOn                  Date  `json:"sold_on"`
}

type CapitalGainsResult struct {
	AdjustedBasis     int64   `json:"adjusted_basis"`
	Gain              int64   `json:"gain"`
	LongTerm          bool    `json:"long_term"`
	OwnershipYears    int     `json:"ownership_years"`
	IncomeTax         int64   `json:"income_tax"`
	ReconstructionTax int64   `json:"reconstruction_tax"`
	ResidentTax       int64   `json:"resident_tax"`
	Total             int64   `json:"total"`
	Rate              float64 `json:"rate"`
}

// CapitalGainsTax applies the separate-taxation rates for real estate
// (譲渡所得). Ownership is measured to 1 January of the year of sale; the
// long-term rate needs more than five years at that date.
func CapitalGainsTax(in CapitalGainsInput) CapitalGainsResult {
	basis := clamp(clamp(in.AcquisitionCost) - clamp(in.AccumulatedDepreciation))
	gain := clamp(in.SalePrice) - basis - clamp(in.SellingCosts)

	r := CapitalGainsResult{
		AdjustedBasis:  basis,
		OwnershipYears: ownershipYears(in.AcquiredOn.Time, in.SoldOn.Time),
		LongTerm:       isLongTerm(in.AcquiredOn.Time, in.SoldOn.Time),
	}

	base := floorTo(gain, 1000)
	if base <= 0 {
		return r
	}

	rates := shortTermRates
	r.Rate = 0.3963
	if r.LongTerm {
		rates = longTermRates
		r.Rate = 0.20315
	}

	r.Gain = base
	r.IncomeTax = floorTo(base*rates.income/100_000, 100)
	r.ReconstructionTax = floorTo(base*rates.reconstruction/100_000, 100)
	r.ResidentTax = floorTo(base*rates.resident/100_000, 100)
	r.Total = r.IncomeTax + r.ReconstructionTax + r.ResidentTax
	return r
}

func januaryFirst(sold time.Time) time.Time {
	return time.Date(sold.Year(), time.January, 1, 0, 0, 0, 0, sold.Location())
}

func isLongTerm(acquired, sold time.Time) bool {
	if acquired.IsZero() || sold.IsZero() {
		return false
	}
	return januaryFirst(sold).After(acquired.AddDate(5, 0, 0))
}

// ownershipYears counts whole years from acquisition to 1 January of the
// sale year.
func ownershipYears(acquired, sold time.Time) int {
	if acquired.IsZero() || sold.IsZero() {
		return 0
	}
	jan1 := januaryFirst(sold)
	if !acquired.Before(jan1) {
		return 0
	}
	years := jan1.Year() - acquired.Year()
	if acquired.AddDate(years, 0, 0).After(jan1) {
		years--
	}
	return years
}
