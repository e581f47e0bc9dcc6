package calc

type incomeBracket struct {
	upTo      int64 // inclusive; 0 = no ceiling
	ratePct   int64
	deduction int64
}

// 速算表 for national income tax.
var incomeBrackets = []incomeBracket{
	{1_949_000, 5, 0},
	{3_299_000, 10, 97_500},
	{6_949_000, 20, 427_500},
	{8_999_000, 23, 636_000},
	{17_999_000, 33, 1_536_000},
	{39_999_000, 40, 2_796_000},
	{0, 45, 4_796_000},
}

const (
	reconstructionRate = 21  // 2.1% of income tax, per-mille
	residentTaxRate    = 100 // 10%, per-mille
)

type IncomeTaxResult struct {
	TaxableIncome     int64   `json:"taxable_income"`
	MarginalRate      float64 `json:"marginal_rate"`
	IncomeTax         int64   `json:"income_tax"`
	ReconstructionTax int64   `json:"reconstruction_tax"`
	ResidentTax       int64   `json:"resident_tax"`
	Total             int64   `json:"total"`
	EffectiveRate     float64 `json:"effective_rate"`
}

// IncomeTax computes an individual's national income tax, the 2.1%
// reconstruction surtax and the 10% resident tax on taxable income. The
// national part is paid as one amount, so Total floors income tax plus surtax
// together.
func IncomeTax(taxableIncome int64) IncomeTaxResult {
	income := floorTo(clamp(taxableIncome), 1000)
	if income == 0 {
		return IncomeTaxResult{}
	}

	b := bracketFor(income)
	base := income*b.ratePct/100 - b.deduction
	recon := perMille(base, reconstructionRate)
	national := floorTo(base+recon, 100)

	r := IncomeTaxResult{
		TaxableIncome:     income,
		MarginalRate:      float64(b.ratePct) / 100,
		IncomeTax:         base,
		ReconstructionTax: recon,
		ResidentTax:       floorTo(perMille(income, residentTaxRate), 100),
	}
	r.Total = national + r.ResidentTax
	r.EffectiveRate = ratio(float64(r.Total), float64(income))
	return r
}

func bracketFor(income int64) incomeBracket {
	for _, b := range incomeBrackets {
		if b.upTo == 0 || income <= b.upTo {
			return b
		}
	}
	return incomeBrackets[len(incomeBrackets)-1]
}
