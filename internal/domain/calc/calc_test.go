package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorporateTaxZeroIncomeOwesOnlyEqualLevy(t *testing.T) {
	for _, income := range []int64{0, -1, -5_000_000, 999} {
		r := CorporateTax(income)
		assert.Equal(t, int64(EqualLevy), r.Total, "income %d", income)
		assert.Zero(t, r.CorporateTax)
		assert.Zero(t, r.EffectiveRate)
	}
}

func TestCorporateTaxLowerBandIsFifteenPercent(t *testing.T) {
	for _, income := range []int64{1_000_000, 5_000_000, 8_000_000} {
		r := CorporateTax(income)
		assert.Equal(t, income*15/100, r.CorporateTax, "income %d", income)
	}
}

func TestCorporateTaxTenMillion(t *testing.T) {
	r := CorporateTax(10_000_000)

	assert.Equal(t, int64(1_664_000), r.CorporateTax)
	assert.Equal(t, int64(171_300), r.LocalCorporateTax)
	assert.Equal(t, int64(116_400), r.ResidentIncomeLevy)
	assert.Equal(t, int64(70_000), r.ResidentEqualLevy)
	assert.Equal(t, int64(492_000), r.EnterpriseTax)
	assert.Equal(t, int64(182_000), r.SpecialEnterpriseTax)
	assert.Equal(t, int64(2_695_700), r.Total)
	assert.InDelta(t, 0.26257, r.EffectiveRate, 1e-9)
}

func TestCorporateTaxFloorsIncomeToThousand(t *testing.T) {
	assert.Equal(t, CorporateTax(10_000_000), CorporateTax(10_000_999))
	assert.Equal(t, int64(10_000_000), CorporateTax(10_000_999).TaxableIncome)
}

func TestIncomeTax(t *testing.T) {
	tests := []struct {
		name     string
		income   int64
		base     int64
		marginal float64
		total    int64
	}{
		{"first bracket", 1_000_000, 50_000, 0.05, 151_000},
		{"20% bracket", 5_000_000, 572_500, 0.20, 1_084_500},
		{"top bracket", 50_000_000, 17_704_000, 0.45, 23_075_700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := IncomeTax(tt.income)
			assert.Equal(t, tt.base, r.IncomeTax)
			assert.Equal(t, tt.marginal, r.MarginalRate)
			assert.Equal(t, tt.total, r.Total)
		})
	}
}

func TestIncomeTaxNonPositiveIsZero(t *testing.T) {
	assert.Equal(t, IncomeTaxResult{}, IncomeTax(0))
	assert.Equal(t, IncomeTaxResult{}, IncomeTax(-100))
}

func TestIncomeTaxBracketEdges(t *testing.T) {
	assert.Equal(t, 0.05, IncomeTax(1_949_000).MarginalRate)
	assert.Equal(t, 0.10, IncomeTax(1_950_000).MarginalRate)
	assert.Equal(t, 0.40, IncomeTax(39_999_000).MarginalRate)
	assert.Equal(t, 0.45, IncomeTax(40_000_000).MarginalRate)
}

func date(y int, m time.Month, d int) Date {
	return NewDate(y, m, d)
}

func TestCapitalGainsLongAndShortTerm(t *testing.T) {
	in := CapitalGainsInput{
		SalePrice:               50_000_000,
		AcquisitionCost:         45_000_000,
		AccumulatedDepreciation: 7_000_000,
		SellingCosts:            2_000_000,
		AcquiredOn:              date(2018, time.March, 1),
		SoldOn:                  date(2024, time.June, 1),
	}

	long := CapitalGainsTax(in)
	assert.True(t, long.LongTerm)
	assert.Equal(t, 5, long.OwnershipYears)
	assert.Equal(t, int64(38_000_000), long.AdjustedBasis)
	assert.Equal(t, int64(10_000_000), long.Gain)
	assert.Equal(t, int64(1_500_000), long.IncomeTax)
	assert.Equal(t, int64(31_500), long.ReconstructionTax)
	assert.Equal(t, int64(500_000), long.ResidentTax)
	assert.Equal(t, int64(2_031_500), long.Total)

	// Five years by the sale date, only four as of 1 January 2024.
	in.AcquiredOn = date(2019, time.June, 1)
	short := CapitalGainsTax(in)
	assert.False(t, short.LongTerm)
	assert.Equal(t, 4, short.OwnershipYears)
	assert.Equal(t, int64(3_963_000), short.Total)
}

func TestCapitalGainsExactlyFiveYearsIsShortTerm(t *testing.T) {
	r := CapitalGainsTax(CapitalGainsInput{
		SalePrice:       20_000_000,
		AcquisitionCost: 10_000_000,
		AcquiredOn:      date(2019, time.January, 1),
		SoldOn:          date(2024, time.December, 31),
	})
	assert.Equal(t, 5, r.OwnershipYears)
	assert.False(t, r.LongTerm)
}

func TestCapitalGainsLossOwesNothing(t *testing.T) {
	r := CapitalGainsTax(CapitalGainsInput{
		SalePrice:       10_000_000,
		AcquisitionCost: 12_000_000,
		AcquiredOn:      date(2010, time.January, 1),
		SoldOn:          date(2024, time.January, 1),
	})
	assert.Zero(t, r.Total)
	assert.Zero(t, r.Gain)
}

func TestUsefulLife(t *testing.T) {
	assert.Equal(t, 22, UsefulLife(22, 0))
	assert.Equal(t, 4, UsefulLife(22, 22))
	assert.Equal(t, 4, UsefulLife(22, 30))
	assert.Equal(t, 14, UsefulLife(22, 10))
	assert.Equal(t, 2, UsefulLife(2, 5))
	assert.Equal(t, 39, UsefulLife(47, 10))
}

func TestDepreciation(t *testing.T) {
	r := Depreciation(DepreciationInput{Structure: StructureRC, BuildingCost: 47_000_000})
	assert.Equal(t, 47, r.UsefulLife)
	assert.Equal(t, 0.022, r.Rate)
	assert.Equal(t, int64(1_034_000), r.AnnualAmount)

	require.NotEmpty(t, r.Schedule)
	last := r.Schedule[len(r.Schedule)-1]
	assert.Equal(t, int64(1), last.BookValue)

	var sum int64
	for _, y := range r.Schedule {
		sum += y.Amount
	}
	assert.Equal(t, int64(47_000_000-1), sum)
}

func TestDepreciationUsedWood(t *testing.T) {
	r := Depreciation(DepreciationInput{Structure: StructureWood, BuildingCost: 10_000_000, BuildingAge: 25})
	assert.Equal(t, 22, r.StatutoryLife)
	assert.Equal(t, 4, r.UsefulLife)
	assert.Equal(t, 0.25, r.Rate)
	assert.Equal(t, int64(2_500_000), r.AnnualAmount)
	assert.Len(t, r.Schedule, 4)
}

func TestDepreciationUnknownStructure(t *testing.T) {
	assert.Equal(t, DepreciationResult{}, Depreciation(DepreciationInput{Structure: "tent", BuildingCost: 1_000}))
	assert.False(t, Structure("tent").Valid())
	assert.True(t, StructureWoodMortar.Valid())
}

func TestLoanEqualPayment(t *testing.T) {
	r := Loan(LoanInput{Principal: 10_000_000, AnnualRatePct: 1.0, Years: 20, Method: EqualPayment})

	assert.Equal(t, int64(45_989), r.MonthlyPayment)
	assert.InDelta(t, 551_873, r.AnnualDebtService, 1)
	assert.InDelta(t, 1_037_463, r.TotalInterest, 1)
	assert.InDelta(t, 11_037_463, r.TotalPayment, 1)
	require.Len(t, r.Schedule, 20)
	assert.Zero(t, r.Schedule[19].Balance)
}

func TestLoanEqualPrincipal(t *testing.T) {
	r := Loan(LoanInput{Principal: 10_000_000, AnnualRatePct: 1.0, Years: 20, Method: EqualPrincipal})

	assert.Equal(t, int64(50_000), r.MonthlyPayment)
	assert.InDelta(t, 1_004_167, r.TotalInterest, 1)
	assert.Equal(t, int64(500_000), r.Schedule[0].Principal)
}

func TestLoanZeroRateAndDegenerateInput(t *testing.T) {
	r := Loan(LoanInput{Principal: 12_000_000, Years: 10})
	assert.Equal(t, EqualPayment, r.Method)
	assert.Equal(t, int64(100_000), r.MonthlyPayment)
	assert.Equal(t, int64(1_200_000), r.AnnualDebtService)
	assert.Zero(t, r.TotalInterest)

	empty := Loan(LoanInput{Principal: -1, AnnualRatePct: 2, Years: 30})
	assert.Zero(t, empty.MonthlyPayment)
	assert.Empty(t, empty.Schedule)
}

func TestInvestment(t *testing.T) {
	r := Investment(InvestmentInput{
		Price:             100_000_000,
		AcquisitionCosts:  7_000_000,
		AnnualRent:        8_000_000,
		VacancyRatePct:    5,
		OperatingExpenses: 1_600_000,
		LoanAmount:        30_000_000,
		LoanRatePct:       2.0,
		LoanYears:         30,
	})

	assert.InDelta(t, 0.08, r.GrossYield, 1e-12)
	assert.Equal(t, int64(400_000), r.VacancyLoss)
	assert.Equal(t, int64(7_600_000), r.EffectiveIncome)
	assert.Equal(t, int64(6_000_000), r.NOI)
	assert.InDelta(t, 0.06, r.CapRate, 1e-12)
	assert.InDelta(t, 1_330_630, r.AnnualDebtService, 1)
	assert.InDelta(t, float64(r.NOI)/float64(r.AnnualDebtService), r.DSCR, 1e-12)
	assert.Equal(t, r.NOI-r.AnnualDebtService, r.CashFlow)
	assert.Equal(t, int64(77_000_000), r.Equity)
	assert.InDelta(t, float64(r.CashFlow)/77_000_000, r.CashOnCash, 1e-12)
}

func TestInvestmentZeroDenominators(t *testing.T) {
	r := Investment(InvestmentInput{AnnualRent: 1_000_000})
	assert.Zero(t, r.GrossYield)
	assert.Zero(t, r.CapRate)
	assert.Zero(t, r.DSCR)
	assert.Zero(t, r.CashOnCash)
	assert.Equal(t, int64(1_000_000), r.NOI)
}

func TestRun(t *testing.T) {
	out, err := Run(KindCorporateTax, []byte(`{"taxable_income": 10000000}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1_664_000), out.(CorporateTaxResult).CorporateTax)

	out, err = Run(KindDepreciation, []byte(`{"structure": "wood", "building_cost": 2200000}`))
	require.NoError(t, err)
	assert.Equal(t, 22, out.(DepreciationResult).UsefulLife)

	_, err = Run(KindDepreciation, []byte(`{"structure": "tent"}`))
	assert.Error(t, err)

	_, err = Run("lottery", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	out, err = Run(KindCapitalGains, []byte(`{"sale_price": 20000000, "acquisition_cost": 10000000, "acquired_on": "2010-04-01", "sold_on": "2024-05-01"}`))
	require.NoError(t, err)
	assert.True(t, out.(CapitalGainsResult).LongTerm)

	_, err = Run(KindCapitalGains, []byte(`{"acquired_on": "April 2010"}`))
	assert.Error(t, err)

	_, err = Run(KindLoan, nil)
	assert.Error(t, err)

	_, err = Run(KindLoan, []byte(`{"principal": "lots"}`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(LoanInput{Principal: 1, Years: 35, Method: EqualPrincipal}))
	assert.Error(t, Validate(LoanInput{Principal: 1, Years: 0}))
	assert.Error(t, Validate(LoanInput{Principal: 1, Years: 10, Method: "balloon"}))
	assert.Error(t, Validate(InvestmentInput{VacancyRatePct: 120}))
	assert.NoError(t, Validate(DepreciationInput{Structure: StructureRC}))
	assert.Error(t, Validate(DepreciationInput{Structure: "igloo"}))
	assert.Error(t, Validate(DepreciationInput{}))

	assert.NoError(t, Validate(TaxableIncomeInput{TaxableIncome: MaxYen}))
	assert.Error(t, Validate(TaxableIncomeInput{TaxableIncome: 100_000_000_000_000_000}))
	assert.Error(t, Validate(CapitalGainsInput{SellingCosts: MaxYen + 1}))
}

func TestHugeIncomeDoesNotOverflow(t *testing.T) {
	_, err := Run(KindIncomeTax, []byte(`{"taxable_income": 100000000000000000}`))
	assert.Error(t, err)

	r := IncomeTax(100_000_000_000_000_000)
	assert.Equal(t, IncomeTax(MaxYen), r)
	assert.Positive(t, r.Total)
	assert.Positive(t, CorporateTax(100_000_000_000_000_000).Total)
}
