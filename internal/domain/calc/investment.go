package calc

type InvestmentInput struct {
	Price             int64   `json:"price" binding:"max=10000000000000"`
	AcquisitionCosts  int64   `json:"acquisition_costs" binding:"max=10000000000000"`
	AnnualRent        int64   `json:"annual_rent" binding:"max=10000000000000"`
	VacancyRatePct    float64 `json:"vacancy_rate_pct" binding:"min=0,max=100"`
	OperatingExpenses int64   `json:"operating_expenses" binding:"max=10000000000000"`
	LoanAmount        int64   `json:"loan_amount" binding:"max=10000000000000"`
	LoanRatePct       float64 `json:"loan_rate_pct"`
	LoanYears         int     `json:"loan_years" binding:"min=0,max=50"`
}

type InvestmentResult struct {
	GrossYield        float64 `json:"gross_yield"`
	VacancyLoss       int64   `json:"vacancy_loss"`
	EffectiveIncome   int64   `json:"effective_income"`
	NOI               int64   `json:"noi"`
	CapRate           float64 `json:"cap_rate"`
	AnnualDebtService int64   `json:"annual_debt_service"`
	DSCR              float64 `json:"dscr"`
	CashFlow          int64   `json:"cash_flow"`
	Equity            int64   `json:"equity"`
	CashOnCash        float64 `json:"cash_on_cash"`
}

// Investment evaluates a rental property for its first year. Ratios are
// fractions (0.05 = 5%) and are zero when their denominator is zero.
func Investment(in InvestmentInput) InvestmentResult {
	price := clamp(in.Price)
	rent := clamp(in.AnnualRent)
	vacancy := min(clampf(in.VacancyRatePct), 100)

	r := InvestmentResult{
		GrossYield:  ratio(float64(rent), float64(price)),
		VacancyLoss: int64(float64(rent) * vacancy / 100),
	}
	r.EffectiveIncome = rent - r.VacancyLoss
	r.NOI = r.EffectiveIncome - clamp(in.OperatingExpenses)
	r.CapRate = ratio(float64(r.NOI), float64(price))

	loanAmount := clamp(in.LoanAmount)
	if loanAmount > 0 {
		r.AnnualDebtService = Loan(LoanInput{
			Principal:     loanAmount,
			AnnualRatePct: in.LoanRatePct,
			Years:         in.LoanYears,
			Method:        EqualPayment,
		}).AnnualDebtService
	}
	r.DSCR = ratio(float64(r.NOI), float64(r.AnnualDebtService))
	r.CashFlow = r.NOI - r.AnnualDebtService

	r.Equity = clamp(price + clamp(in.AcquisitionCosts) - loanAmount)
	r.CashOnCash = ratio(float64(r.CashFlow), float64(r.Equity))
	return r
}
