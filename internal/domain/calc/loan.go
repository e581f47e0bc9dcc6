package calc

import "math"

type RepaymentMethod string

const (
	EqualPayment   RepaymentMethod = "equal_payment"   // 元利均等
	EqualPrincipal RepaymentMethod = "equal_principal" // 元金均等
)

type LoanInput struct {
	Principal     int64           `json:"principal" binding:"max=10000000000000"`
	AnnualRatePct float64         `json:"annual_rate_pct" binding:"min=0,max=30"`
	Years         int             `json:"years" binding:"required,min=1,max=50"`
	Method        RepaymentMethod `json:"method" binding:"omitempty,oneof=equal_payment equal_principal"`
}

type LoanYear struct {
	Year      int   `json:"year"`
	Principal int64 `json:"principal"`
	Interest  int64 `json:"interest"`
	Balance   int64 `json:"balance"`
}

type LoanResult struct {
	Method            RepaymentMethod `json:"method"`
	MonthlyPayment    int64           `json:"monthly_payment"` // first month
	AnnualDebtService int64           `json:"annual_debt_service"`
	TotalPayment      int64           `json:"total_payment"`
	TotalInterest     int64           `json:"total_interest"`
	Schedule          []LoanYear      `json:"schedule"`
}

// Loan builds a monthly amortisation schedule, aggregated per year.
// AnnualDebtService is the first year's total repayment.
func Loan(in LoanInput) LoanResult {
	method := in.Method
	if method != EqualPrincipal {
		method = EqualPayment
	}
	r := LoanResult{Method: method}

	principal := float64(clamp(in.Principal))
	months := in.Years * 12
	if principal == 0 || months <= 0 {
		return r
	}
	rate := clampf(in.AnnualRatePct) / 100 / 12

	payment := monthlyPayment(principal, rate, months)
	principalPart := principal / float64(months)

	var (
		balance       = principal
		totalPaid     float64
		totalInterest float64
		yearPrincipal float64
		yearInterest  float64
	)
	for m := 1; m <= months; m++ {
		interest := balance * rate
		var repaid float64
		if method == EqualPayment {
			repaid = payment - interest
		} else {
			repaid = principalPart
		}
		if m == months {
			repaid = balance
		}
		balance -= repaid
		totalPaid += repaid + interest
		totalInterest += interest
		yearPrincipal += repaid
		yearInterest += interest

		if m == 1 {
			r.MonthlyPayment = int64(math.Round(repaid + interest))
		}
		if m%12 == 0 {
			r.Schedule = append(r.Schedule, LoanYear{
				Year:      m / 12,
				Principal: int64(math.Round(yearPrincipal)),
				Interest:  int64(math.Round(yearInterest)),
				Balance:   int64(math.Round(math.Max(balance, 0))),
			})
			yearPrincipal, yearInterest = 0, 0
		}
	}

	r.AnnualDebtService = r.Schedule[0].Principal + r.Schedule[0].Interest
	r.TotalPayment = int64(math.Round(totalPaid))
	r.TotalInterest = int64(math.Round(totalInterest))
	return r
}

// monthlyPayment is the level payment of an equal-payment loan.
func monthlyPayment(principal, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	f := math.Pow(1+monthlyRate, float64(months))
	return principal * monthlyRate * f / (f - 1)
}
