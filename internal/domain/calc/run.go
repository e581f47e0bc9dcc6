package calc

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KindCorporateTax = "corporate_tax"
	KindIncomeTax    = "income_tax"
	KindCapitalGains = "capital_gains"
	KindDepreciation = "depreciation"
	KindLoan         = "loan"
	KindInvestment   = "investment"
)

var ErrUnknownKind = errors.New("unknown calculator")

// TaxableIncomeInput is the request body of the two income-based taxes.
type TaxableIncomeInput struct {
	TaxableIncome int64 `json:"taxable_income" binding:"max=10000000000000"`
}

// Run decodes input for the named calculator and returns its result. Saved
// simulations go through here so the stored result is always computed
// server-side.
func Run(kind string, input json.RawMessage) (interface{}, error) {
	switch kind {
	case KindCorporateTax:
		in, err := decode[TaxableIncomeInput](input)
		if err != nil {
			return nil, err
		}
		return CorporateTax(in.TaxableIncome), nil
	case KindIncomeTax:
		in, err := decode[TaxableIncomeInput](input)
		if err != nil {
			return nil, err
		}
		return IncomeTax(in.TaxableIncome), nil
	case KindCapitalGains:
		in, err := decode[CapitalGainsInput](input)
		if err != nil {
			return nil, err
		}
		return CapitalGainsTax(in), nil
	case KindDepreciation:
		in, err := decode[DepreciationInput](input)
		if err != nil {
			return nil, err
		}
		return Depreciation(in), nil
	case KindLoan:
		in, err := decode[LoanInput](input)
		if err != nil {
			return nil, err
		}
		return Loan(in), nil
	case KindInvestment:
		in, err := decode[InvestmentInput](input)
		if err != nil {
			return nil, err
		}
		return Investment(in), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, errors.New("empty input")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	if err := Validate(v); err != nil {
		return v, fmt.Errorf("validate %T: %w", v, err)
	}
	return v, nil
}
