package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// Age bounds accepted at the trust boundary.
const (
	MinCurrentAge = 20
	MaxAgeAtDeath = 120
)

// ComparisonInput holds the household parameters for a single rent-vs-buy
// comparison. Construct it from parsed, validated values; the zero value is
// not usable.
type ComparisonInput struct {
	CurrentAge       int             `json:"current_age" yaml:"current_age"`
	AgeAtDeath       int             `json:"age_at_death" yaml:"age_at_death"`
	MonthlySalary    money.Money     `json:"monthly_salary" yaml:"monthly_salary"`
	MonthlyRent      money.Money     `json:"monthly_rent" yaml:"monthly_rent"`
	MonthlyExpenses  money.Money     `json:"monthly_expenses" yaml:"monthly_expenses"`
	HomeCost         money.Money     `json:"home_cost" yaml:"home_cost"`
	DownPayment      money.Money     `json:"down_payment" yaml:"down_payment"`
	InvestmentReturn decimal.Decimal `json:"investment_return" yaml:"investment_return"` // annual percent, 0..100
}

// Validate checks every range and consistency constraint on the input.
// The first violation found is returned as a *ValidationError.
func (in *ComparisonInput) Validate() error {
	if in.CurrentAge < MinCurrentAge {
		return NewValidationError("current_age", fmt.Sprintf("must be at least %d", MinCurrentAge))
	}
	if in.AgeAtDeath > MaxAgeAtDeath {
		return NewValidationError("age_at_death", fmt.Sprintf("must be at most %d", MaxAgeAtDeath))
	}
	if in.AgeAtDeath <= in.CurrentAge {
		return NewValidationError("age_at_death", "must be greater than current_age")
	}
	if in.MonthlySalary.IsNegative() {
		return NewValidationError("monthly_salary", "cannot be negative")
	}
	if in.MonthlyRent.IsNegative() {
		return NewValidationError("monthly_rent", "cannot be negative")
	}
	if in.MonthlyExpenses.IsNegative() {
		return NewValidationError("monthly_expenses", "cannot be negative")
	}
	if in.HomeCost.IsNegative() {
		return NewValidationError("home_cost", "cannot be negative")
	}
	if in.DownPayment.IsNegative() {
		return NewValidationError("down_payment", "cannot be negative")
	}
	if in.DownPayment.GreaterThan(in.HomeCost) {
		return NewValidationError("down_payment", "cannot exceed home_cost")
	}
	if in.InvestmentReturn.IsNegative() || in.InvestmentReturn.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("investment_return", "must be between 0 and 100 percent")
	}
	return nil
}

// Months returns the length of the projection horizon in months.
func (in *ComparisonInput) Months() int {
	return (in.AgeAtDeath - in.CurrentAge) * 12
}

// ComparisonResult is the outcome of a projection. It is a pure function of
// the input and policy; recomputation with identical values yields identical
// results.
type ComparisonResult struct {
	RenterInvestmentBalance    money.Money `json:"renter_investment_balance"`
	HomeownerInvestmentBalance money.Money `json:"homeowner_investment_balance"`
	FinalHouseValue            money.Money `json:"final_house_value"`
	HomeownerNetWorth          money.Money `json:"homeowner_net_worth"`
	RenterNetWorth             money.Money `json:"renter_net_worth"`
	Difference                 money.Money `json:"difference"` // homeowner minus renter

	// Supplemental figures carried alongside the headline comparison.
	LifetimeIncome  money.Money `json:"lifetime_income"`
	MortgageBalance money.Money `json:"mortgage_balance"`
	HomeownerDebt   money.Money `json:"homeowner_debt"`
	RenterDebt      money.Money `json:"renter_debt"`
	MonthsSimulated int         `json:"months_simulated"`
}

// BuyingWins reports whether the homeowner scenario ends ahead.
func (r *ComparisonResult) BuyingWins() bool {
	return r.Difference.IsPositive()
}
