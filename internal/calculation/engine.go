package calculation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// Engine runs the month-by-month rent-vs-buy projection. It holds no mutable
// state between calls and is safe for concurrent use.
type Engine struct {
	Logger Logger
}

// NewEngine creates a projection engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op
// logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Compute simulates both scenarios from current age to age at death and
// returns the ending balances and net-worth comparison. It validates the
// input and policy first and returns a *domain.ValidationError on any
// violated constraint; no partial results are produced.
//
// Negative monthly surpluses are not floored at zero: they accrue to a
// separate debt balance that compounds at the same monthly rate as the
// investments and is subtracted from the scenario's net worth.
//
// Every balance is settled to cents at the end of each month, and the final
// scheduled mortgage payment retires the remaining balance in full.
func (e *Engine) Compute(ctx context.Context, in *domain.ComparisonInput, policy *domain.PolicyAssumptions) (*domain.ComparisonResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	months := in.Months()
	if months <= 0 {
		return nil, domain.NewValidationError("age_at_death", "projection horizon is empty")
	}

	twelve := decimal.NewFromInt(12)

	investRate := monthlyRate(percentToFraction(in.InvestmentReturn))
	appreciationRate := monthlyRate(policy.HomeAppreciationRate)
	rentEscalation := monthlyRate(policy.RentEscalationRate)
	salaryGrowth := monthlyRate(policy.SalaryGrowthRate)

	homeValue := in.HomeCost
	mortgageBalance := in.HomeCost.Sub(in.DownPayment)
	payment := MortgagePayment(mortgageBalance, policy.MortgageRate, policy.MortgageTermMonths).Round()

	homeInsurance := policy.HomeownerInsuranceAnnual.Monthly()
	rentersInsurance := policy.RentersInsuranceAnnual.Monthly()

	salary := in.MonthlySalary
	rent := in.MonthlyRent

	// The buyer spends the down payment at month 0; the renter keeps it
	// invested instead.
	homeownerInvestment := money.Zero()
	renterInvestment := in.DownPayment
	homeownerDebt := money.Zero()
	renterDebt := money.Zero()
	lifetimeIncome := money.Zero()

	for month := 1; month <= months; month++ {
		lifetimeIncome = lifetimeIncome.Add(salary)
		available := salary.Sub(in.MonthlyExpenses)

		var due, interest money.Money
		mortgageActive := month <= policy.MortgageTermMonths && mortgageBalance.IsPositive()
		if mortgageActive {
			due, interest, mortgageBalance = amortizeMonth(mortgageBalance, payment, policy.MortgageRate, month == policy.MortgageTermMonths)
		}

		propertyTax := homeValue.Mul(policy.PropertyTaxRate).Div(twelve).Round()
		maintenance := homeValue.Mul(policy.MaintenanceRate).Div(twelve).Round()

		taxBenefit := money.Zero()
		if mortgageActive {
			taxBenefit = interest.Add(propertyTax).Mul(policy.MarginalTaxRate).Round()
		}

		homeownerCost := due.Add(propertyTax).Add(homeInsurance).Add(maintenance).Sub(taxBenefit)
		renterCost := rent.Add(rentersInsurance)

		homeownerSurplus := available.Sub(homeownerCost)
		renterSurplus := available.Sub(renterCost)

		if homeownerSurplus.IsNegative() {
			homeownerDebt = homeownerDebt.Grow(investRate).Sub(homeownerSurplus).Round()
		} else {
			homeownerInvestment = homeownerInvestment.Grow(investRate).Add(homeownerSurplus).Round()
		}
		if renterSurplus.IsNegative() {
			renterDebt = renterDebt.Grow(investRate).Sub(renterSurplus).Round()
		} else {
			renterInvestment = renterInvestment.Grow(investRate).Add(renterSurplus).Round()
		}

		homeValue = homeValue.Grow(appreciationRate).Round()
		salary = salary.Grow(salaryGrowth).Round()
		rent = rent.Grow(rentEscalation).Round()
	}

	homeownerNetWorth := homeValue.Add(homeownerInvestment).Sub(mortgageBalance).Sub(homeownerDebt)
	renterNetWorth := renterInvestment.Sub(renterDebt)

	result := &domain.ComparisonResult{
		RenterInvestmentBalance:    renterInvestment,
		HomeownerInvestmentBalance: homeownerInvestment,
		FinalHouseValue:            homeValue,
		HomeownerNetWorth:          homeownerNetWorth,
		RenterNetWorth:             renterNetWorth,
		Difference:                 homeownerNetWorth.Sub(renterNetWorth),
		LifetimeIncome:             lifetimeIncome,
		MortgageBalance:            mortgageBalance,
		HomeownerDebt:              homeownerDebt,
		RenterDebt:                 renterDebt,
		MonthsSimulated:            months,
	}

	e.Logger.Debugf("projection finished: months=%d homeowner=%s renter=%s difference=%s",
		months, result.HomeownerNetWorth, result.RenterNetWorth, result.Difference)

	return result, nil
}
