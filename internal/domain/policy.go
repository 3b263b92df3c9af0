package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// PolicyAssumptions are the rates and terms the front end never supplies:
// mortgage pricing, carrying costs and growth assumptions. They are policy
// constants, configurable per deployment, not per-request inputs.
// All rates are annual fractions (0.04 = 4%).
type PolicyAssumptions struct {
	MortgageRate             decimal.Decimal `yaml:"mortgage_rate"`
	MortgageTermMonths       int             `yaml:"mortgage_term_months"`
	PropertyTaxRate          decimal.Decimal `yaml:"property_tax_rate"`
	HomeownerInsuranceAnnual money.Money     `yaml:"homeowner_insurance_annual"`
	MaintenanceRate          decimal.Decimal `yaml:"maintenance_rate"`
	RentersInsuranceAnnual   money.Money     `yaml:"renters_insurance_annual"`
	RentEscalationRate       decimal.Decimal `yaml:"rent_escalation_rate"`
	HomeAppreciationRate     decimal.Decimal `yaml:"home_appreciation_rate"`
	SalaryGrowthRate         decimal.Decimal `yaml:"salary_growth_rate"`
	MarginalTaxRate          decimal.Decimal `yaml:"marginal_tax_rate"`
}

// DefaultPolicyAssumptions returns the stock policy: a 30-year mortgage at 4%
// with typical carrying-cost and growth assumptions.
func DefaultPolicyAssumptions() PolicyAssumptions {
	return PolicyAssumptions{
		MortgageRate:             decimal.NewFromFloat(0.04),
		MortgageTermMonths:       360,
		PropertyTaxRate:          decimal.NewFromFloat(0.012),
		HomeownerInsuranceAnnual: money.NewFromInt(1200),
		MaintenanceRate:          decimal.NewFromFloat(0.01),
		RentersInsuranceAnnual:   money.NewFromInt(240),
		RentEscalationRate:       decimal.NewFromFloat(0.03),
		HomeAppreciationRate:     decimal.NewFromFloat(0.03),
		SalaryGrowthRate:         decimal.NewFromFloat(0.02),
		MarginalTaxRate:          decimal.NewFromFloat(0.25),
	}
}

func rateInRange(value decimal.Decimal, max float64) bool {
	return !value.IsNegative() && value.LessThanOrEqual(decimal.NewFromFloat(max))
}

// Validate checks every policy rate against its allowed range.
func (p *PolicyAssumptions) Validate() error {
	if !rateInRange(p.MortgageRate, 0.10) {
		return NewValidationError("mortgage_rate", "must be between 0 and 0.10")
	}
	if p.MortgageTermMonths < 12 || p.MortgageTermMonths > 840 {
		return NewValidationError("mortgage_term_months", fmt.Sprintf("must be between 12 and 840, got %d", p.MortgageTermMonths))
	}
	if !rateInRange(p.PropertyTaxRate, 0.15) {
		return NewValidationError("property_tax_rate", "must be between 0 and 0.15")
	}
	if p.HomeownerInsuranceAnnual.IsNegative() {
		return NewValidationError("homeowner_insurance_annual", "cannot be negative")
	}
	if !rateInRange(p.MaintenanceRate, 0.20) {
		return NewValidationError("maintenance_rate", "must be between 0 and 0.20")
	}
	if p.RentersInsuranceAnnual.IsNegative() {
		return NewValidationError("renters_insurance_annual", "cannot be negative")
	}
	if !rateInRange(p.RentEscalationRate, 0.10) {
		return NewValidationError("rent_escalation_rate", "must be between 0 and 0.10")
	}
	if !rateInRange(p.HomeAppreciationRate, 0.10) {
		return NewValidationError("home_appreciation_rate", "must be between 0 and 0.10")
	}
	if !rateInRange(p.SalaryGrowthRate, 0.10) {
		return NewValidationError("salary_growth_rate", "must be between 0 and 0.10")
	}
	if !rateInRange(p.MarginalTaxRate, 1.0) {
		return NewValidationError("marginal_tax_rate", "must be between 0 and 1")
	}
	return nil
}
