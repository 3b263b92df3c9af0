package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// FormatCurrency formats a money amount for report output.
func FormatCurrency(amount money.Money) string { return amount.Format() }

// FormatPercent formats a fraction (0.62) as a percentage (62.00%).
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Formatter renders a comparison result for the CLI.
type Formatter interface {
	Name() string
	Format(result *domain.ComparisonResult) ([]byte, error)
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// JSONFormatter serializes the comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// ConsoleFormatter renders a plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "RENT VS. BUY COMPARISON (%d months)\n", result.MonthsSimulated)
	fmt.Fprintf(&b, "=====================================\n\n")

	fmt.Fprintf(&b, "Homeowner\n")
	fmt.Fprintf(&b, "  Investment balance:  %s\n", FormatCurrency(result.HomeownerInvestmentBalance.Round()))
	fmt.Fprintf(&b, "  Final house value:   %s\n", FormatCurrency(result.FinalHouseValue.Round()))
	fmt.Fprintf(&b, "  Mortgage balance:    %s\n", FormatCurrency(result.MortgageBalance.Round()))
	if result.HomeownerDebt.IsPositive() {
		fmt.Fprintf(&b, "  Accumulated debt:    %s\n", FormatCurrency(result.HomeownerDebt.Round()))
	}
	fmt.Fprintf(&b, "  Net worth:           %s\n\n", FormatCurrency(result.HomeownerNetWorth.Round()))

	fmt.Fprintf(&b, "Renter\n")
	fmt.Fprintf(&b, "  Investment balance:  %s\n", FormatCurrency(result.RenterInvestmentBalance.Round()))
	if result.RenterDebt.IsPositive() {
		fmt.Fprintf(&b, "  Accumulated debt:    %s\n", FormatCurrency(result.RenterDebt.Round()))
	}
	fmt.Fprintf(&b, "  Net worth:           %s\n\n", FormatCurrency(result.RenterNetWorth.Round()))

	fmt.Fprintf(&b, "Lifetime income:       %s\n", FormatCurrency(result.LifetimeIncome.Round()))
	if result.BuyingWins() {
		fmt.Fprintf(&b, "Buying comes out ahead by %s\n", FormatCurrency(result.Difference.Round()))
	} else if result.Difference.IsNegative() {
		fmt.Fprintf(&b, "Renting comes out ahead by %s\n", FormatCurrency(result.Difference.Round().Mul(decimal.NewFromInt(-1))))
	} else {
		fmt.Fprintf(&b, "Both scenarios end exactly even\n")
	}

	return []byte(b.String()), nil
}

// FormatMonteCarlo renders a Monte Carlo summary as a plain-text report.
func FormatMonteCarlo(result *calculation.MonteCarloResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MONTE CARLO SUMMARY (%d simulations, seed %d)\n", result.NumSimulations, result.Seed)
	fmt.Fprintf(&b, "=============================================\n\n")
	fmt.Fprintf(&b, "Buying wins in %s of simulations\n\n", FormatPercent(result.BuySuccessRate))
	fmt.Fprintf(&b, "Net-worth difference (homeowner - renter)\n")
	fmt.Fprintf(&b, "  Mean:   %s\n", FormatCurrency(result.MeanDifference.Round()))
	fmt.Fprintf(&b, "  Median: %s\n", FormatCurrency(result.MedianDifference.Round()))
	fmt.Fprintf(&b, "  P10:    %s\n", FormatCurrency(result.Difference.P10.Round()))
	fmt.Fprintf(&b, "  P90:    %s\n", FormatCurrency(result.Difference.P90.Round()))

	return b.String()
}
