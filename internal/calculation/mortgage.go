package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// MortgagePayment returns the fixed monthly payment that fully amortizes
// principal over termMonths at the given annual rate:
//
//	M = P * r(1+r)^n / ((1+r)^n - 1), with r the monthly rate.
//
// A zero rate divides the principal evenly; a non-positive principal needs no
// mortgage and yields a zero payment.
func MortgagePayment(principal money.Money, annualRate decimal.Decimal, termMonths int) money.Money {
	if !principal.IsPositive() || termMonths <= 0 {
		return money.Zero()
	}
	n := decimal.NewFromInt(int64(termMonths))
	if annualRate.IsZero() {
		return principal.Div(n)
	}
	r := annualRate.Div(decimal.NewFromInt(12))
	pow := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r.Mul(pow)).Div(pow.Sub(decimal.NewFromInt(1)))
}

// amortizeMonth advances one month of a mortgage. It returns the payment
// actually due, the interest portion and the remaining balance, all settled
// to cents. The principal payment is clamped so the balance never goes below
// zero, and the final scheduled month retires the balance in full: rounding
// must never leave a residual past the term.
func amortizeMonth(balance, payment money.Money, annualRate decimal.Decimal, final bool) (due, interest, remaining money.Money) {
	if !balance.IsPositive() {
		return money.Zero(), money.Zero(), balance
	}
	interest = balance.Mul(annualRate.Div(decimal.NewFromInt(12))).Round()
	principal := payment.Sub(interest)
	due = payment
	if final || principal.GreaterThan(balance) {
		principal = balance
		due = interest.Add(principal)
	}
	return due, interest, balance.Sub(principal).Round()
}
