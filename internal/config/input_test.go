package config

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "scenario_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadScenarioFileSuccess(t *testing.T) {
	content := "policy:\n" +
		"  mortgage_rate: 0.05\n" +
		"  mortgage_term_months: 180\n\n" +
		"scenarios:\n" +
		"  family:\n" +
		"    current_age: 30\n" +
		"    age_at_death: 90\n" +
		"    monthly_salary: 5000\n" +
		"    monthly_rent: 1500\n" +
		"    monthly_expenses: 1500\n" +
		"    home_cost: 400000\n" +
		"    down_payment: 80000\n" +
		"    investment_return: 6\n"

	doc, err := NewInputParser().LoadScenarioFile(writeTempFile(t, content))
	require.NoError(t, err)

	// Overridden fields take effect; everything else keeps the default.
	assert.True(t, doc.Policy.MortgageRate.Equal(decimal.NewFromFloat(0.05)))
	assert.Equal(t, 180, doc.Policy.MortgageTermMonths)
	assert.True(t, doc.Policy.PropertyTaxRate.Equal(domain.DefaultPolicyAssumptions().PropertyTaxRate))

	scenario, err := doc.Scenario("family")
	require.NoError(t, err)
	assert.Equal(t, 30, scenario.CurrentAge)
	assert.True(t, scenario.HomeCost.Equal(money.NewFromInt(400000)))

	_, err = doc.Scenario("missing")
	require.Error(t, err)
}

func TestLoadScenarioFileInvalidPolicy(t *testing.T) {
	content := "policy:\n  mortgage_rate: 0.5\n"
	_, err := NewInputParser().LoadScenarioFile(writeTempFile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy validation failed")
}

func TestLoadScenarioFileInvalidScenario(t *testing.T) {
	content := "scenarios:\n" +
		"  broken:\n" +
		"    current_age: 90\n" +
		"    age_at_death: 30\n" +
		"    monthly_salary: 5000\n" +
		"    monthly_rent: 1500\n" +
		"    monthly_expenses: 1500\n" +
		"    home_cost: 400000\n" +
		"    down_payment: 80000\n" +
		"    investment_return: 6\n"
	_, err := NewInputParser().LoadScenarioFile(writeTempFile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "broken" validation failed`)
}

func TestLoadScenarioFileMalformedYAML(t *testing.T) {
	_, err := NewInputParser().LoadScenarioFile(writeTempFile(t, "policy: [not\n  a map\n"))
	require.Error(t, err)
}

func TestLoadScenarioFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadScenarioFile("/nonexistent/scenario.yaml")
	require.Error(t, err)
}

func TestLoadPolicyDefaults(t *testing.T) {
	policy, err := NewInputParser().LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPolicyAssumptions(), *policy)
}
