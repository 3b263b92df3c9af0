package calculation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
)

func TestNewMonteCarloSimulatorDefaults(t *testing.T) {
	sim := NewMonteCarloSimulator(NewEngine(), MonteCarloConfig{})
	assert.Equal(t, 1000, sim.NumSimulations)
	assert.NotZero(t, sim.Seed)

	sim = NewMonteCarloSimulator(NewEngine(), MonteCarloConfig{NumSimulations: 50, Seed: 7})
	assert.Equal(t, 50, sim.NumSimulations)
	assert.Equal(t, int64(7), sim.Seed)
}

func TestMonteCarloFixedDistributionsMatchDeterministic(t *testing.T) {
	engine := NewEngine()
	policy := domain.DefaultPolicyAssumptions()
	in := typicalInput()

	deterministic, err := engine.Compute(context.Background(), &in, &policy)
	require.NoError(t, err)

	sim := NewMonteCarloSimulator(engine, MonteCarloConfig{NumSimulations: 20, Seed: 1})
	res, err := sim.Run(context.Background(), &in, &policy)
	require.NoError(t, err)

	// No distribution configured: every simulation is the deterministic run.
	assert.True(t, res.MedianDifference.Equal(deterministic.Difference))
	assert.True(t, res.MeanDifference.Round().Equal(deterministic.Difference.Round()))
	assert.True(t, res.Difference.P10.Equal(res.Difference.P90))
}

func TestMonteCarloFixedDistributionPinsRate(t *testing.T) {
	// A "fixed" distribution is not a no-op: it overrides the base rate with
	// its mean, identically in every simulation.
	engine := NewEngine()
	policy := domain.DefaultPolicyAssumptions()
	in := typicalInput()

	pinned := in
	pinned.InvestmentReturn = decimal.NewFromInt(2)
	want, err := engine.Compute(context.Background(), &pinned, &policy)
	require.NoError(t, err)

	cfg := MonteCarloConfig{
		NumSimulations:   10,
		Seed:             3,
		InvestmentReturn: Distribution{Kind: DistFixed, Mean: 2},
	}
	res, err := NewMonteCarloSimulator(engine, cfg).Run(context.Background(), &in, &policy)
	require.NoError(t, err)

	assert.True(t, res.MedianDifference.Equal(want.Difference),
		"pinned median %s want %s", res.MedianDifference, want.Difference)
	assert.True(t, res.Difference.P10.Equal(res.Difference.P90))
}

func TestMonteCarloReproducibleWithSeed(t *testing.T) {
	engine := NewEngine()
	policy := domain.DefaultPolicyAssumptions()
	in := typicalInput()

	cfg := MonteCarloConfig{
		NumSimulations:   40,
		Seed:             42,
		InvestmentReturn: Distribution{Kind: DistNormal, Mean: 6, StdDev: 2},
		HomeAppreciation: Distribution{Kind: DistTriangular, Min: 0.01, Max: 0.06, Mode: 0.03},
	}

	first, err := NewMonteCarloSimulator(engine, cfg).Run(context.Background(), &in, &policy)
	require.NoError(t, err)
	second, err := NewMonteCarloSimulator(engine, cfg).Run(context.Background(), &in, &policy)
	require.NoError(t, err)

	assert.True(t, first.MeanDifference.Equal(second.MeanDifference))
	assert.True(t, first.MedianDifference.Equal(second.MedianDifference))
	assert.True(t, first.BuySuccessRate.Equal(second.BuySuccessRate))
	assert.True(t, first.HomeownerNetWorth.P50.Equal(second.HomeownerNetWorth.P50))
}

func TestMonteCarloSuccessRateBounds(t *testing.T) {
	engine := NewEngine()
	policy := domain.DefaultPolicyAssumptions()
	in := typicalInput()

	cfg := MonteCarloConfig{
		NumSimulations:   30,
		Seed:             9,
		InvestmentReturn: Distribution{Kind: DistNormal, Mean: 6, StdDev: 3},
	}
	res, err := NewMonteCarloSimulator(engine, cfg).Run(context.Background(), &in, &policy)
	require.NoError(t, err)

	assert.True(t, res.BuySuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, res.BuySuccessRate.LessThanOrEqual(decimal.NewFromInt(1)))
	assert.Equal(t, 30, res.NumSimulations)

	// Percentiles come from a sorted slice.
	assert.True(t, res.Difference.P10.LessThanOrEqual(res.Difference.P50))
	assert.True(t, res.Difference.P50.LessThanOrEqual(res.Difference.P90))
}

func TestMonteCarloRejectsInvalidInput(t *testing.T) {
	engine := NewEngine()
	policy := domain.DefaultPolicyAssumptions()
	in := typicalInput()
	in.AgeAtDeath = in.CurrentAge

	_, err := NewMonteCarloSimulator(engine, MonteCarloConfig{NumSimulations: 5, Seed: 1}).
		Run(context.Background(), &in, &policy)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestDistributionSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	fixed := Distribution{Kind: DistFixed, Mean: 5}
	assert.Equal(t, 5.0, fixed.Sample(rng))

	unknown := Distribution{Mean: 3}
	assert.Equal(t, 3.0, unknown.Sample(rng))

	tri := Distribution{Kind: DistTriangular, Min: 1, Max: 3, Mode: 2}
	for i := 0; i < 100; i++ {
		v := tri.Sample(rng)
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 3.0)
	}

	// Degenerate triangular falls back to the mean.
	bad := Distribution{Kind: DistTriangular, Min: 3, Max: 3, Mode: 3, Mean: 7}
	assert.Equal(t, 7.0, bad.Sample(rng))

	norm := Distribution{Kind: DistNormal, Mean: 10, StdDev: 0}
	assert.Equal(t, 10.0, norm.Sample(rng))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-5, 0, 100))
	assert.Equal(t, 100.0, clamp(250, 0, 100))
	assert.Equal(t, 42.0, clamp(42, 0, 100))
}
