package calculation

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// seedFunc provides the default seed when none is configured.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// DistributionKind selects how an uncertain rate is sampled.
type DistributionKind string

const (
	DistFixed      DistributionKind = "fixed"
	DistNormal     DistributionKind = "normal"
	DistLognormal  DistributionKind = "lognormal"
	DistTriangular DistributionKind = "triangular"
)

// Distribution describes a sampling distribution for a single rate.
// Mean/StdDev drive normal and lognormal sampling (lognormal interprets them
// as log-space parameters); Min/Max/Mode drive triangular sampling.
type Distribution struct {
	Kind   DistributionKind `json:"kind" yaml:"kind"`
	Mean   float64          `json:"mean" yaml:"mean"`
	StdDev float64          `json:"stddev" yaml:"stddev"`
	Min    float64          `json:"min" yaml:"min"`
	Max    float64          `json:"max" yaml:"max"`
	Mode   float64          `json:"mode" yaml:"mode"`
}

// Sample draws one value from the distribution using the given source.
func (d Distribution) Sample(rng *rand.Rand) float64 {
	switch d.Kind {
	case DistNormal:
		return rng.NormFloat64()*d.StdDev + d.Mean
	case DistLognormal:
		return math.Exp(rng.NormFloat64()*d.StdDev + d.Mean)
	case DistTriangular:
		if d.Max <= d.Min {
			return d.Mean
		}
		u := rng.Float64()
		fc := (d.Mode - d.Min) / (d.Max - d.Min)
		if u < fc {
			return d.Min + math.Sqrt(u*(d.Max-d.Min)*(d.Mode-d.Min))
		}
		return d.Max - math.Sqrt((1-u)*(d.Max-d.Min)*(d.Max-d.Mode))
	default:
		return d.Mean
	}
}

// MonteCarloConfig holds the simulation count, seed and per-rate
// distributions. An omitted distribution (empty Kind) keeps the rate at its
// deterministic base value; a "fixed" distribution pins it to Mean.
type MonteCarloConfig struct {
	NumSimulations   int          `json:"num_simulations" yaml:"num_simulations"`
	Seed             int64        `json:"seed" yaml:"seed"`
	InvestmentReturn Distribution `json:"investment_return" yaml:"investment_return"` // annual percent
	HomeAppreciation Distribution `json:"home_appreciation" yaml:"home_appreciation"` // annual fraction
	RentEscalation   Distribution `json:"rent_escalation" yaml:"rent_escalation"`     // annual fraction
	MortgageRate     Distribution `json:"mortgage_rate" yaml:"mortgage_rate"`         // annual fraction
}

// PercentileRange summarizes the spread of a sampled quantity.
type PercentileRange struct {
	P10 money.Money `json:"p10"`
	P25 money.Money `json:"p25"`
	P50 money.Money `json:"p50"`
	P75 money.Money `json:"p75"`
	P90 money.Money `json:"p90"`
}

// MonteCarloResult aggregates the simulated outcomes.
type MonteCarloResult struct {
	NumSimulations    int             `json:"num_simulations"`
	Seed              int64           `json:"seed"`
	BuySuccessRate    decimal.Decimal `json:"buy_success_rate"` // share of simulations where buying wins
	MeanDifference    money.Money     `json:"mean_difference"`
	MedianDifference  money.Money     `json:"median_difference"`
	Difference        PercentileRange `json:"difference"`
	HomeownerNetWorth PercentileRange `json:"homeowner_net_worth"`
	RenterNetWorth    PercentileRange `json:"renter_net_worth"`
}

// simulationOutcome holds the figures kept from a single simulation.
type simulationOutcome struct {
	HomeownerNetWorth money.Money
	RenterNetWorth    money.Money
	Difference        money.Money
}

// MonteCarloSimulator samples uncertain rates and reruns the deterministic
// projection once per draw. Each simulation derives its own rand source from
// the configured seed, so results are reproducible for a given seed
// regardless of scheduling.
type MonteCarloSimulator struct {
	Engine         *Engine
	NumSimulations int
	Seed           int64
	Config         MonteCarloConfig
}

// NewMonteCarloSimulator creates a simulator for the given engine and config,
// applying defaults for the simulation count and seed.
func NewMonteCarloSimulator(engine *Engine, config MonteCarloConfig) *MonteCarloSimulator {
	if config.NumSimulations <= 0 {
		config.NumSimulations = 1000
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	return &MonteCarloSimulator{
		Engine:         engine,
		NumSimulations: config.NumSimulations,
		Seed:           config.Seed,
		Config:         config,
	}
}

// Run executes the Monte Carlo simulation for the given base input and
// policy. The base values are validated once up front; sampled rates are
// clamped into the ranges the deterministic engine accepts.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, in *domain.ComparisonInput, policy *domain.PolicyAssumptions) (*MonteCarloResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	outcomes := make([]simulationOutcome, mcs.NumSimulations)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	semaphore := make(chan struct{}, 10) // bound concurrent simulations

	for i := 0; i < mcs.NumSimulations; i++ {
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome, err := mcs.runSingleSimulation(ctx, in, policy, simIndex)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			outcomes[simIndex] = outcome
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	differences := make([]money.Money, len(outcomes))
	homeowner := make([]money.Money, len(outcomes))
	renter := make([]money.Money, len(outcomes))
	wins := 0
	sum := money.Zero()
	for i, o := range outcomes {
		differences[i] = o.Difference
		homeowner[i] = o.HomeownerNetWorth
		renter[i] = o.RenterNetWorth
		sum = sum.Add(o.Difference)
		if o.Difference.IsPositive() {
			wins++
		}
	}

	n := decimal.NewFromInt(int64(len(outcomes)))
	result := &MonteCarloResult{
		NumSimulations:    mcs.NumSimulations,
		Seed:              mcs.Seed,
		BuySuccessRate:    decimal.NewFromInt(int64(wins)).Div(n),
		MeanDifference:    sum.Div(n),
		Difference:        percentileRange(differences),
		HomeownerNetWorth: percentileRange(homeowner),
		RenterNetWorth:    percentileRange(renter),
	}
	result.MedianDifference = result.Difference.P50
	return result, nil
}

// runSingleSimulation samples one set of rates and runs the projection.
func (mcs *MonteCarloSimulator) runSingleSimulation(ctx context.Context, in *domain.ComparisonInput, policy *domain.PolicyAssumptions, simIndex int) (simulationOutcome, error) {
	rng := rand.New(rand.NewSource(mcs.Seed + int64(simIndex)))

	simInput := *in
	simPolicy := *policy

	if mcs.Config.InvestmentReturn.Kind != "" {
		percent := clamp(mcs.Config.InvestmentReturn.Sample(rng), 0, 100)
		simInput.InvestmentReturn = decimal.NewFromFloat(percent)
	}
	if mcs.Config.HomeAppreciation.Kind != "" {
		simPolicy.HomeAppreciationRate = decimal.NewFromFloat(clamp(mcs.Config.HomeAppreciation.Sample(rng), 0, 0.10))
	}
	if mcs.Config.RentEscalation.Kind != "" {
		simPolicy.RentEscalationRate = decimal.NewFromFloat(clamp(mcs.Config.RentEscalation.Sample(rng), 0, 0.10))
	}
	if mcs.Config.MortgageRate.Kind != "" {
		simPolicy.MortgageRate = decimal.NewFromFloat(clamp(mcs.Config.MortgageRate.Sample(rng), 0, 0.10))
	}

	res, err := mcs.Engine.Compute(ctx, &simInput, &simPolicy)
	if err != nil {
		return simulationOutcome{}, err
	}
	return simulationOutcome{
		HomeownerNetWorth: res.HomeownerNetWorth,
		RenterNetWorth:    res.RenterNetWorth,
		Difference:        res.Difference,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percentileRange sorts a copy of the values and picks the standard
// percentile points.
func percentileRange(values []money.Money) PercentileRange {
	sorted := make([]money.Money, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return PercentileRange{
		P10: percentile(sorted, 0.10),
		P25: percentile(sorted, 0.25),
		P50: percentile(sorted, 0.50),
		P75: percentile(sorted, 0.75),
		P90: percentile(sorted, 0.90),
	}
}

// percentile picks the nearest-rank value from an already sorted slice.
func percentile(sorted []money.Money, p float64) money.Money {
	if len(sorted) == 0 {
		return money.Zero()
	}
	idx := int(math.Round(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
