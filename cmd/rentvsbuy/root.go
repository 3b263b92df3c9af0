package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
	"github.com/rvbgo/rentvsbuy-calculator/internal/config"
	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/internal/logging"
	"github.com/rvbgo/rentvsbuy-calculator/internal/output"
	"github.com/rvbgo/rentvsbuy-calculator/internal/server"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentvsbuy",
		Short:         "Rent vs. buy net-worth projections",
		Long:          "Compares renting-and-investing against buying-with-mortgage over a lifetime horizon.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newComputeCmd())
	root.AddCommand(newMonteCarloCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compute HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig(configPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Config{
				Level:       cfg.LogLevel,
				File:        cfg.LogFile,
				Development: cfg.Development,
			})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			s, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			return s.Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "server config file (YAML)")
	return cmd
}

// scenarioFlags collects the per-run input parameters shared by the compute
// and montecarlo commands.
type scenarioFlags struct {
	policyFile string
	scenario   string

	currentAge       int
	ageAtDeath       int
	monthlySalary    float64
	monthlyRent      float64
	monthlyExpenses  float64
	homeCost         float64
	downPayment      float64
	investmentReturn float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.policyFile, "policy", "", "policy/scenario file (YAML)")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "named scenario from the policy file")

	cmd.Flags().IntVar(&f.currentAge, "current-age", 30, "current age")
	cmd.Flags().IntVar(&f.ageAtDeath, "age-at-death", 90, "age at death")
	cmd.Flags().Float64Var(&f.monthlySalary, "monthly-salary", 5000, "monthly salary")
	cmd.Flags().Float64Var(&f.monthlyRent, "monthly-rent", 1500, "monthly rent")
	cmd.Flags().Float64Var(&f.monthlyExpenses, "monthly-expenses", 1500, "monthly living expenses")
	cmd.Flags().Float64Var(&f.homeCost, "home-cost", 400000, "home purchase price")
	cmd.Flags().Float64Var(&f.downPayment, "down-payment", 80000, "down payment")
	cmd.Flags().Float64Var(&f.investmentReturn, "investment-return", 6, "annual investment return (percent)")
}

// resolve loads the policy and input, preferring a named scenario from the
// policy file over the individual flags.
func (f *scenarioFlags) resolve() (*domain.ComparisonInput, *domain.PolicyAssumptions, error) {
	parser := config.NewInputParser()

	if f.scenario != "" {
		if f.policyFile == "" {
			return nil, nil, fmt.Errorf("--scenario requires --policy")
		}
		doc, err := parser.LoadScenarioFile(f.policyFile)
		if err != nil {
			return nil, nil, err
		}
		in, err := doc.Scenario(f.scenario)
		if err != nil {
			return nil, nil, err
		}
		return in, &doc.Policy, nil
	}

	policy, err := parser.LoadPolicy(f.policyFile)
	if err != nil {
		return nil, nil, err
	}
	in := &domain.ComparisonInput{
		CurrentAge:       f.currentAge,
		AgeAtDeath:       f.ageAtDeath,
		MonthlySalary:    money.New(f.monthlySalary),
		MonthlyRent:      money.New(f.monthlyRent),
		MonthlyExpenses:  money.New(f.monthlyExpenses),
		HomeCost:         money.New(f.homeCost),
		DownPayment:      money.New(f.downPayment),
		InvestmentReturn: decimal.NewFromFloat(f.investmentReturn),
	}
	return in, policy, nil
}

func newComputeCmd() *cobra.Command {
	var flags scenarioFlags
	var format string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run a single rent-vs-buy comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, policy, err := flags.resolve()
			if err != nil {
				return err
			}

			result, err := calculation.NewEngine().Compute(context.Background(), in, policy)
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}
			rendered, err := formatter.Format(result)
			if err != nil {
				return err
			}
			cmd.Println(string(rendered))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json)")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var flags scenarioFlags
	var simulations int
	var seed int64
	var returnStdDev float64

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run the comparison across sampled market conditions",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, policy, err := flags.resolve()
			if err != nil {
				return err
			}

			cfg := calculation.MonteCarloConfig{
				NumSimulations: simulations,
				Seed:           seed,
			}
			if returnStdDev > 0 {
				mean, _ := in.InvestmentReturn.Float64()
				cfg.InvestmentReturn = calculation.Distribution{
					Kind:   calculation.DistNormal,
					Mean:   mean,
					StdDev: returnStdDev,
				}
			}

			result, err := calculation.NewMonteCarloSimulator(calculation.NewEngine(), cfg).
				Run(context.Background(), in, policy)
			if err != nil {
				return err
			}

			cmd.Println(output.FormatMonteCarlo(result))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&simulations, "simulations", "n", 1000, "number of simulations")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&returnStdDev, "return-stddev", 2, "stddev of the sampled investment return (percent)")
	return cmd
}
