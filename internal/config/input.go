package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
)

// ScenarioFile is the on-disk shape of a policy/scenario document: policy
// overrides plus optional named inputs for one-shot CLI runs.
type ScenarioFile struct {
	Policy    domain.PolicyAssumptions          `yaml:"policy"`
	Scenarios map[string]domain.ComparisonInput `yaml:"scenarios"`
}

// InputParser handles parsing of policy and scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadScenarioFile loads a YAML policy/scenario file. Fields absent from the
// file keep their default values; an explicit zero in the file is honored.
func (ip *InputParser) LoadScenarioFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	doc := ScenarioFile{Policy: domain.DefaultPolicyAssumptions()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := doc.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy validation failed: %w", err)
	}
	for name, scenario := range doc.Scenarios {
		if err := scenario.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q validation failed: %w", name, err)
		}
	}

	return &doc, nil
}

// LoadPolicy returns the policy assumptions from filename, or the defaults
// when filename is empty.
func (ip *InputParser) LoadPolicy(filename string) (*domain.PolicyAssumptions, error) {
	if filename == "" {
		policy := domain.DefaultPolicyAssumptions()
		return &policy, nil
	}
	doc, err := ip.LoadScenarioFile(filename)
	if err != nil {
		return nil, err
	}
	return &doc.Policy, nil
}

// Scenario returns the named scenario input from the file.
func (sf *ScenarioFile) Scenario(name string) (*domain.ComparisonInput, error) {
	scenario, ok := sf.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found", name)
	}
	return &scenario, nil
}
