package config

import "fmt"

// PathsConfig fixes where scenarios, solution files and rendered output
// live. The original tooling inferred these from the working directory; here
// they are explicit configuration.
type PathsConfig struct {
	// ScenarioDir holds the scenario XML descriptors.
	ScenarioDir string `json:"scenario_dir"`
	// ResultsDir holds the *_occupancies.csv solution files scanned in
	// batch mode.
	ResultsDir string `json:"results_dir"`
	// OutputDir receives rendered plots and animations.
	OutputDir string `json:"output_dir"`
}

// SetDefaults applies sane defaults.
func (c *PathsConfig) SetDefaults() {
	if c.ScenarioDir == "" {
		c.ScenarioDir = "data/scenarios"
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.OutputDir == "" {
		c.OutputDir = c.ResultsDir
	}
}

// Validate checks mandatory fields.
func (c PathsConfig) Validate() error {
	if c.ScenarioDir == "" {
		return fmt.Errorf("paths: scenario_dir is required")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("paths: results_dir is required")
	}
	return nil
}
