package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a synthetic workload: a number of counter stores, a
// number of mounted selections spread across them, and a dispatch count.
type Scenario struct {
	// Name labels the scenario in output.
	Name string `yaml:"name"`

	// Stores is the number of counter stores to register.
	Stores int `yaml:"stores"`

	// Selections is the number of mounted views, each selecting from one
	// store round-robin.
	Selections int `yaml:"selections"`

	// Dispatches is the total number of increments, spread round-robin
	// across stores.
	Dispatches int `yaml:"dispatches"`

	// BatchSize groups dispatches into transactions of this size.
	// Zero or one means no batching.
	BatchSize int `yaml:"batch_size"`
}

// profiles are the built-in scenarios, selectable with --profile.
var profiles = map[string]Scenario{
	"fast": {
		Name:       "fast",
		Stores:     4,
		Selections: 8,
		Dispatches: 100_000,
	},
	"standard": {
		Name:       "standard",
		Stores:     16,
		Selections: 64,
		Dispatches: 1_000_000,
	},
	"batched": {
		Name:       "batched",
		Stores:     16,
		Selections: 64,
		Dispatches: 1_000_000,
		BatchSize:  100,
	},
}

// loadScenario reads a scenario from a YAML file and fills unset fields
// with the fast profile's defaults.
func loadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	s := Scenario{Name: "custom"}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	defaults := profiles["fast"]
	if s.Stores <= 0 {
		s.Stores = defaults.Stores
	}
	if s.Selections <= 0 {
		s.Selections = defaults.Selections
	}
	if s.Dispatches <= 0 {
		s.Dispatches = defaults.Dispatches
	}
	return s, nil
}
