package testing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"applierctl/internal/api"
)

// ModuleConfig describes one module served by the fake applier.
type ModuleConfig struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	// State is shown in the status page and detail fragment; empty means Ready.
	State string `yaml:"state,omitempty"`
	// Output is rendered as the last run's output in the detail fragment.
	Output string `yaml:"output,omitempty"`
	// LockedBy holds the lock id a force run must present to be accepted.
	LockedBy string `yaml:"lockedBy,omitempty"`
	// Pending marks a run request the applier has queued but not started.
	// Force runs are rejected while it is set.
	Pending bool `yaml:"pending,omitempty"`
}

// Scenario is the set of modules a fake applier starts with.
type Scenario struct {
	Modules []ModuleConfig `yaml:"modules"`
	// JSONResponses makes force runs answer {"result":..,"message":..}
	// instead of plain text.
	JSONResponses bool `yaml:"jsonResponses,omitempty"`
	// PickupAfter is the number of detail reads that still show a queued
	// run as not started. The next read finds the module Running.
	PickupAfter int `yaml:"pickupAfter,omitempty"`
}

// ParseScenario decodes a YAML scenario.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	for i, m := range s.Modules {
		if m.Namespace == "" || m.Name == "" {
			return Scenario{}, fmt.Errorf("module %d: %w", i, api.ErrModuleRequired)
		}
		if m.State == "" {
			s.Modules[i].State = api.StateReady
		}
	}
	return s, nil
}

// LoadScenario reads a YAML scenario from path.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// Request is a request received by the fake applier.
type Request struct {
	Method  string
	Path    string
	Payload map[string]string
}

// failure is a canned error response for the next request to a path.
type failure struct {
	code int
	body string
}
