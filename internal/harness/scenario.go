package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one end-to-end exercise of the fixture bench: a batch of
// runs plus expectations about what they leave behind.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Runs        []RunStep `yaml:"runs"`
	Expect      Expect    `yaml:"expect"`
}

// RunStep builds one task/method pair and runs it Repeat times.
// Repeat zero means once.
type RunStep struct {
	Task   EntityRef `yaml:"task"`
	Method EntityRef `yaml:"method"`
	Repeat int       `yaml:"repeat,omitempty"`
}

// EntityRef names a registered type and its constructor arguments.
type EntityRef struct {
	Type string         `yaml:"type"`
	Args map[string]any `yaml:"args,omitempty"`
}

// Expect states what must hold after the scenario's runs finish.
type Expect struct {
	// Records is the number of run records left in the database.
	Records int `yaml:"records"`

	// Metrics, when set, is the exact sequence of metric names every
	// record's evaluation must produce.
	Metrics []string `yaml:"metrics,omitempty"`

	// Error, when set, is the taxonomy kind of the failure the runs
	// must hit ("execution", "configuration", ...). Empty means every
	// run must succeed.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads one scenario file. Unknown YAML keys are
// rejected, so a typo in an expectation fails the load instead of
// silently weakening it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarios reads every *.yaml file in a directory, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Runs) == 0 {
		return errors.New("at least one run is required")
	}
	for i, step := range s.Runs {
		if step.Task.Type == "" {
			return fmt.Errorf("runs[%d]: task type is required", i)
		}
		if step.Method.Type == "" {
			return fmt.Errorf("runs[%d]: method type is required", i)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("runs[%d]: repeat %d, want at least 0", i, step.Repeat)
		}
	}
	if s.Expect.Records < 0 {
		return fmt.Errorf("expect.records %d, want at least 0", s.Expect.Records)
	}
	return nil
}
