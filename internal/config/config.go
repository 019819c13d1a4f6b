// Package config loads run configuration for the scheduler command from YAML.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

// Names accepted by Config.Constraints, Objective.Type, and Config.Solver.
var (
	KnownConstraints = []string{
		"assign_all_courses",
		"no_instructor_overlap",
		"no_room_overlap",
		"room_capacity",
		"force_rooms",
		"force_time_slots",
	}
	KnownObjectives = []string{
		"minimize_classes_before",
		"minimize_classes_after",
		"maximize_preferred_rooms",
	}
	KnownSolvers = []string{"cbc", "highs", "glpk"}
)

// Config drives one scheduling run: where the record sets live, which solver
// to invoke, which feasibility rules to apply, and the objective stack in
// priority order.
type Config struct {
	Data          Data        `yaml:"data"`
	Output        Output      `yaml:"output"`
	Solver        string      `yaml:"solver"`
	BufferMinutes *int        `yaml:"buffer_minutes"`
	Constraints   []string    `yaml:"constraints"`
	Objectives    []Objective `yaml:"objectives"`
}

// Data locates the record sets. When Problem is set it names a JSON bundle
// holding all three sets and the CSV paths are ignored.
type Data struct {
	Rooms     string `yaml:"rooms"`
	Courses   string `yaml:"courses"`
	TimeSlots string `yaml:"time_slots"`
	Problem   string `yaml:"problem"`
}

// Output locates the run artifacts.
type Output struct {
	Schedule string `yaml:"schedule"`
	Image    string `yaml:"image"`
}

// Objective is one entry of the objective stack. Fields that a given type
// does not use are ignored; empty Instructor or CourseType means no
// restriction.
type Objective struct {
	Type       string   `yaml:"type"`
	Time       string   `yaml:"time"`
	Instructor string   `yaml:"instructor"`
	CourseType string   `yaml:"course_type"`
	Rooms      []string `yaml:"rooms"`
	Sense      string   `yaml:"sense"`
	Tolerance  float64  `yaml:"tolerance"`
}

// Buffer returns the overlap buffer in minutes, falling back to the default
// when the config does not set one.
func (c Config) Buffer() int {
	if c.BufferMinutes == nil {
		return schedule.DefaultBufferMinutes
	}
	return *c.BufferMinutes
}

// Load reads, decodes, and validates a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %v: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %v: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML config payload and applies defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Solver == "" {
		c.Solver = "cbc"
	}
	if c.Data.Rooms == "" {
		c.Data.Rooms = "data/rooms.csv"
	}
	if c.Data.Courses == "" {
		c.Data.Courses = "data/courses.csv"
	}
	if c.Data.TimeSlots == "" {
		c.Data.TimeSlots = "data/time_slots.csv"
	}
	if c.Output.Schedule == "" {
		c.Output.Schedule = "output/schedule.csv"
	}
	if c.Output.Image == "" {
		c.Output.Image = "output/schedule.png"
	}
	if c.Constraints == nil {
		c.Constraints = slices.Clone(KnownConstraints)
	}
}

// Validate checks names and numeric ranges. Time text is validated later,
// when objectives are built.
func (c Config) Validate() error {
	if !slices.Contains(KnownSolvers, c.Solver) {
		return fmt.Errorf("unknown solver %q, expected one of %v", c.Solver, KnownSolvers)
	}
	if c.BufferMinutes != nil && *c.BufferMinutes < 0 {
		return fmt.Errorf("buffer_minutes must be non-negative, got %d", *c.BufferMinutes)
	}
	for _, name := range c.Constraints {
		if !slices.Contains(KnownConstraints, name) {
			return fmt.Errorf("unknown constraint %q, expected one of %v", name, KnownConstraints)
		}
	}
	for i, objective := range c.Objectives {
		if !slices.Contains(KnownObjectives, objective.Type) {
			return fmt.Errorf("objective %d: unknown type %q, expected one of %v", i, objective.Type, KnownObjectives)
		}
		if objective.Sense != "" && objective.Sense != "minimize" && objective.Sense != "maximize" {
			return fmt.Errorf("objective %d: sense must be minimize or maximize, got %q", i, objective.Sense)
		}
		if objective.Tolerance < 0 {
			return fmt.Errorf("objective %d: tolerance must be non-negative, got %v", i, objective.Tolerance)
		}
	}
	return nil
}
