package seed

import (
	_ "embed"
	"fmt"

	"catalog/internal/domain/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// InstrumentFixture references its category by slug since ids are assigned at insert time
type InstrumentFixture struct {
	Category    string `yaml:"category"`
	UserID      string `yaml:"userId"`
	Name        string `yaml:"name"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
}

// Fixtures is the deterministic data set written by the seeder
type Fixtures struct {
	Categories  []models.Category   `yaml:"categories"`
	Users       []string            `yaml:"users"`
	Instruments []InstrumentFixture `yaml:"instruments"`
}

// DefaultFixtures parses the embedded fixture file
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// ParseFixtures decodes a fixture document
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}
