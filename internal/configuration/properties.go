package configuration

import (
	"time"
)

type Properties struct {
	App     AppProperties     `yaml:"app"`
	Store   StoreProperties   `yaml:"store"`
	Metrics MetricsProperties `yaml:"metrics"`
	Journal JournalProperties `yaml:"journal"`
}

type AppProperties struct {
	Profile  string `yaml:"profile"`
	LogLevel string `yaml:"log-level"`
}

// StoreProperties drive the sample scenarios run by the CLI.
type StoreProperties struct {
	Scenario   string `yaml:"scenario"`
	LoadDelay  int    `yaml:"load-delay"`
	ThunkSteps int    `yaml:"thunk-steps"`
}

type MetricsProperties struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type JournalProperties struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	NoSync  bool   `yaml:"no-sync"`
}

const (
	ScenarioSimpleAsync = "simple-async"
	ScenarioThunk       = "thunk"
)

// LoadDelayDuration is LoadDelay read as milliseconds.
func (s *StoreProperties) LoadDelayDuration() time.Duration {
	return time.Duration(s.LoadDelay) * time.Millisecond
}
