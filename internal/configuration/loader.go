package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingProfile = errors.New("profile and profile dir are required")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

type Loader struct {
	baseDir    string
	profileDir string
	cfg        *Properties
}

func NewLoader(baseDir, profileDir string) *Loader {
	return &Loader{baseDir: baseDir, profileDir: profileDir}
}

// Load reads application.yml from the base dir, then overlays
// application-<profile>.yml from the profile dir. A .env file in the base dir
// is loaded into the environment first; variables already set win.
func Load(baseDir, profileDir string) (*Properties, error) {
	return NewLoader(baseDir, profileDir).Load()
}

func (l *Loader) Load() (*Properties, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}
	if err := l.loadBase(); err != nil {
		return nil, err
	}
	if err := l.loadProfile(); err != nil {
		return nil, err
	}
	if err := l.cfg.Validate(); err != nil {
		return nil, err
	}
	return l.cfg, nil
}

func (l *Loader) loadDotEnv() error {
	path := filepath.Join(l.baseDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	slog.Debug("environment file loaded", "path", path)
	return nil
}

func (l *Loader) loadBase() error {
	raw, err := loadAndExpandYaml(l.baseDir, "application")
	if err != nil {
		slog.Error("Error loading base config", "error", err.Error())
		return err
	}

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(raw), cfg); err != nil {
		slog.Error("Error parsing base config", "error", err.Error())
		return fmt.Errorf("parse application.yml: %w", err)
	}

	l.cfg = cfg
	return nil
}

func (l *Loader) loadProfile() error {
	profile := l.cfg.App.Profile
	if profile == "" || l.profileDir == "" {
		return ErrMissingProfile
	}
	slog.Info("Profile set", "profile", profile)

	raw, err := loadAndExpandYaml(l.profileDir, "application-"+profile)
	if err != nil {
		slog.Error("Error loading profile config", "error", err.Error())
		return err
	}

	if err := yaml.Unmarshal([]byte(raw), l.cfg); err != nil {
		slog.Error("Error parsing profile config", "error", err.Error())
		return fmt.Errorf("parse application-%s.yml: %w", profile, err)
	}
	return nil
}

func defaults() *Properties {
	return &Properties{
		App: AppProperties{LogLevel: "info"},
		Store: StoreProperties{
			Scenario:   ScenarioSimpleAsync,
			LoadDelay:  500,
			ThunkSteps: 3,
		},
		Metrics: MetricsProperties{Address: ":9090"},
		Journal: JournalProperties{Dir: "data/journal"},
	}
}

func (p *Properties) Validate() error {
	switch p.Store.Scenario {
	case ScenarioSimpleAsync, ScenarioThunk:
	default:
		return fmt.Errorf("%w: unknown store.scenario %q", ErrInvalidConfig, p.Store.Scenario)
	}
	if p.Store.LoadDelay < 0 {
		return fmt.Errorf("%w: store.load-delay must not be negative", ErrInvalidConfig)
	}
	if p.Store.ThunkSteps < 1 {
		return fmt.Errorf("%w: store.thunk-steps must be at least 1", ErrInvalidConfig)
	}
	if p.Metrics.Enabled && p.Metrics.Address == "" {
		return fmt.Errorf("%w: metrics.address is required when metrics are enabled", ErrInvalidConfig)
	}
	if p.Journal.Enabled && p.Journal.Dir == "" {
		return fmt.Errorf("%w: journal.dir is required when the journal is enabled", ErrInvalidConfig)
	}
	return nil
}
