package main

import (
	"fmt"
	"log/slog"

	"flowstore/internal/configuration"
	"flowstore/internal/journal"
	"flowstore/internal/logging"
	"flowstore/internal/metrics"
)

// Services are the process-level dependencies of the run command.
type Services struct {
	Config  *configuration.Properties
	Logger  *slog.Logger
	Metrics *metrics.Server
	Journal *journal.Journal
}

func NewServices(configDir, profileDir, scenario string) (*Services, error) {
	cfg, err := configuration.Load(configDir, profileDir)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if scenario != "" {
		cfg.Store.Scenario = scenario
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	svc := &Services{
		Config: cfg,
		Logger: logging.Init(cfg.App.LogLevel),
	}

	if cfg.Metrics.Enabled {
		svc.Metrics = metrics.NewServer(cfg.Metrics.Address)
		if err := svc.Metrics.Start(); err != nil {
			return nil, fmt.Errorf("start metrics server: %w", err)
		}
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Dir, cfg.Journal.NoSync)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		svc.Journal = j
	}

	return svc, nil
}

func (s *Services) Close() {
	if s.Journal != nil {
		if err := s.Journal.Close(); err != nil {
			slog.Error("journal close error", "error", err)
		}
	}
	if s.Metrics != nil {
		s.Metrics.Stop()
	}
}
